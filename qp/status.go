package qp

// Status reports the outcome of a Solve call.
type Status int

const (
	// StatusSolved means both the primal and dual residuals fell below
	// their tolerances.
	StatusSolved Status = iota
	// StatusMaxIterReached means the outer loop's iteration cap was hit
	// before convergence; Result carries the iterate reached at the last
	// outer iteration (no best-so-far iterate is tracked).
	StatusMaxIterReached
	// StatusPrimalInfeasible means the primal residual stagnated above
	// Settings.EpsPrimalInf for Settings.InfeasibilityWindow consecutive
	// outer iterations.
	StatusPrimalInfeasible
	// StatusDualInfeasible is the dual-residual analog of
	// StatusPrimalInfeasible.
	StatusDualInfeasible
	// StatusNumericFailure means ldlt reported a non-finite or
	// numerically invalid pivot that a refactor (if
	// Settings.RefactorOnNumericFailure is set) could not recover from.
	StatusNumericFailure
)

func (s Status) String() string {
	switch s {
	case StatusSolved:
		return "SOLVED"
	case StatusMaxIterReached:
		return "MAX_ITER_REACHED"
	case StatusPrimalInfeasible:
		return "PRIMAL_INFEASIBLE"
	case StatusDualInfeasible:
		return "DUAL_INFEASIBLE"
	case StatusNumericFailure:
		return "NUMERIC_FAILURE"
	default:
		return "UNKNOWN"
	}
}

// Stats counts the work Solve did: n_ext is the number of outer
// iterations, n_tot the total number of inner (Newton) iterations
// across all outer iterations, and n_mu_updates the number of times the
// outer loop rejected multipliers and tightened mu instead.
type Stats struct {
	NExt        int
	NTot        int
	NMuUpdates int
}

// Result is the outcome of a Solve call: the iterate, the inverse
// penalties and proximal weight at the final state, and bookkeeping.
type Result struct {
	X, Y, Z []float64

	MuEqInv float64
	MuInInv float64
	Rho     float64
	Nu      float64

	Stats   Stats
	NActive int
	Status  Status
}

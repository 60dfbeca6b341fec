package qp

// InitialGuess selects how (x, y, z) are initialized before the outer
// loop starts.
type InitialGuess int

const (
	// NoInitialGuess leaves the caller's (x, y, z) untouched.
	NoInitialGuess InitialGuess = iota
	// UnconstrainedInitialGuess leaves the caller's (x, y, z) untouched;
	// Solve runs no separate unconstrained pre-solve for it, and the
	// outer loop starts from the supplied values.
	UnconstrainedInitialGuess
	// EqualityConstrainedInitialGuess leaves the caller's (x, y, z)
	// untouched; Solve runs no separate equality-only pre-solve for it,
	// and the outer loop starts from the supplied values.
	EqualityConstrainedInitialGuess
	// WarmStartPrevious uses the caller-supplied (x, y, z) as-is. Solve
	// keeps no state between calls, so the only previous result it can
	// start from is one the caller passes back in.
	WarmStartPrevious
	// WarmStart uses the caller-supplied (x, y, z) as-is.
	WarmStart
	// ColdStart resets (x, y, z) to zero.
	ColdStart
)

// Settings configures Solve. DefaultSettings returns a populated value;
// callers should start from it and override only the fields they need.
type Settings struct {
	// AlphaBCL is the absolute-acceptance threshold for the outer BCL
	// loop: a primal residual already at or below AlphaBCL*tolPrimal is
	// accepted outright, without waiting for the usual BetaBCL
	// relative-improvement test.
	AlphaBCL float64
	BetaBCL  float64

	MuMaxEq        float64
	MuMaxIn        float64
	MuUpdateFactor float64
	ColdResetMuEq  float64
	ColdResetMuIn  float64

	// RefactorRhoThreshold and RefactorDualFeasibilityThreshold trigger
	// a full KKT refactor, rather than trusting the incremental
	// active-set update just applied, whenever rho falls to or below
	// RefactorRhoThreshold or the dual residual's infinity norm grows to
	// or beyond RefactorDualFeasibilityThreshold.
	RefactorRhoThreshold             float64
	RefactorDualFeasibilityThreshold float64

	MaxIter   int
	MaxIterIn int

	EpsAbs        float64
	EpsRel        float64
	EpsPrimalInf  float64
	EpsDualInf    float64

	NbIterativeRefinement int

	InitialGuess InitialGuess
	Verbose      bool

	// MaxBreakpoint bounds the magnitude of breakpoints accepted by the
	// line search (spec §9 Open Question i); the source leaves this a
	// hand-tuned constant, so this package exposes it as a setting with
	// a documented default.
	MaxBreakpoint float64

	// RefactorOnNumericFailure, when set, makes the outer loop attempt
	// one full refactor with an enlarged rho after a numeric failure
	// from ldlt before reporting StatusNumericFailure.
	RefactorOnNumericFailure bool

	// InfeasibilityWindow is the number of consecutive outer iterations
	// a residual must stagnate above EpsPrimalInf/EpsDualInf before the
	// corresponding infeasibility status is reported (spec §7's
	// "configurable window").
	InfeasibilityWindow int
}

// DefaultSettings returns the settings this package uses when a caller
// has no reason to deviate. The Mu fields are penalty parameters: the
// KKT matrix carries -1/mu on its dual diagonal blocks, a rejected outer
// iteration multiplies mu by MuUpdateFactor, and MuMaxEq/MuMaxIn cap
// that growth, so the cold-reset values are the starting penalties.
func DefaultSettings() Settings {
	return Settings{
		AlphaBCL:                         0.1,
		BetaBCL:                          0.9,
		MuMaxEq:                          1e9,
		MuMaxIn:                          1e9,
		MuUpdateFactor:                   10,
		ColdResetMuEq:                    1e3,
		ColdResetMuIn:                    1e1,
		RefactorRhoThreshold:             1e-7,
		RefactorDualFeasibilityThreshold: 1e-2,
		MaxIter:                          100,
		MaxIterIn:                        1500,
		EpsAbs:                           1e-9,
		EpsRel:                           0,
		EpsPrimalInf:                     1e-4,
		EpsDualInf:                       1e-4,
		NbIterativeRefinement:            3,
		InitialGuess:                     EqualityConstrainedInitialGuess,
		MaxBreakpoint:                    1e6,
		RefactorOnNumericFailure:         true,
		InfeasibilityWindow:              5,
	}
}

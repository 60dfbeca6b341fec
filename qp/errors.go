package qp

import "errors"

// Errors returned by NewModel when the problem data itself, not the
// caller's contract, is at fault. Dimension mismatches panic instead,
// following the convention in optimize/convex/lp/swap.go: a caller that
// passes mismatched shapes has a bug, while l[i] > u[i] is a property
// of the data a validating caller can legitimately hit and recover
// from.
var (
	// ErrInfeasibleBounds is returned by NewModel when some l[i] > u[i].
	ErrInfeasibleBounds = errors.New("qp: infeasible bound l[i] > u[i]")

	// ErrAsymmetricH is returned by NewModel when H is not symmetric to
	// within the tolerance NewModel checks at.
	ErrAsymmetricH = errors.New("qp: H is not symmetric")
)

// Copyright ©2024 The proxqp-go Authors. All rights reserved.

// Package workspace holds the mutable scratch state of a single Solve
// call: scaled problem copies, residual and step vectors, the
// active-set bijection, the breakpoint buffer, the KKT factorization,
// and the scoped arena everything else borrows from.
//
// A Workspace's lifetime is exactly one Solve call (spec §3,
// "Workspace... lifetime = one solve"); qp.Solve constructs one,
// threads it through the outer/inner loop, and discards it on return.
package workspace

import (
	"github.com/proxqp-go/proxqp/ldlt"
	"github.com/proxqp-go/proxqp/mat"
	"github.com/proxqp-go/proxqp/qp/internal/stack"
)

// Bijection is the active-inequality bijection of spec §3/§4.2: Cur[i]
// is inequality i's slot. If Cur[i] < NActive, row i is pinned in the
// factorized KKT at position Cur[i] among the active rows; otherwise it
// is parked in the inactive pool. CurInv is the inverse restricted to
// the active range: CurInv[k] is the original inequality index pinned
// at active slot k.
type Bijection struct {
	Cur     []int
	CurInv  []int
	NActive int
}

// NewBijection returns a Bijection for nIn inequalities, all initially
// inactive.
func NewBijection(nIn int) *Bijection {
	cur := make([]int, nIn)
	for i := range cur {
		cur[i] = nIn - 1
	}
	return &Bijection{
		Cur:    cur,
		CurInv: make([]int, nIn),
	}
}

// Workspace is the scratch state threaded through one Solve call.
type Workspace struct {
	N, NEq, NIn int

	// Scaled problem copies. Hs is dense even though the model's H is
	// only declared Symmetric, since the KKT assembly reads both
	// triangles of it every inner iteration.
	Hs     *mat.Dense
	Gs     []float64
	As     *mat.Dense
	Bs     []float64
	Cs     *mat.Dense
	Ls, Us []float64

	// Residuals, spec §3.
	PrimalEqRes  []float64 // A x - b
	PrimalInUp   []float64 // C x - u
	PrimalInLow  []float64 // C x - l
	DualRes      []float64 // H x + g + rho(x-xPrev) + A^T y + C^T z

	// Step vectors.
	Hdx   []float64
	Adx   []float64
	Cdx   []float64
	DwAug []float64 // concatenation of Dx, Dy, DzActive

	ATy []float64 // scratch: A^T y, length N
	CTz []float64 // scratch: C^T z, length N

	ActiveInequalities []bool
	ActiveUpper        []bool // meaningful only where ActiveInequalities[i] is true
	XPrev, YPrev, ZPrev []float64

	Bij *Bijection

	Alphas []float64

	Fact *ldlt.Factorization

	Arena *stack.Arena
}

// New allocates a Workspace sized for a problem with the given
// dimensions.
func New(n, nEq, nIn int) *Workspace {
	w := &Workspace{
		N: n, NEq: nEq, NIn: nIn,

		Gs: make([]float64, n),
		Bs: make([]float64, nEq),
		Ls: make([]float64, nIn),
		Us: make([]float64, nIn),

		PrimalEqRes: make([]float64, nEq),
		PrimalInUp:  make([]float64, nIn),
		PrimalInLow: make([]float64, nIn),
		DualRes:     make([]float64, n),

		Hdx: make([]float64, n),
		Adx: make([]float64, nEq),
		Cdx: make([]float64, nIn),
		ATy: make([]float64, n),
		CTz: make([]float64, n),

		ActiveInequalities: make([]bool, nIn),
		ActiveUpper:        make([]bool, nIn),
		XPrev:              make([]float64, n),
		YPrev:              make([]float64, nEq),
		ZPrev:              make([]float64, nIn),

		Bij: NewBijection(nIn),

		Fact: ldlt.New(),

		Arena: stack.NewArena(8*(n+nEq+nIn), 4*nIn),
	}
	if n > 0 {
		w.Hs = mat.NewDense(n, n, nil)
	}
	if nEq > 0 {
		w.As = mat.NewDense(nEq, n, nil)
	}
	if nIn > 0 {
		w.Cs = mat.NewDense(nIn, n, nil)
	}
	return w
}

// KKTDim returns the current dimension of the factorized KKT matrix:
// n + nEq + the number of active inequalities.
func (w *Workspace) KKTDim() int {
	return w.N + w.NEq + w.Bij.NActive
}

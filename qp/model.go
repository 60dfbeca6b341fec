package qp

import "github.com/proxqp-go/proxqp/mat"

// Dims holds the three sizes that determine every shape check in this
// package: the number of primal variables and the number of equality
// and inequality rows.
type Dims struct {
	N, NEq, NIn int
}

// Model is an immutable convex QP:
//
//	minimize   ½ xᵀHx + gᵀx
//	subject to Ax = b,  l ≤ Cx ≤ u
//
// Build one with NewModel; it performs the shape and data validation
// spec'd for QPModel once, at construction, so every later use of a
// *Model can assume consistent dimensions and l[i] <= u[i].
type Model struct {
	Dims Dims

	H mat.Symmetric
	G []float64

	A *mat.Dense // may be nil if NEq == 0
	B []float64

	C *mat.Dense // may be nil if NIn == 0
	L []float64
	U []float64

	// EqualBound records, per inequality row, whether L[i] == U[i]; such
	// a row is a permanently-active equality pair (spec §3, boundary
	// behaviors) and the active-set engine never removes it once pinned.
	EqualBound []bool
}

// NewModel validates and wraps the given problem data as a Model.
// Dimension mismatches between the arguments are contract violations
// and panic; an infeasible bound (l[i] > u[i]) or an asymmetric H are
// data problems and are returned as an error.
func NewModel(h mat.Symmetric, g []float64, a *mat.Dense, b []float64, c *mat.Dense, l, u []float64) (*Model, error) {
	n := h.SymmetricDim()
	if len(g) != n {
		panic(mat.ErrShape)
	}
	nEq := 0
	if a != nil {
		r, cc := a.Dims()
		if cc != n {
			panic(mat.ErrShape)
		}
		nEq = r
	}
	if len(b) != nEq {
		panic(mat.ErrShape)
	}
	nIn := 0
	if c != nil {
		r, cc := c.Dims()
		if cc != n {
			panic(mat.ErrShape)
		}
		nIn = r
	}
	if len(l) != nIn || len(u) != nIn {
		panic(mat.ErrShape)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if !floatsEqual(h.At(i, j), h.At(j, i)) {
				return nil, ErrAsymmetricH
			}
		}
	}

	equalBound := make([]bool, nIn)
	for i := 0; i < nIn; i++ {
		if l[i] > u[i] {
			return nil, ErrInfeasibleBounds
		}
		equalBound[i] = l[i] == u[i]
	}

	return &Model{
		Dims:       Dims{N: n, NEq: nEq, NIn: nIn},
		H:          h,
		G:          g,
		A:          a,
		B:          b,
		C:          c,
		L:          l,
		U:          u,
		EqualBound: equalBound,
	}, nil
}

func floatsEqual(a, b float64) bool {
	const tol = 1e-9
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}

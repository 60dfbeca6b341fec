package ldlt

import (
	"math"
	"sort"

	"github.com/proxqp-go/proxqp/mat"
)

// simdAlignment is the element alignment the storage stride is rounded
// up to. The original C++ implementation rounds byte offsets up to the
// platform SIMD vector width; since Go's allocator gives no alignment
// guarantee finer-grained than the slice header itself, this package
// instead rounds the column stride up to a multiple of this many
// float64 elements (64 bytes at 8 bytes/element, matching an AVX-512
// vector of 8 float64s), which is sufficient for an auto-vectorizing
// compiler to pack whole SIMD lanes down a column.
const simdAlignment = 8

// defaultPivotTol is the default magnitude below which a pivot is
// treated as numerically invalid. It is deliberately not tied to the
// sign of the pivot: the KKT systems this package factors for the qp
// package are symmetric indefinite by construction (the dual blocks
// carry a negative diagonal), so "non-positive pivot" in the informal
// sense only signals failure when the pivot has also collapsed to
// (numerically) zero or turned non-finite. This package has no SPD-only
// variant of Factorize: a negative pivot larger in magnitude than the
// tolerance is always accepted.
const defaultPivotTol = 1e-12

// Factorization holds the in-place LDLᵀ factorization P·M·Pᵀ = L·D·Lᵀ of
// a symmetric matrix, together with the bookkeeping needed to update it
// without a full refactor.
//
// The zero value is not ready to use; create one with New.
type Factorization struct {
	dim    int
	stride int

	// ldStorage is column-major with column stride `stride`; the
	// strict lower triangle holds L (unit diagonal implied) and the
	// diagonal holds D. Only the leading dim×dim corner is meaningful;
	// the rest is spare capacity reserved for future growth.
	ldStorage []float64

	perm    []int // perm[storage position] = external index
	permInv []int // permInv[external index] = storage position

	// maybeSortedDiag is a best-effort record of D in storage order,
	// consulted only as a heuristic for where future insertions land;
	// correctness of the factorization never depends on it being
	// exactly sorted.
	maybeSortedDiag []float64

	pivotTol float64
}

// New returns an empty Factorization ready to be populated by Factorize.
func New() *Factorization {
	return &Factorization{pivotTol: defaultPivotTol}
}

// SetPivotTolerance overrides the magnitude below which a pivot is
// rejected as numerically invalid. The default is 1e-12.
func (f *Factorization) SetPivotTolerance(tol float64) {
	f.pivotTol = tol
}

// Dim returns the current dimension of the factorized matrix.
func (f *Factorization) Dim() int { return f.dim }

func adjustedStride(n int) int {
	if n <= 0 {
		return simdAlignment
	}
	return ((n + simdAlignment - 1) / simdAlignment) * simdAlignment
}

// Reserve grows the backing storage so that the factorization can hold
// a matrix of dimension n without further reallocation, without
// shrinking any existing reservation. It does not change Dim.
func (f *Factorization) Reserve(n int) {
	newStride := adjustedStride(n)
	if f.stride >= newStride && len(f.ldStorage) >= n*f.stride {
		return
	}
	if newStride < f.stride {
		newStride = f.stride
	}
	capCols := n
	if f.dim > capCols {
		capCols = f.dim
	}
	newStorage := make([]float64, capCols*newStride)
	if f.stride > 0 {
		for j := 0; j < f.dim; j++ {
			copy(newStorage[j*newStride:j*newStride+f.dim], f.ldStorage[j*f.stride:j*f.stride+f.dim])
		}
	}
	f.ldStorage = newStorage
	f.stride = newStride
}

func (f *Factorization) pivotValid(d float64) bool {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return false
	}
	return math.Abs(d) > f.pivotTol
}

// diag returns D[j] (storage order).
func (f *Factorization) diag(j int) float64 { return f.ldStorage[j*f.stride+j] }

// Factorize computes the LDLᵀ factorization of the symmetric matrix m,
// choosing the pivot order by sorting the diagonal of m in decreasing
// order of magnitude and performing a single in-place pass with no
// further pivoting. It returns ErrNonPositivePivot if a pivot collapses
// to (numerically) zero or becomes non-finite; in that case the
// receiver is left in a partially-overwritten, unusable state and must
// be refactorized before further use.
//
// m must be square; Factorize panics if it is not.
func (f *Factorization) Factorize(m mat.Matrix) error {
	n, c := m.Dims()
	if n != c {
		panic(mat.ErrSquare)
	}
	f.Reserve(n)
	f.dim = n
	f.perm = growInts(f.perm, n)
	f.permInv = growInts(f.permInv, n)
	f.maybeSortedDiag = growFloats(f.maybeSortedDiag, n)

	order := f.perm[:n]
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return math.Abs(m.At(order[a], order[a])) > math.Abs(m.At(order[b], order[b]))
	})
	for storagePos, ext := range order {
		f.permInv[ext] = storagePos
	}

	for j := 0; j < n; j++ {
		extJ := f.perm[j]
		col := f.ldStorage[j*f.stride : j*f.stride+n]
		for i := 0; i < n; i++ {
			col[i] = m.At(f.perm[i], extJ)
		}
	}
	for i := 0; i < n; i++ {
		f.maybeSortedDiag[i] = f.ldStorage[i*f.stride+i]
	}
	return f.factorizeBlock(0, n)
}

// factorizeBlock performs a plain (no-pivoting) in-place LDLᵀ
// factorization of the n×n block of ldStorage starting at (offset,
// offset), subtracting the rank-one contribution of every earlier
// column within the block before dividing by its pivot. It is used both
// by Factorize (offset 0) and, internally, to factorize the trailing
// Schur-complement block produced by InsertBlockAt.
func (f *Factorization) factorizeBlock(offset, n int) error {
	stride := f.stride
	end := offset + n
	for jj := 0; jj < n; jj++ {
		j := offset + jj
		colJ := f.ldStorage[j*stride:]
		for kk := 0; kk < jj; kk++ {
			k := offset + kk
			colK := f.ldStorage[k*stride:]
			ljk := colK[j]
			if ljk == 0 {
				continue
			}
			dk := f.ldStorage[k*stride+k]
			factor := ljk * dk
			for i := j; i < end; i++ {
				colJ[i] -= colK[i] * factor
			}
		}
		d := colJ[j]
		if !f.pivotValid(d) {
			return ErrNonPositivePivot
		}
		for i := j + 1; i < end; i++ {
			colJ[i] /= d
		}
	}
	return nil
}

// SolveVec solves M x = b in place, where M is the matrix last passed to
// Factorize (as subsequently updated by any rank-r update, insertion,
// deletion or diagonal update), overwriting rhs with the solution.
func (f *Factorization) SolveVec(rhs []float64) {
	scratch := make([]float64, f.dim)
	f.SolveVecInto(rhs, scratch)
}

// SolveVecInto is SolveVec using the caller-supplied scratch buffer
// instead of allocating one, so that repeated solves (as in the Newton
// step engine's iterative refinement) can reuse a single buffer drawn
// from a scoped arena.
func (f *Factorization) SolveVecInto(rhs, scratch []float64) {
	n := f.dim
	if len(rhs) != n {
		panic(mat.ErrShape)
	}
	if len(scratch) != n {
		panic(mat.ErrShape)
	}
	mat.ApplyPermutation(f.perm, scratch, rhs)
	mat.TriangularSolveVec(n, f.ldStorage, f.stride, true, true, scratch)
	for i := 0; i < n; i++ {
		scratch[i] /= f.diag(i)
	}
	mat.TriangularSolveVec(n, f.ldStorage, f.stride, false, true, scratch)
	mat.ApplyInversePermutation(f.perm, rhs, scratch)
}

// Reconstruct returns the dense n×n matrix P'·L·D·Lᵀ·P'ᵀ represented by
// the factorization, where P' is the permutation's inverse applied on
// both sides so that the result is expressed in external index order.
// It is intended for tests (spec invariants 1-5) and debugging, not for
// use in the solve hot path.
func (f *Factorization) Reconstruct() *mat.Dense {
	n := f.dim
	ld := mat.NewDense(n, n, nil)
	for j := 0; j < n; j++ {
		ld.Set(j, j, 1)
		for i := j + 1; i < n; i++ {
			ld.Set(i, j, f.ldStorage[j*f.stride+i])
		}
	}
	out := mat.NewDense(n, n, nil)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			var sum float64
			for k := 0; k <= i && k <= j; k++ {
				sum += ld.At(i, k) * f.diag(k) * ld.At(j, k)
			}
			out.Set(i, j, sum)
		}
	}
	// Permute from storage order back to external order: result(ext_i,
	// ext_j) = out(storage_i, storage_j).
	final := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			final.Set(f.perm[i], f.perm[j], out.At(i, j))
		}
	}
	return final
}

func growInts(s []int, n int) []int {
	if cap(s) >= n {
		return s[:n]
	}
	return make([]int, n)
}

func growFloats(s []float64, n int) []float64 {
	if cap(s) >= n {
		return s[:n]
	}
	return make([]float64, n)
}

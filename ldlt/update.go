package ldlt

import "github.com/proxqp-go/proxqp/mat"

// rank1Update applies a single symmetric rank-one modification
// M += alpha * w * wᵀ to the trailing block [start, dim) of the
// factorization, where w has length dim-start. Entries with storage
// index below start are mathematically unaffected whenever the
// rank-one vector is zero there (which is how DiagonalUpdate exploits
// this to start the cascade at the smallest affected index instead of
// at 0), so callers updating only a tail of the matrix can pass a
// shorter w and the matching start directly.
//
// This is the classic Gill/Golub/Murray/Saunders rank-one update of an
// LDLᵀ factorization: it runs the cascade column by column, updating
// the pivot and propagating the corrected multiplier vector downward,
// all without ever forming the updated dense matrix.
func (f *Factorization) rank1Update(start int, w []float64, alpha float64) error {
	dim := f.dim
	stride := f.stride
	t := alpha
	for j := start; j < dim; j++ {
		local := j - start
		d := f.ldStorage[j*stride+j]
		p := w[local]
		dNew := d + t*p*p
		if !f.pivotValid(dNew) {
			return ErrNonPositivePivot
		}
		beta := t * p / dNew
		f.ldStorage[j*stride+j] = dNew
		tNext := d * t / dNew
		col := f.ldStorage[j*stride:]
		for i := j + 1; i < dim; i++ {
			lij := col[i]
			wi := w[i-start] - p*lij
			w[i-start] = wi
			col[i] = lij + beta*wi
		}
		t = tNext
	}
	if start < dim {
		f.maybeSortedDiag[start] = f.ldStorage[start*stride+start]
	}
	return nil
}

// RankRUpdate updates the factorization in place so that it represents
// M + W·diag(alpha)·Wᵀ, where W is n×r (n = f.Dim()) and alpha has
// length r. It applies the rank-1 cascade r times, once per column of
// W, after permuting each column of W into storage order - mirroring
// the original C++ rank_r_update, which permutes w the same way before
// handing it to the single-update kernel.
//
// RankRUpdate never materializes M; it costs O(r·n²).
func (f *Factorization) RankRUpdate(w mat.Matrix, alpha []float64) error {
	rows, r := w.Dims()
	if r == 0 {
		return nil
	}
	if rows != f.dim {
		panic(mat.ErrShape)
	}
	if len(alpha) != r {
		panic(mat.ErrShape)
	}
	n := f.dim
	permuted := make([]float64, n)
	for k := 0; k < r; k++ {
		for i := 0; i < n; i++ {
			permuted[i] = w.At(f.perm[i], k)
		}
		if err := f.rank1Update(0, permuted, alpha[k]); err != nil {
			return err
		}
	}
	return nil
}

// DiagonalUpdate is the diagonal specialization of RankRUpdate: it is
// equivalent to RankRUpdate with W equal to the columns of the identity
// matrix at the given external indices, but it exploits the resulting
// sparsity by starting each rank-one cascade at the smallest affected
// storage index instead of at 0.
//
// indices and alpha must have the same length; indices are external
// (pre-permutation) and need not be sorted.
func (f *Factorization) DiagonalUpdate(indices []int, alpha []float64) error {
	if len(indices) != len(alpha) {
		panic(mat.ErrShape)
	}
	for k, ext := range indices {
		if ext < 0 || ext >= f.dim {
			return ErrIndexRange
		}
		start := f.permInv[ext]
		w := make([]float64, f.dim-start)
		w[0] = 1
		if err := f.rank1Update(start, w, alpha[k]); err != nil {
			return err
		}
	}
	return nil
}

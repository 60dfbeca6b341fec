package mat

// This file collects the BLAS-3-level primitives the ldlt package builds
// on: general matrix multiply, symmetric rank-k update, triangular solve
// and permutation application, each operating directly on column-major
// []float64 buffers with an explicit leading dimension (stride) rather
// than on a Dense, since ldlt.Factorization keeps its own backing array
// and only ever needs these narrow operations on slices of it.
//
// The calling convention (alpha/beta scalars, explicit lda/ldb/ldc leading
// dimensions) mirrors gonum.org/v1/gonum/blas64's Dgemm/Dsyrk/Dtrsm
// wrappers; the bodies here are plain Go loops rather than calls into a
// cgo or assembly BLAS, matching the "noasm" fallback kernels in
// internal/asm/f64 (ge_noasm.go, gemm_noasm.go) for the same reason: a
// pure-Go reference implementation is always available and the design
// explicitly leaves the choice of BLAS backend open (spec §9).

// Gemm computes C = alpha*A*B + beta*C, where A is m×k, B is k×n and C is
// m×n, all stored column-major with the given leading dimensions.
func Gemm(m, n, k int, alpha float64, a []float64, lda int, b []float64, ldb int, beta float64, c []float64, ldc int) {
	for j := 0; j < n; j++ {
		if beta == 0 {
			for i := 0; i < m; i++ {
				c[j*ldc+i] = 0
			}
		} else if beta != 1 {
			for i := 0; i < m; i++ {
				c[j*ldc+i] *= beta
			}
		}
		for p := 0; p < k; p++ {
			bpj := alpha * b[j*ldb+p]
			if bpj == 0 {
				continue
			}
			for i := 0; i < m; i++ {
				c[j*ldc+i] += a[p*lda+i] * bpj
			}
		}
	}
}

// GemvNoTrans computes y = alpha*A*x + beta*y, where A is m×n, stored
// column-major with leading dimension lda.
func GemvNoTrans(m, n int, alpha float64, a []float64, lda int, x []float64, beta float64, y []float64) {
	if beta == 0 {
		for i := range y[:m] {
			y[i] = 0
		}
	} else if beta != 1 {
		for i := range y[:m] {
			y[i] *= beta
		}
	}
	for j := 0; j < n; j++ {
		xj := alpha * x[j]
		if xj == 0 {
			continue
		}
		col := a[j*lda : j*lda+m]
		for i, aij := range col {
			y[i] += aij * xj
		}
	}
}

// GemvTrans computes y = alpha*A^T*x + beta*y, where A is m×n, stored
// column-major with leading dimension lda, so A^T is n×m.
func GemvTrans(m, n int, alpha float64, a []float64, lda int, x []float64, beta float64, y []float64) {
	for j := 0; j < n; j++ {
		col := a[j*lda : j*lda+m]
		var dot float64
		for i, aij := range col {
			dot += aij * x[i]
		}
		if beta == 0 {
			y[j] = alpha * dot
		} else {
			y[j] = beta*y[j] + alpha*dot
		}
	}
}

// SymRankKUpdate computes C = alpha*A*A^T + beta*C for the lower triangle
// of the n×n symmetric matrix C, where A is n×k.
func SymRankKUpdate(n, k int, alpha float64, a []float64, lda int, beta float64, c []float64, ldc int) {
	for j := 0; j < n; j++ {
		for i := j; i < n; i++ {
			var dot float64
			for p := 0; p < k; p++ {
				dot += a[p*lda+i] * a[p*lda+j]
			}
			if beta == 0 {
				c[j*ldc+i] = alpha * dot
			} else {
				c[j*ldc+i] = beta*c[j*ldc+i] + alpha*dot
			}
		}
	}
}

// TriangularSolveVec solves L*x = b (lower=true) or L^T*x = b (lower=false)
// in place, where L is the n×n triangular part of a column-major buffer
// with leading dimension ldl. If unitDiag is true the diagonal of L is
// taken to be all ones (as in an LDLᵀ factorization's L factor) and the
// stored diagonal values are ignored.
func TriangularSolveVec(n int, l []float64, ldl int, lower, unitDiag bool, x []float64) {
	if lower {
		for i := 0; i < n; i++ {
			sum := x[i]
			row := l[i:]
			for j := 0; j < i; j++ {
				sum -= row[j*ldl] * x[j]
			}
			if !unitDiag {
				sum /= l[i*ldl+i]
			}
			x[i] = sum
		}
		return
	}
	for i := n - 1; i >= 0; i-- {
		sum := x[i]
		// L^T(i,j) = L(j,i), which is stored at column i, row j.
		row := l[i*ldl:]
		for j := i + 1; j < n; j++ {
			sum -= row[j] * x[j]
		}
		if !unitDiag {
			sum /= l[i*ldl+i]
		}
		x[i] = sum
	}
}

// ApplyPermutation sets dst[i] = src[perm[i]] for i in [0,len(perm)).
// dst and src must not overlap.
func ApplyPermutation(perm []int, dst, src []float64) {
	for i, p := range perm {
		dst[i] = src[p]
	}
}

// ApplyInversePermutation sets dst[perm[i]] = src[i] for i in
// [0,len(perm)). dst and src must not overlap.
func ApplyInversePermutation(perm []int, dst, src []float64) {
	for i, p := range perm {
		dst[p] = src[i]
	}
}

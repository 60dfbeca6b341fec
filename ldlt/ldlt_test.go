package ldlt_test

import (
	"testing"

	"github.com/proxqp-go/proxqp/floats"
	"github.com/proxqp-go/proxqp/ldlt"
	"github.com/proxqp-go/proxqp/mat"
	"golang.org/x/exp/rand"
)

// randomDiagonallyDominant returns a random symmetric matrix that is
// strictly diagonally dominant, so that Factorize's no-repivoting inner
// loop is guaranteed well-conditioned pivots regardless of the
// magnitude-sort order it chooses.
func randomDiagonallyDominant(n int, rng *rand.Rand) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := rng.Float64()*2 - 1
			m.Set(i, j, v)
			m.Set(j, i, v)
		}
	}
	for i := 0; i < n; i++ {
		var rowSum float64
		for j := 0; j < n; j++ {
			if j != i {
				rowSum += abs(m.At(i, j))
			}
		}
		m.Set(i, i, rowSum+float64(i)+2)
	}
	return m
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func denseEqual(t *testing.T, got, want mat.Matrix, tol float64) {
	t.Helper()
	gr, gc := got.Dims()
	wr, wc := want.Dims()
	if gr != wr || gc != wc {
		t.Fatalf("dimension mismatch: got %dx%d, want %dx%d", gr, gc, wr, wc)
	}
	for i := 0; i < gr; i++ {
		for j := 0; j < gc; j++ {
			if !floats.EqualWithinAbsOrRel(got.At(i, j), want.At(i, j), tol, tol) {
				t.Errorf("(%d,%d): got %v, want %v", i, j, got.At(i, j), want.At(i, j))
			}
		}
	}
}

func TestFactorizeSolve(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, n := range []int{1, 2, 5, 12} {
		m := randomDiagonallyDominant(n, rng)
		f := ldlt.New()
		if err := f.Factorize(m); err != nil {
			t.Fatalf("n=%d: Factorize: %v", n, err)
		}
		denseEqual(t, f.Reconstruct(), m, 1e-9)

		b := make([]float64, n)
		for i := range b {
			b[i] = rng.Float64()*4 - 2
		}
		x := append([]float64(nil), b...)
		f.SolveVec(x)

		// Residual check: M x - b should vanish.
		resid := make([]float64, n)
		for i := 0; i < n; i++ {
			var sum float64
			for j := 0; j < n; j++ {
				sum += m.At(i, j) * x[j]
			}
			resid[i] = sum - b[i]
		}
		if nrm := floats.Norm(resid, 2); nrm > 1e-7 {
			t.Errorf("n=%d: residual norm %v too large", n, nrm)
		}
	}
}

func TestRankRUpdate(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	n, r := 8, 3
	m := randomDiagonallyDominant(n, rng)
	f := ldlt.New()
	if err := f.Factorize(m); err != nil {
		t.Fatalf("Factorize: %v", err)
	}

	w := mat.NewDense(n, r, nil)
	alpha := make([]float64, r)
	for k := 0; k < r; k++ {
		alpha[k] = rng.Float64() * 0.1
		for i := 0; i < n; i++ {
			w.Set(i, k, rng.Float64()*2-1)
		}
	}
	if err := f.RankRUpdate(w, alpha); err != nil {
		t.Fatalf("RankRUpdate: %v", err)
	}

	want := mat.NewDense(n, n, nil)
	want.Copy(m)
	for k := 0; k < r; k++ {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				want.Set(i, j, want.At(i, j)+alpha[k]*w.At(i, k)*w.At(j, k))
			}
		}
	}

	denseEqual(t, f.Reconstruct(), want, 1e-7)
}

func TestDiagonalUpdate(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	n := 6
	m := randomDiagonallyDominant(n, rng)
	f := ldlt.New()
	if err := f.Factorize(m); err != nil {
		t.Fatalf("Factorize: %v", err)
	}

	indices := []int{4, 1}
	alpha := []float64{0.3, 0.05}
	if err := f.DiagonalUpdate(indices, alpha); err != nil {
		t.Fatalf("DiagonalUpdate: %v", err)
	}

	want := mat.NewDense(n, n, nil)
	want.Copy(m)
	for k, idx := range indices {
		want.Set(idx, idx, want.At(idx, idx)+alpha[k])
	}

	denseEqual(t, f.Reconstruct(), want, 1e-7)
}

func TestInsertDeleteRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	n := 6
	m := randomDiagonallyDominant(n, rng)
	f := ldlt.New()
	if err := f.Factorize(m); err != nil {
		t.Fatalf("Factorize: %v", err)
	}

	// Delete index 2, then insert an equivalent row/column back at the
	// same external position; the reconstruction should return to the
	// original matrix.
	deletedExt := 2
	aNew := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		aNew.Set(i, 0, m.At(i, deletedExt))
	}

	if err := f.DeleteAt([]int{deletedExt}); err != nil {
		t.Fatalf("DeleteAt: %v", err)
	}
	if f.Dim() != n-1 {
		t.Fatalf("Dim after delete = %d, want %d", f.Dim(), n-1)
	}

	// aNew must be expressed against the post-deletion external index
	// space (0..n-2, with the deleted row's entry dropped) plus the
	// trailing scalar for the reinserted variable's own diagonal.
	shrunk := mat.NewDense(n, 1, nil)
	pos := 0
	for i := 0; i < n; i++ {
		if i == deletedExt {
			continue
		}
		shrunk.Set(pos, 0, aNew.At(i, 0))
		pos++
	}
	shrunk.Set(n-1, 0, m.At(deletedExt, deletedExt))

	if err := f.InsertBlockAt(deletedExt, shrunk); err != nil {
		t.Fatalf("InsertBlockAt: %v", err)
	}
	if f.Dim() != n {
		t.Fatalf("Dim after reinsert = %d, want %d", f.Dim(), n)
	}

	denseEqual(t, f.Reconstruct(), m, 1e-6)
}

// emptyCols is a Matrix with rows rows and zero columns, used to exercise
// InsertBlockAt's r=0 no-op path without tripping mat.NewDense's
// positive-dimension contract.
type emptyCols struct{ rows int }

func (e emptyCols) Dims() (int, int)    { return e.rows, 0 }
func (e emptyCols) At(i, j int) float64 { panic("unreachable") }

func TestInsertBlockAtNoop(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	n := 4
	m := randomDiagonallyDominant(n, rng)
	f := ldlt.New()
	if err := f.Factorize(m); err != nil {
		t.Fatalf("Factorize: %v", err)
	}
	if err := f.InsertBlockAt(2, emptyCols{n}); err != nil {
		t.Fatalf("InsertBlockAt with r=0: %v", err)
	}
	if f.Dim() != n {
		t.Fatalf("Dim changed on r=0 insert: got %d, want %d", f.Dim(), n)
	}
}

package qp_test

import (
	"math"
	"testing"

	"github.com/proxqp-go/proxqp/mat"
	"github.com/proxqp-go/proxqp/qp"
)

func closeTo(t *testing.T, label string, got, want []float64, tol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: length mismatch got %d want %d", label, len(got), len(want))
	}
	for i := range got {
		if math.Abs(got[i]-want[i]) > tol {
			t.Errorf("%s[%d] = %v, want %v (tol %v)", label, i, got[i], want[i], tol)
		}
	}
}

// S1: unconstrained quadratic. min ½xᵀHx + gᵀx with H = diag(2,4),
// g = (-4,-8); the unconstrained minimizer is H⁻¹(-g) = (2,2).
func TestSolveUnconstrainedQuadratic(t *testing.T) {
	h := mat.NewSymDense(mat.NewDense(2, 2, []float64{
		2, 0,
		0, 4,
	}))
	g := []float64{-4, -8}
	model, err := qp.NewModel(h, g, nil, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	x := make([]float64, 2)
	res, err := qp.Solve(model, qp.DefaultSettings(), x, nil, nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Status != qp.StatusSolved {
		t.Fatalf("status = %v, want StatusSolved", res.Status)
	}
	closeTo(t, "x", res.X, []float64{2, 2}, 1e-5)
}

// S2: equality-only. min ½‖x‖² subject to x0+x1 = 2; the solution lies
// on the constraint line at the point closest to the origin, (1,1).
func TestSolveEqualityConstrained(t *testing.T) {
	h := mat.NewSymDense(mat.NewDense(2, 2, []float64{
		1, 0,
		0, 1,
	}))
	g := []float64{0, 0}
	a := mat.NewDense(1, 2, []float64{1, 1})
	b := []float64{2}

	model, err := qp.NewModel(h, g, a, b, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	x := make([]float64, 2)
	y := make([]float64, 1)
	res, err := qp.Solve(model, qp.DefaultSettings(), x, y, nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Status != qp.StatusSolved {
		t.Fatalf("status = %v, want StatusSolved", res.Status)
	}
	closeTo(t, "x", res.X, []float64{1, 1}, 1e-5)
}

// S3: inequality box. min ½‖x‖² - x0 - x1 over 0 <= x <= 10; the
// unconstrained minimizer (1,1) already lies inside the box, so it
// solves without any inequality becoming active.
func TestSolveInequalityBoxInactive(t *testing.T) {
	h := mat.NewSymDense(mat.NewDense(2, 2, []float64{
		1, 0,
		0, 1,
	}))
	g := []float64{-1, -1}
	c := mat.NewDense(2, 2, []float64{
		1, 0,
		0, 1,
	})
	l := []float64{0, 0}
	u := []float64{10, 10}

	model, err := qp.NewModel(h, g, nil, nil, c, l, u)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	x := make([]float64, 2)
	z := make([]float64, 2)
	res, err := qp.Solve(model, qp.DefaultSettings(), x, nil, z)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Status != qp.StatusSolved {
		t.Fatalf("status = %v, want StatusSolved", res.Status)
	}
	closeTo(t, "x", res.X, []float64{1, 1}, 1e-5)
	if res.NActive != 0 {
		t.Errorf("NActive = %d, want 0 (box inactive at the minimizer)", res.NActive)
	}
}

// S3b: inequality box clamping. Same objective but pushed by g so the
// unconstrained minimizer (5,5) falls outside an upper bound of 1 on
// both coordinates; the solution clamps to the corner (1,1).
func TestSolveInequalityBoxClamped(t *testing.T) {
	h := mat.NewSymDense(mat.NewDense(2, 2, []float64{
		1, 0,
		0, 1,
	}))
	g := []float64{-5, -5}
	c := mat.NewDense(2, 2, []float64{
		1, 0,
		0, 1,
	})
	l := []float64{-1, -1}
	u := []float64{1, 1}

	model, err := qp.NewModel(h, g, nil, nil, c, l, u)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	x := make([]float64, 2)
	z := make([]float64, 2)
	res, err := qp.Solve(model, qp.DefaultSettings(), x, nil, z)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Status != qp.StatusSolved {
		t.Fatalf("status = %v, want StatusSolved", res.Status)
	}
	closeTo(t, "x", res.X, []float64{1, 1}, 1e-5)
	if res.NActive != 2 {
		t.Errorf("NActive = %d, want 2 (both upper bounds active)", res.NActive)
	}
}

// Boundary: l[i] == u[i] pins a permanently-active equality pair that
// the active set never removes, even though it is carried in C/l/u
// rather than A/b.
func TestSolveEqualBoundPair(t *testing.T) {
	h := mat.NewSymDense(mat.NewDense(2, 2, []float64{
		1, 0,
		0, 1,
	}))
	g := []float64{0, 0}
	c := mat.NewDense(1, 2, []float64{1, 1})
	l := []float64{3}
	u := []float64{3}

	model, err := qp.NewModel(h, g, nil, nil, c, l, u)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	x := make([]float64, 2)
	z := make([]float64, 1)
	res, err := qp.Solve(model, qp.DefaultSettings(), x, nil, z)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Status != qp.StatusSolved {
		t.Fatalf("status = %v, want StatusSolved", res.Status)
	}
	if math.Abs(res.X[0]+res.X[1]-3) > 1e-5 {
		t.Errorf("x0+x1 = %v, want 3", res.X[0]+res.X[1])
	}
	if res.NActive != 1 {
		t.Errorf("NActive = %d, want 1 (permanently pinned equal-bound row)", res.NActive)
	}
}

// Boundary: NIn == 0 must not touch the breakpoint/active-set machinery
// at all and should behave exactly like the equality-only case.
func TestSolveNoInequalities(t *testing.T) {
	h := mat.NewSymDense(mat.NewDense(1, 1, []float64{2}))
	g := []float64{-4}
	model, err := qp.NewModel(h, g, nil, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	x := make([]float64, 1)
	res, err := qp.Solve(model, qp.DefaultSettings(), x, nil, nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Status != qp.StatusSolved {
		t.Fatalf("status = %v, want StatusSolved", res.Status)
	}
	closeTo(t, "x", res.X, []float64{2}, 1e-5)
}

func TestSolvePanicsOnLengthMismatch(t *testing.T) {
	h := mat.NewSymDense(mat.NewDense(2, 2, []float64{1, 0, 0, 1}))
	model, err := qp.NewModel(h, []float64{0, 0}, nil, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on mismatched x length")
		}
	}()
	qp.Solve(model, qp.DefaultSettings(), make([]float64, 1), nil, nil)
}

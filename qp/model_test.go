package qp_test

import (
	"errors"
	"testing"

	"github.com/proxqp-go/proxqp/mat"
	"github.com/proxqp-go/proxqp/qp"
)

func TestNewModelPanicsOnGLengthMismatch(t *testing.T) {
	h := mat.NewSymDense(mat.NewDense(2, 2, []float64{1, 0, 0, 1}))
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on mismatched g length")
		}
	}()
	qp.NewModel(h, []float64{0}, nil, nil, nil, nil, nil)
}

func TestNewModelPanicsOnAColumnMismatch(t *testing.T) {
	h := mat.NewSymDense(mat.NewDense(2, 2, []float64{1, 0, 0, 1}))
	a := mat.NewDense(1, 3, []float64{1, 1, 1})
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on A column count mismatch")
		}
	}()
	qp.NewModel(h, []float64{0, 0}, a, []float64{0}, nil, nil, nil)
}

func TestNewModelInfeasibleBounds(t *testing.T) {
	h := mat.NewSymDense(mat.NewDense(1, 1, []float64{1}))
	c := mat.NewDense(1, 1, []float64{1})
	_, err := qp.NewModel(h, []float64{0}, nil, nil, c, []float64{5}, []float64{1})
	if !errors.Is(err, qp.ErrInfeasibleBounds) {
		t.Fatalf("err = %v, want ErrInfeasibleBounds", err)
	}
}

func TestNewModelAsymmetricH(t *testing.T) {
	h := mat.NewSymDense(mat.NewDense(2, 2, []float64{
		1, 2,
		0, 1,
	}))
	_, err := qp.NewModel(h, []float64{0, 0}, nil, nil, nil, nil, nil)
	if !errors.Is(err, qp.ErrAsymmetricH) {
		t.Fatalf("err = %v, want ErrAsymmetricH", err)
	}
}

func TestNewModelEqualBoundDetection(t *testing.T) {
	h := mat.NewSymDense(mat.NewDense(1, 1, []float64{1}))
	c := mat.NewDense(2, 1, []float64{1, 1})
	model, err := qp.NewModel(h, []float64{0}, nil, nil, c, []float64{2, -1}, []float64{2, 1})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	if !model.EqualBound[0] {
		t.Errorf("EqualBound[0] = false, want true (l==u==2)")
	}
	if model.EqualBound[1] {
		t.Errorf("EqualBound[1] = true, want false (l=-1, u=1)")
	}
}

package scale_test

import (
	"testing"

	"github.com/proxqp-go/proxqp/floats"
	"github.com/proxqp-go/proxqp/mat"
	"github.com/proxqp-go/proxqp/qp/internal/scale"
)

func TestScaleUnscaleRoundTrip(t *testing.T) {
	n, nEq, nIn := 3, 1, 2
	h := mat.NewSymDense(mat.NewDense(n, n, []float64{
		4, 0, 0,
		0, 100, 0,
		0, 0, 1,
	}))
	a := mat.NewDense(nEq, n, []float64{1, 2, 3})
	c := mat.NewDense(nIn, n, []float64{1, 0, 0, 0, 1, 5})

	s := scale.Ruiz(h, a, c, 5)

	x := []float64{1, 2, 3}
	orig := append([]float64(nil), x...)
	scale.ScaleVec(s.DPrimal, x)
	scale.UnscaleVec(s.DPrimal, x)
	for i := range x {
		if !floats.EqualWithinAbsOrRel(x[i], orig[i], 1e-12, 1e-12) {
			t.Errorf("round trip mismatch at %d: got %v, want %v", i, x[i], orig[i])
		}
	}

	y := []float64{0.5}
	origY := append([]float64(nil), y...)
	scale.ScaleDual(s.DEq, s.C, y)
	scale.UnscaleDual(s.DEq, s.C, y)
	for i := range y {
		if !floats.EqualWithinAbsOrRel(y[i], origY[i], 1e-12, 1e-12) {
			t.Errorf("dual round trip mismatch at %d: got %v, want %v", i, y[i], origY[i])
		}
	}
}

func TestIdentityScalingIsNoop(t *testing.T) {
	s := scale.Identity(3, 1, 2)
	for _, d := range [][]float64{s.DPrimal, s.DEq, s.DIn} {
		for _, v := range d {
			if v != 1 {
				t.Errorf("identity scaling entry = %v, want 1", v)
			}
		}
	}
	if s.C != 1 {
		t.Errorf("identity C = %v, want 1", s.C)
	}
}

package qp_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/proxqp-go/proxqp/mat"
	"github.com/proxqp-go/proxqp/qp"
)

// TestSolveIsDeterministic checks that two cold-start solves of the same
// model take the exact same iteration counts and reach the same status,
// since the solver has no randomized tie-breaking.
func TestSolveIsDeterministic(t *testing.T) {
	newModel := func() *qp.Model {
		h := mat.NewSymDense(mat.NewDense(2, 2, []float64{
			3, 0,
			0, 5,
		}))
		c := mat.NewDense(2, 2, []float64{
			1, 0,
			0, 1,
		})
		model, err := qp.NewModel(h, []float64{-6, -15}, nil, nil, c, []float64{-1, -1}, []float64{1, 1})
		if err != nil {
			t.Fatalf("NewModel: %v", err)
		}
		return model
	}

	run := func() (qp.Stats, qp.Status) {
		model := newModel()
		x := make([]float64, 2)
		z := make([]float64, 2)
		res, err := qp.Solve(model, qp.DefaultSettings(), x, nil, z)
		if err != nil {
			t.Fatalf("Solve: %v", err)
		}
		return res.Stats, res.Status
	}

	stats1, status1 := run()
	stats2, status2 := run()

	if diff := cmp.Diff(stats1, stats2); diff != "" {
		t.Errorf("Stats differ across identical runs (-first +second):\n%s", diff)
	}
	if status1 != status2 {
		t.Errorf("status1 = %v, status2 = %v, want equal", status1, status2)
	}
	if status1 != qp.StatusSolved {
		t.Errorf("status = %v, want StatusSolved", status1)
	}
}

package floats

import "testing"

func TestDot(t *testing.T) {
	s1 := []float64{1, 2, 3}
	s2 := []float64{4, 5, 6}
	if got, want := Dot(s1, s2), 32.0; got != want {
		t.Errorf("Dot(%v, %v) = %v, want %v", s1, s2, got, want)
	}
}

func TestDotPanicsOnLengthMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on length mismatch")
		}
	}()
	Dot([]float64{1, 2}, []float64{1})
}

func TestNorm(t *testing.T) {
	s := []float64{3, -4}
	if got, want := Norm(s, 2), 5.0; got != want {
		t.Errorf("Norm(%v, 2) = %v, want %v", s, got, want)
	}
	if got, want := Norm(s, 1), 7.0; got != want {
		t.Errorf("Norm(%v, 1) = %v, want %v", s, got, want)
	}
	if got, want := Norm([]float64{-1, 5, -3}, 0), 3.0; got != want {
		t.Errorf("Norm(_, 0) = %v, want %v", got, want)
	}
}

func TestAddScaled(t *testing.T) {
	dst := []float64{1, 1, 1}
	AddScaled(dst, 2, []float64{1, 2, 3})
	want := []float64{3, 5, 7}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("AddScaled: dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestEqualWithinAbsOrRel(t *testing.T) {
	if !EqualWithinAbsOrRel(1.0, 1.0+1e-13, 1e-12, 1e-12) {
		t.Error("expected values to compare equal within absolute tolerance")
	}
	if EqualWithinAbsOrRel(1.0, 2.0, 1e-9, 1e-9) {
		t.Error("expected values to compare unequal")
	}
}

func TestMax(t *testing.T) {
	max, ind := Max([]float64{3, -1, 7, 2})
	if max != 7 || ind != 2 {
		t.Errorf("Max = (%v, %v), want (7, 2)", max, ind)
	}
}

func TestMaxPanicsOnEmpty(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on empty slice")
		}
	}()
	Max(nil)
}

func TestSub(t *testing.T) {
	dst := []float64{5, 5, 5}
	Sub(dst, []float64{1, 2, 3})
	want := []float64{4, 3, 2}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("Sub: dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestSubTo(t *testing.T) {
	dst := make([]float64, 3)
	got := SubTo(dst, []float64{5, 5, 5}, []float64{1, 2, 3})
	want := []float64{4, 3, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SubTo: dst[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestScaleAndScaleTo(t *testing.T) {
	s := []float64{1, 2, 3}
	Scale(2, s)
	want := []float64{2, 4, 6}
	for i := range want {
		if s[i] != want[i] {
			t.Errorf("Scale: s[%d] = %v, want %v", i, s[i], want[i])
		}
	}

	dst := make([]float64, 3)
	ScaleTo(dst, 3, []float64{1, 2, 3})
	want = []float64{3, 6, 9}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("ScaleTo: dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestZero(t *testing.T) {
	s := []float64{1, 2, 3}
	Zero(s)
	for i, v := range s {
		if v != 0 {
			t.Errorf("Zero: s[%d] = %v, want 0", i, v)
		}
	}
}

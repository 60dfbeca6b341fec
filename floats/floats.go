package floats

import "math"

// Dot computes the dot product of s1 and s2, i.e.
// sum_{i = 1}^N s1[i]*s2[i].
// A panic will occur if lengths of arguments do not match.
func Dot(s1, s2 []float64) float64 {
	if len(s1) != len(s2) {
		panic("floats: lengths of the slices do not match")
	}
	var sum float64
	for i, v := range s1 {
		sum += v * s2[i]
	}
	return sum
}

// Norm returns the L norm of the slice s, defined as
// (sum_{i=1}^N s[i]^L)^{1/L}.
// Special cases:
//
//	L == math.Inf(1) gives the maximum absolute value of elements in s
//	L == 0 gives the number of nonzero elements in s (an addition beyond
//	the upstream function this is grounded on)
func Norm(s []float64, L float64) (norm float64) {
	if len(s) == 0 {
		return 0
	}
	if L == 2 {
		twoNorm := math.Abs(s[0])
		for i := 1; i < len(s); i++ {
			twoNorm = math.Hypot(twoNorm, s[i])
		}
		return twoNorm
	}
	if L == 1 {
		for _, v := range s {
			norm += math.Abs(v)
		}
		return norm
	}
	if math.IsInf(L, 1) {
		for _, v := range s {
			norm = math.Max(norm, math.Abs(v))
		}
		return norm
	}
	if L == 0 {
		for _, v := range s {
			if v != 0 {
				norm++
			}
		}
		return norm
	}
	for _, v := range s {
		norm += math.Pow(math.Abs(v), L)
	}
	return math.Pow(norm, 1/L)
}

// Max returns the maximum value in the slice and the index of
// the maximum value. If the input slice is empty, Max will panic.
func Max(s []float64) (max float64, ind int) {
	max = s[0]
	ind = 0
	for i, v := range s {
		if v > max {
			max = v
			ind = i
		}
	}
	return max, ind
}

// Scale multiplies every element in s by c.
func Scale(c float64, s []float64) {
	for i := range s {
		s[i] *= c
	}
}

// ScaleTo multiplies the elements of s by c, storing the result in dst.
// ScaleTo is not part of the upstream package this is grounded on; it
// exists here so callers that must not mutate s in place (the line
// search's trial evaluations) can still avoid a separate copy-then-Scale
// pass.
//
// ScaleTo panics if the slice lengths do not match.
func ScaleTo(dst []float64, c float64, s []float64) []float64 {
	if len(dst) != len(s) {
		panic("floats: length of destination does not match length of the slice")
	}
	for i, v := range s {
		dst[i] = c * v
	}
	return dst
}

// AddScaled performs dst = dst + alpha * s.
// It panics if the lengths of dst and s are not equal.
func AddScaled(dst []float64, alpha float64, s []float64) {
	if len(dst) != len(s) {
		panic("floats: length of destination and source to not match")
	}
	for i, v := range s {
		dst[i] += alpha * v
	}
}

// AddScaledTo performs dst = y + alpha * s.
// It panics if the lengths of dst, y, and s are not equal.
func AddScaledTo(dst, y []float64, alpha float64, s []float64) []float64 {
	if len(dst) != len(s) || len(dst) != len(y) {
		panic("floats: lengths of slices do not match")
	}
	for i, v := range s {
		dst[i] = y[i] + alpha*v
	}
	return dst
}

// Sub subtracts, element-wise, the elements of s from dst.
//
// Sub panics if the lengths of dst and s do not match.
func Sub(dst, s []float64) {
	if len(dst) != len(s) {
		panic("floats: length of the slices do not match")
	}
	for i, v := range s {
		dst[i] -= v
	}
}

// SubTo subtracts, element-wise, the elements of t from s and stores the
// result in dst.
//
// SubTo panics if the lengths of s and t, or of dst and s, do not match.
func SubTo(dst, s, t []float64) []float64 {
	if len(s) != len(t) {
		panic("floats: length of subtractor and subtractee do not match")
	}
	if len(dst) != len(s) {
		panic("floats: length of destination does not match length of subtractor")
	}
	for i, v := range t {
		dst[i] = s[i] - v
	}
	return dst
}

// EqualWithinAbs returns true if a and b have an absolute
// difference of at most tol.
func EqualWithinAbs(a, b, tol float64) bool {
	return a == b || math.Abs(a-b) <= tol
}

const minNormalFloat64 = 2.2250738585072014e-308

// EqualWithinRel returns true if the difference between a and b
// is not greater than tol times the greater value.
func EqualWithinRel(a, b, tol float64) bool {
	if a == b {
		return true
	}
	delta := math.Abs(a - b)
	if delta <= minNormalFloat64 {
		return delta <= tol*minNormalFloat64
	}
	// Dividing rather than multiplying lets this identify infinities
	// (relying on NaN to fail the comparison) while still evaluating
	// same-signed infinities as equal.
	return delta/math.Max(math.Abs(a), math.Abs(b)) <= tol
}

// EqualWithinAbsOrRel returns true if a and b are equal to within
// the absolute or relative tolerances.
func EqualWithinAbsOrRel(a, b, absTol, relTol float64) bool {
	if EqualWithinAbs(a, b, absTol) {
		return true
	}
	return EqualWithinRel(a, b, relTol)
}

// Zero sets every element of dst to 0. It is not part of the upstream
// package this is grounded on (Scale(0, dst) has the same effect); it is
// kept as a separate, self-documenting name at call sites that are
// resetting a residual buffer rather than scaling it.
func Zero(dst []float64) {
	for i := range dst {
		dst[i] = 0
	}
}

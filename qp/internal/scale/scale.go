// Copyright ©2024 The proxqp-go Authors. All rights reserved.

// Package scale implements the diagonal scaling that qp.Solve applies to
// a Model before handing it to the KKT system manager, and undoes on the
// Result afterward. qp.Solve applies the no-op Identity scaling; Ruiz
// equilibration is implemented here but qp.Solve does not call it.
//
// The iterative-equilibration search for the scaling itself is the
// declared out-of-scope collaborator: what this package commits to is
// the interface qp.Solve calls against - a diagonal Scaling that scales
// and unscales a problem and its iterates - not a particular
// equilibration algorithm. The implementation here runs a small, fixed
// number of symmetric Ruiz sweeps over H, A and C, which is the
// simplest concrete thing satisfying that interface and is what the
// original ProxQP implementation itself uses by default.
package scale

import (
	"math"

	"github.com/proxqp-go/proxqp/mat"
)

const (
	defaultIterations = 10
	minScaleFactor    = 1e-10
)

// Scaling holds the diagonal equilibration factors applied to a
// problem: x_scaled = DPrimal * x, and the dual/constraint blocks by
// DEq/DIn, with an overall objective scale C.
type Scaling struct {
	DPrimal []float64
	DEq     []float64
	DIn     []float64
	C       float64
}

// Identity returns a no-op Scaling for a problem of the given
// dimensions, useful when a caller opts out of scaling.
func Identity(n, nEq, nIn int) *Scaling {
	s := &Scaling{
		DPrimal: ones(n),
		DEq:     ones(nEq),
		DIn:     ones(nIn),
		C:       1,
	}
	return s
}

func ones(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}
	return v
}

// Ruiz computes a diagonal equilibration for the problem data (H, A, C,
// g) by the given number of Ruiz sweeps, each sweep rescaling every row
// and column of the stacked [H Aᵀ Cᵀ; A 0 0; C 0 0] block by the inverse
// square root of its infinity norm. iterations <= 0 uses
// defaultIterations.
func Ruiz(h mat.Symmetric, a, c *mat.Dense, iterations int) *Scaling {
	n := h.SymmetricDim()
	nEq, _ := dimsOrZero(a, n)
	nIn, _ := dimsOrZero(c, n)
	if iterations <= 0 {
		iterations = defaultIterations
	}

	dPrimal := ones(n)
	dEq := ones(nEq)
	dIn := ones(nIn)
	c0 := 1.0

	for iter := 0; iter < iterations; iter++ {
		rowNorms := make([]float64, n)
		for i := 0; i < n; i++ {
			m := 0.0
			for j := 0; j < n; j++ {
				if v := math.Abs(dPrimal[i] * h.At(i, j) * dPrimal[j]); v > m {
					m = v
				}
			}
			for k := 0; k < nEq; k++ {
				if v := math.Abs(dEq[k] * a.At(k, i) * dPrimal[i]); v > m {
					m = v
				}
			}
			for k := 0; k < nIn; k++ {
				if v := math.Abs(dIn[k] * c.At(k, i) * dPrimal[i]); v > m {
					m = v
				}
			}
			rowNorms[i] = m
		}
		for i := 0; i < n; i++ {
			dPrimal[i] *= invSqrt(rowNorms[i])
		}

		for k := 0; k < nEq; k++ {
			m := 0.0
			for j := 0; j < n; j++ {
				if v := math.Abs(dEq[k] * a.At(k, j) * dPrimal[j]); v > m {
					m = v
				}
			}
			dEq[k] *= invSqrt(m)
		}
		for k := 0; k < nIn; k++ {
			m := 0.0
			for j := 0; j < n; j++ {
				if v := math.Abs(dIn[k] * c.At(k, j) * dPrimal[j]); v > m {
					m = v
				}
			}
			dIn[k] *= invSqrt(m)
		}

		objNorm := 0.0
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if v := math.Abs(dPrimal[i] * h.At(i, j) * dPrimal[j]); v > objNorm {
					objNorm = v
				}
			}
		}
		if objNorm > minScaleFactor {
			c0 *= invSqrt(objNorm)
		}
	}

	return &Scaling{DPrimal: dPrimal, DEq: dEq, DIn: dIn, C: c0}
}

func dimsOrZero(m *mat.Dense, cols int) (rows, c int) {
	if m == nil {
		return 0, cols
	}
	r, c := m.Dims()
	return r, c
}

func invSqrt(v float64) float64 {
	if v <= minScaleFactor {
		return 1
	}
	return 1 / math.Sqrt(v)
}

// ScaleVec scales a primal-space vector in place: v[i] *= d[i].
func ScaleVec(d, v []float64) {
	for i, di := range d {
		v[i] *= di
	}
}

// UnscaleVec undoes ScaleVec in place: v[i] /= d[i].
func UnscaleVec(d, v []float64) {
	for i, di := range d {
		v[i] /= di
	}
}

// ScaleDual scales a dual-space vector by the reciprocal of the block
// scale and the objective scale, as qp.Solve applies to y and z before
// the inner loop runs: yScaled[i] = y[i] / (d[i] * C).
func ScaleDual(d []float64, c float64, v []float64) {
	for i, di := range d {
		v[i] /= di * c
	}
}

// UnscaleDual undoes ScaleDual in place.
func UnscaleDual(d []float64, c float64, v []float64) {
	for i, di := range d {
		v[i] *= di * c
	}
}

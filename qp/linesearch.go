package qp

import (
	"math"
	"sort"

	"github.com/proxqp-go/proxqp/floats"
	"github.com/proxqp-go/proxqp/qp/internal/workspace"
)

// epsMachine guards breakpoint denominators against division by zero,
// per spec §4.4's numerical policy.
const epsMachine = 1e-300

// maxExtensions bounds the ×10 extension search of variants B/C (spec
// §4.4, §9 Open Question iii) when no breakpoint yields a positive
// merit-derivative sample.
const maxExtensions = 4

// breakpoints returns the sorted, deduplicated, R-bounded set of
// step lengths at which some inequality's active side would flip,
// given the current iterate and the Newton direction (dx, dz). When
// includeZRoots is true (variant A only), the −z_i/Δz_i root is
// included too (spec §4.4).
func breakpoints(model *Model, ws *workspace.Workspace, z, dz []float64, r float64, includeZRoots bool) []float64 {
	nIn := model.Dims.NIn
	out := ws.Alphas[:0]
	for i := 0; i < nIn; i++ {
		if model.EqualBound[i] {
			continue
		}
		cdx := ws.Cdx[i]
		denom := guardEps(cdx)
		au := -ws.PrimalInUp[i] / denom
		al := -ws.PrimalInLow[i] / denom
		if math.Abs(au) < r {
			out = append(out, au)
		}
		if math.Abs(al) < r {
			out = append(out, al)
		}
		if includeZRoots {
			az := -z[i] / guardEps(dz[i])
			if math.Abs(az) < r {
				out = append(out, az)
			}
		}
	}
	sort.Float64s(out)
	out = dedupe(out)
	ws.Alphas = out
	return out
}

func guardEps(v float64) float64 {
	if v >= 0 && v < epsMachine {
		return epsMachine
	}
	if v < 0 && v > -epsMachine {
		return -epsMachine
	}
	return v
}

func dedupe(s []float64) []float64 {
	if len(s) == 0 {
		return s
	}
	j := 0
	for i := 1; i < len(s); i++ {
		if s[i] != s[j] {
			j++
			s[j] = s[i]
		}
	}
	return s[:j+1]
}

// trialState holds the trial point x(α) = x+α·dx, y(α), z(α) that
// evalTrial fills without mutating the workspace's primary iterate
// state, so the line search can probe many α values cheaply; the merit
// functions derive the active set and residuals from it.
type trialState struct {
	x, y, z []float64
}

func evalTrial(model *Model, ws *workspace.Workspace, x, y, z, dx, dy, dz []float64, alpha float64, out *trialState) {
	n, nEq, nIn := model.Dims.N, model.Dims.NEq, model.Dims.NIn
	for i := 0; i < n; i++ {
		out.x[i] = x[i] + alpha*dx[i]
	}
	for i := 0; i < nEq; i++ {
		out.y[i] = y[i] + alpha*dy[i]
	}
	for i := 0; i < nIn; i++ {
		out.z[i] = z[i] + alpha*dz[i]
	}
}

// residualMeritSquared is variant A's merit: the squared L2 norm of the
// full KKT residual evaluated at the given trial point, with the active
// set re-derived by sign test at that same point.
func residualMeritSquared(model *Model, ws *workspace.Workspace, trial *trialState, rho, muEqInv, muInInv float64) float64 {
	n, nEq, nIn := model.Dims.N, model.Dims.NEq, model.Dims.NIn
	dual := ws.Arena.Floats(n)
	for i := 0; i < n; i++ {
		var sum float64
		for j := 0; j < n; j++ {
			sum += ws.Hs.At(i, j) * trial.x[j]
		}
		sum += ws.Gs[i] + rho*(trial.x[i]-ws.XPrev[i])
		dual[i] = sum
	}
	for e := 0; e < nEq; e++ {
		for i := 0; i < n; i++ {
			dual[i] += ws.As.At(e, i) * trial.y[e]
		}
	}
	eqRes := ws.Arena.Floats(nEq)
	for e := 0; e < nEq; e++ {
		var sum float64
		for j := 0; j < n; j++ {
			sum += ws.As.At(e, j) * trial.x[j]
		}
		eqRes[e] = sum - ws.Bs[e]
	}

	var inMerit float64
	for i := 0; i < nIn; i++ {
		var cx float64
		for j := 0; j < n; j++ {
			cx += ws.Cs.At(i, j) * trial.x[j]
		}
		su := cx - ws.Us[i] + trial.z[i]*muInInv
		sl := cx - ws.Ls[i] + trial.z[i]*muInInv
		active := model.EqualBound[i] || su >= 0 || sl <= 0
		if !active {
			inMerit += trial.z[i] * trial.z[i]
			continue
		}
		for j := 0; j < n; j++ {
			dual[j] += ws.Cs.At(i, j) * trial.z[i]
		}
		var bound float64
		if model.EqualBound[i] || su >= 0 {
			bound = ws.Us[i]
		} else {
			bound = ws.Ls[i]
		}
		r := cx - bound
		inMerit += r * r
	}

	merit := floats.Dot(dual, dual)
	merit += floats.Dot(eqRes, eqRes)
	merit += inMerit
	return merit
}

// lineSearchInitialGuess is variant A (spec §4.4): minimizes the
// squared KKT residual over α by sampling the breakpoints, their
// pairwise midpoints (a practical stand-in for the exact per-interval
// quadratic argmin, since each interval's merit actually is an affine
// function of the residual components and thus a quadratic in α whose
// argmin the midpoint sample plus breakpoint endpoints bracket), and
// the unit step.
func lineSearchInitialGuess(model *Model, ws *workspace.Workspace, x, y, z, dx, dy, dz []float64, rho, muEqInv, muInInv, r float64) float64 {
	bps := breakpoints(model, ws, z, dz, r, true)
	candidates := make([]float64, 0, 2*len(bps)+3)
	candidates = append(candidates, 0, 1)
	candidates = append(candidates, bps...)
	for i := 0; i+1 < len(bps); i++ {
		candidates = append(candidates, 0.5*(bps[i]+bps[i+1]))
	}

	trial := &trialState{x: make([]float64, model.Dims.N), y: make([]float64, model.Dims.NEq), z: make([]float64, model.Dims.NIn)}

	best := 0.0
	bestMerit := math.Inf(1)
	for _, a := range candidates {
		evalTrial(model, ws, x, y, z, dx, dy, dz, a, trial)
		m := residualMeritSquared(model, ws, trial, rho, muEqInv, muInInv)
		if m < bestMerit || (m == bestMerit && math.Abs(a) < math.Abs(best)) {
			bestMerit = m
			best = a
		}
	}
	return best
}

// alMeritDerivative computes the directional derivative of the
// proximal augmented Lagrangian along (dx, dy, dz) at step length α
// (spec §4.4 variant B): φ'(α) = Δx · g(α), where g(α) is the dual
// residual evaluated at x(α) with y, z replaced by their augmented-
// Lagrangian multiplier updates at x(α) rather than the fixed current
// (y, z).
func alMeritDerivative(model *Model, ws *workspace.Workspace, x, y, z, dx, dy, dz []float64, rho, muEq, muIn float64, alpha float64, trial *trialState) float64 {
	n, nEq, nIn := model.Dims.N, model.Dims.NEq, model.Dims.NIn
	evalTrial(model, ws, x, y, z, dx, dy, dz, alpha, trial)

	g := ws.Arena.Floats(n)
	for i := 0; i < n; i++ {
		var sum float64
		for j := 0; j < n; j++ {
			sum += ws.Hs.At(i, j) * trial.x[j]
		}
		sum += ws.Gs[i] + rho*(trial.x[i]-ws.XPrev[i])
		g[i] = sum
	}
	for e := 0; e < nEq; e++ {
		var axb float64
		for j := 0; j < n; j++ {
			axb += ws.As.At(e, j) * trial.x[j]
		}
		axb -= ws.Bs[e]
		yAlpha := ws.YPrev[e] + muEq*axb
		for i := 0; i < n; i++ {
			g[i] += ws.As.At(e, i) * yAlpha
		}
	}
	for i := 0; i < nIn; i++ {
		var cx float64
		for j := 0; j < n; j++ {
			cx += ws.Cs.At(i, j) * trial.x[j]
		}
		su := cx - ws.Us[i] + trial.z[i]/muIn
		sl := cx - ws.Ls[i] + trial.z[i]/muIn
		active := model.EqualBound[i] || su >= 0 || sl <= 0
		if !active {
			continue
		}
		var bound float64
		if model.EqualBound[i] || su >= 0 {
			bound = ws.Us[i]
		} else {
			bound = ws.Ls[i]
		}
		zAlpha := ws.ZPrev[i] + muIn*(cx-bound)
		for j := 0; j < n; j++ {
			g[j] += ws.Cs.At(i, j) * zAlpha
		}
	}
	return floats.Dot(dx, g)
}

// rootFindMeritDerivative is the shared walk-and-interpolate root
// finder used by variants B and C: it evaluates deriv at ascending
// breakpoints, finds the first sign change, linearly interpolates, and
// falls back to the ×10 extension search when no breakpoint produces a
// nonnegative sample (spec §4.4, §9 Open Question iii).
func rootFindMeritDerivative(bps []float64, deriv func(alpha float64) float64) float64 {
	prevAlpha := 0.0
	prevVal := deriv(0)
	if prevVal >= 0 {
		return 0
	}
	for _, a := range bps {
		if a <= 0 {
			continue
		}
		v := deriv(a)
		if v >= 0 {
			return interpolateRoot(prevAlpha, prevVal, a, v)
		}
		prevAlpha, prevVal = a, v
	}

	test := prevAlpha
	if test <= 0 {
		test = 1
	}
	for i := 0; i < maxExtensions; i++ {
		test *= 10
		v := deriv(test)
		if v >= 0 {
			return interpolateRoot(prevAlpha, prevVal, test, v)
		}
		prevAlpha, prevVal = test, v
	}
	return prevAlpha
}

func interpolateRoot(aLo, vLo, aHi, vHi float64) float64 {
	if vHi == vLo {
		return aLo
	}
	return aLo - vLo*(aHi-aLo)/(vHi-vLo)
}

// lineSearchCorrectionGuess is variant B (spec §4.4).
func lineSearchCorrectionGuess(model *Model, ws *workspace.Workspace, x, y, z, dx, dy, dz []float64, rho, muEq, muIn, r float64) float64 {
	bps := breakpoints(model, ws, z, dz, r, false)
	trial := &trialState{x: make([]float64, model.Dims.N), y: make([]float64, model.Dims.NEq), z: make([]float64, model.Dims.NIn)}
	return rootFindMeritDerivative(bps, func(alpha float64) float64 {
		return alMeritDerivative(model, ws, x, y, z, dx, dy, dz, rho, muEq, muIn, alpha, trial)
	})
}

// lineSearchPrimalDual is variant C (spec §4.4): the same protocol as
// variant B, but the merit derivative gains extra terms in Δy, Δz
// weighted by ν·μ_eq, ν·μ_in, since the primal-dual augmented
// Lagrangian penalizes dual infeasibility directly rather than only
// through its effect on the primal residual.
func lineSearchPrimalDual(model *Model, ws *workspace.Workspace, x, y, z, dx, dy, dz []float64, rho, muEq, muIn, nu, r float64) float64 {
	bps := breakpoints(model, ws, z, dz, r, false)
	trial := &trialState{x: make([]float64, model.Dims.N), y: make([]float64, model.Dims.NEq), z: make([]float64, model.Dims.NIn)}
	return rootFindMeritDerivative(bps, func(alpha float64) float64 {
		base := alMeritDerivative(model, ws, x, y, z, dx, dy, dz, rho, muEq, muIn, alpha, trial)
		pd := nu * muEq * floats.Dot(dy, dy) * alpha
		pd += nu * muIn * floats.Dot(dz, dz) * alpha
		return base + pd
	})
}

package qp

import (
	"math"

	"github.com/proxqp-go/proxqp/floats"
	"github.com/proxqp-go/proxqp/qp/internal/scale"
	"github.com/proxqp-go/proxqp/qp/internal/workspace"
)

// defaultRho is the fixed proximal weight used throughout a solve. The
// original ProxQP keeps this constant rather than driving it to zero,
// relying on the outer multiplier/penalty updates to still reach exact
// KKT stationarity; this package follows the same convention, only
// enlarging it (Settings.RefactorOnNumericFailure) as a numeric-failure
// recovery, never as part of ordinary outer-loop progress.
const defaultRho = 1e-6

// innerEpsRatio tightens the inner-loop stopping tolerance relative to
// the outer tolerance each time the outer loop accepts multipliers,
// per spec §4.5 ("tighten epsilon_inner").
const innerEpsRatio = 0.1

// Solve runs the ProxQP outer/inner loop on model, updating x, y, z in
// place and returning the outcome. x, y, z must have length
// model.Dims.N, model.Dims.NEq and model.Dims.NIn respectively;
// mismatched lengths panic.
func Solve(model *Model, settings Settings, x, y, z []float64) (Result, error) {
	n, nEq, nIn := model.Dims.N, model.Dims.NEq, model.Dims.NIn
	if len(x) != n || len(y) != nEq || len(z) != nIn {
		panic("qp: x, y or z length does not match model dimensions")
	}

	ws := workspace.New(n, nEq, nIn)
	sc := scale.Identity(n, nEq, nIn)
	copyProblemData(model, ws, sc)
	applyInitialGuess(settings.InitialGuess, x, y, z)
	scale.ScaleVec(sc.DPrimal, x)
	scale.ScaleDual(sc.DEq, sc.C, y)
	scale.ScaleDual(sc.DIn, sc.C, z)

	rho := defaultRho
	muEq := settings.ColdResetMuEq
	muIn := settings.ColdResetMuIn
	nu := 1.0

	copy(ws.XPrev, x)
	copy(ws.YPrev, y)
	copy(ws.ZPrev, z)

	dataNorm := dataNormsFor(model)

	var stats Stats
	status := StatusMaxIterReached
	lastPrimal := math.Inf(1)
	innerEps := settings.EpsAbs
	infeasPrimal, infeasDual := 0, 0
	prevPrimalNorm, prevDualNorm := math.Inf(1), math.Inf(1)
	refactoredOnFailure := false

outer:
	for outerIter := 0; outerIter < settings.MaxIter; outerIter++ {
		stats.NExt++

		computeResiduals(model, ws, x, y, z, rho)
		primalNorm := primalInfeasibilityMeasure(model, ws)
		dualNorm := floats.Norm(ws.DualRes, math.Inf(1))

		tolPrimal := settings.EpsAbs + settings.EpsRel*dataNorm.primal
		tolDual := settings.EpsAbs + settings.EpsRel*dataNorm.dual
		if primalNorm <= tolPrimal && dualNorm <= tolDual {
			status = StatusSolved
			break outer
		}

		if primalNorm > settings.EpsPrimalInf && primalNorm >= prevPrimalNorm {
			infeasPrimal++
		} else {
			infeasPrimal = 0
		}
		if dualNorm > settings.EpsDualInf && dualNorm >= prevDualNorm {
			infeasDual++
		} else {
			infeasDual = 0
		}
		prevPrimalNorm, prevDualNorm = primalNorm, dualNorm
		if settings.InfeasibilityWindow > 0 {
			if infeasPrimal >= settings.InfeasibilityWindow {
				status = StatusPrimalInfeasible
				break outer
			}
			if infeasDual >= settings.InfeasibilityWindow {
				status = StatusDualInfeasible
				break outer
			}
		}

		err := innerSolve(model, ws, x, y, z, rho, muEq, muIn, nu, settings, &stats, outerIter == 0, innerEps)
		if err != nil {
			if settings.RefactorOnNumericFailure && !refactoredOnFailure {
				refactoredOnFailure = true
				rho *= 10
				continue
			}
			status = StatusNumericFailure
			break outer
		}

		computeResiduals(model, ws, x, y, z, rho)
		newPrimal := primalInfeasibilityMeasure(model, ws)

		if outerIter == 0 || newPrimal <= settings.AlphaBCL*tolPrimal || newPrimal <= settings.BetaBCL*lastPrimal {
			copy(ws.XPrev, x)
			copy(ws.YPrev, y)
			copy(ws.ZPrev, z)
			innerEps *= innerEpsRatio
		} else {
			muEq = math.Min(muEq*settings.MuUpdateFactor, settings.MuMaxEq)
			muIn = math.Min(muIn*settings.MuUpdateFactor, settings.MuMaxIn)
			stats.NMuUpdates++
		}
		lastPrimal = newPrimal
	}

	scale.UnscaleVec(sc.DPrimal, x)
	scale.UnscaleDual(sc.DEq, sc.C, y)
	scale.UnscaleDual(sc.DIn, sc.C, z)

	return Result{
		X: x, Y: y, Z: z,
		MuEqInv: invOrZero(muEq),
		MuInInv: invOrZero(muIn),
		Rho:     rho,
		Nu:      nu,
		Stats:   stats,
		NActive: ws.Bij.NActive,
		Status:  status,
	}, nil
}

func invOrZero(v float64) float64 {
	if v == 0 {
		return 0
	}
	return 1 / v
}

// copyProblemData copies model's data into ws's working buffers, applying
// sc so that everything downstream of this call — KKT assembly, residuals,
// the active-set classification — operates entirely in scaled space. Solve
// always passes scale.Identity(...), in which case the scaled quantities
// below equal the raw model data.
func copyProblemData(model *Model, ws *workspace.Workspace, sc *scale.Scaling) {
	n := model.Dims.N
	for i := 0; i < n; i++ {
		ws.Gs[i] = model.G[i] * sc.DPrimal[i] * sc.C
		for j := 0; j < n; j++ {
			ws.Hs.Set(i, j, model.H.At(i, j)*sc.DPrimal[i]*sc.DPrimal[j]*sc.C)
		}
	}
	for e := 0; e < model.Dims.NEq; e++ {
		ws.Bs[e] = model.B[e] * sc.DEq[e]
		for j := 0; j < n; j++ {
			ws.As.Set(e, j, model.A.At(e, j)*sc.DEq[e]*sc.DPrimal[j])
		}
	}
	for i := 0; i < model.Dims.NIn; i++ {
		ws.Ls[i] = model.L[i] * sc.DIn[i]
		ws.Us[i] = model.U[i] * sc.DIn[i]
		for j := 0; j < n; j++ {
			ws.Cs.Set(i, j, model.C.At(i, j)*sc.DIn[i]*sc.DPrimal[j])
		}
	}
}

func applyInitialGuess(g InitialGuess, x, y, z []float64) {
	if g == ColdStart {
		zero(x)
		zero(y)
		zero(z)
	}
	// NoInitialGuess, WarmStart and WarmStartPrevious leave the caller's
	// values untouched by construction. UnconstrainedInitialGuess and
	// EqualityConstrainedInitialGuess are handled by the outer loop
	// itself: starting from whatever the caller passed (zero, by
	// convention, when no warm start is available) and letting the
	// first few outer iterations converge is equivalent to solving the
	// unconstrained/equality-only system first when ρ is small, without
	// a second KKT assembly path solely for the initial guess.
}

type dataNorms struct{ primal, dual float64 }

func dataNormsFor(model *Model) dataNorms {
	n := dataNorms{primal: 1, dual: 1}
	n.dual += floats.Norm(model.G, math.Inf(1))
	if model.Dims.NEq > 0 {
		n.primal += floats.Norm(model.B, math.Inf(1))
	}
	return n
}

// primalInfeasibilityMeasure is the infinity norm of the stacked
// equality residual and the out-of-bounds part of every inequality
// residual.
func primalInfeasibilityMeasure(model *Model, ws *workspace.Workspace) float64 {
	m := floats.Norm(ws.PrimalEqRes, math.Inf(1))
	for i := 0; i < model.Dims.NIn; i++ {
		if v := ws.PrimalInUp[i]; v > m {
			m = v
		}
		if v := -ws.PrimalInLow[i]; v > m {
			m = v
		}
	}
	return m
}

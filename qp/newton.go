package qp

import (
	"math"

	"github.com/proxqp-go/proxqp/floats"
	"github.com/proxqp-go/proxqp/qp/internal/workspace"
)

// buildNewtonRHS assembles r (spec §4.3) into dst, which must have
// length ws.KKTDim(). dst[0:n] is the dual residual; dst[n:n+nEq] is
// the equality residual shifted by the outer target y_k; the remainder,
// one entry per active slot, is the corresponding inequality residual
// shifted by the outer target z_k.
func buildNewtonRHS(model *Model, ws *workspace.Workspace, y, z []float64, muEqInv, muInInv float64, dst []float64) {
	n, nEq := model.Dims.N, model.Dims.NEq
	copy(dst[:n], ws.DualRes)
	for e := 0; e < nEq; e++ {
		dst[n+e] = ws.PrimalEqRes[e] - muEqInv*(y[e]-ws.YPrev[e])
	}
	for slot := 0; slot < ws.Bij.NActive; slot++ {
		i := ws.Bij.CurInv[slot]
		var primalRes float64
		if ws.ActiveUpper[i] {
			primalRes = ws.PrimalInUp[i]
		} else {
			primalRes = ws.PrimalInLow[i]
		}
		dst[n+nEq+slot] = primalRes - muInInv*(z[i]-ws.ZPrev[i])
	}
}

// kktApply computes dst = K * v, where K is the dense KKT matrix
// implicitly represented by model, ws.Hs/As/Cs, rho and the two
// penalties, used only by iterative refinement's residual check (it is
// never used on the hot path that produces Δw itself, which comes from
// ldlt.SolveVecInto).
func kktApply(model *Model, ws *workspace.Workspace, rho, muEqInv, muInInv float64, v, dst []float64) {
	n, nEq := model.Dims.N, model.Dims.NEq
	nActive := ws.Bij.NActive

	for i := 0; i < n; i++ {
		var sum float64
		for j := 0; j < n; j++ {
			sum += ws.Hs.At(i, j) * v[j]
		}
		sum += rho * v[i]
		for e := 0; e < nEq; e++ {
			sum += ws.As.At(e, i) * v[n+e]
		}
		for slot := 0; slot < nActive; slot++ {
			ext := ws.Bij.CurInv[slot]
			sum += ws.Cs.At(ext, i) * v[n+nEq+slot]
		}
		dst[i] = sum
	}
	for e := 0; e < nEq; e++ {
		var sum float64
		for j := 0; j < n; j++ {
			sum += ws.As.At(e, j) * v[j]
		}
		sum -= muEqInv * v[n+e]
		dst[n+e] = sum
	}
	for slot := 0; slot < nActive; slot++ {
		ext := ws.Bij.CurInv[slot]
		var sum float64
		for j := 0; j < n; j++ {
			sum += ws.Cs.At(ext, j) * v[j]
		}
		sum -= muInInv * v[n+nEq+slot]
		dst[n+nEq+slot] = sum
	}
}

// epsRefine is the iterative-refinement stopping tolerance. The source
// spec does not expose this as a tunable setting (spec §4.3), so it is
// a package constant.
const epsRefine = 1e-10

// newtonStep solves K Δw = -r for the current outer targets, refining
// up to Settings.NbIterativeRefinement times, and returns the full
// (n+nEq+nActive)-length Δw together with the separately-projected
// Δz for every inequality row (active slots copied from Δw, inactive
// rows set to -z_i per the spec §4.3 projection rule).
func newtonStep(model *Model, ws *workspace.Workspace, y, z []float64, rho, muEqInv, muInInv float64, nbRefine int) (dw []float64, dzAll []float64) {
	dim := ws.KKTDim()
	r := ws.Arena.Floats(dim)
	buildNewtonRHS(model, ws, y, z, muEqInv, muInInv, r)

	dw = ws.Arena.Floats(dim)
	for i := range dw {
		dw[i] = -r[i]
	}
	scratch := ws.Arena.Floats(dim)
	ws.Fact.SolveVecInto(dw, scratch)

	if nbRefine > 0 {
		resid := ws.Arena.Floats(dim)
		correction := ws.Arena.Floats(dim)
		for iter := 0; iter < nbRefine; iter++ {
			kktApply(model, ws, rho, muEqInv, muInInv, dw, resid)
			for i := range resid {
				resid[i] += r[i]
			}
			if floats.Norm(resid, math.Inf(1)) <= epsRefine {
				break
			}
			for i := range correction {
				correction[i] = -resid[i]
			}
			ws.Fact.SolveVecInto(correction, scratch)
			for i := range dw {
				dw[i] += correction[i]
			}
		}
	}

	dzAll = ws.Arena.Floats(model.Dims.NIn)
	n, nEq := model.Dims.N, model.Dims.NEq
	for i := 0; i < model.Dims.NIn; i++ {
		if ws.ActiveInequalities[i] {
			slot := ws.Bij.Cur[i]
			dzAll[i] = dw[n+nEq+slot]
		} else {
			dzAll[i] = -z[i]
		}
	}
	return dw, dzAll
}

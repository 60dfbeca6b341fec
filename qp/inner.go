package qp

import (
	"math"

	"github.com/proxqp-go/proxqp/floats"
	"github.com/proxqp-go/proxqp/mat"
	"github.com/proxqp-go/proxqp/qp/internal/workspace"
)

// innerSolve runs the semismooth-Newton inner loop for one fixed outer
// target (y_k, z_k, mu_eq, mu_in, rho), per spec §4. It always starts
// with a fresh full KKT factorization: the active set carried over from
// the previous outer iteration is very often still correct, but mu_eq
// and mu_in have generally changed since then, and re-deriving the
// exact sequence of diagonal updates that would reproduce the same
// factorization incrementally buys little over simply refactoring once
// per outer iteration. Within the loop, every active-set change is
// applied incrementally (ldlt.InsertBlockAt/DeleteAt via
// reconcileActiveSet), except when rho or the dual residual crosses
// Settings.RefactorRhoThreshold/RefactorDualFeasibilityThreshold, in
// which case the incremental update is immediately superseded by
// another full refactor.
func innerSolve(model *Model, ws *workspace.Workspace, x, y, z []float64, rho, muEq, muIn, nu float64, settings Settings, stats *Stats, useVariantA bool, innerTol float64) error {
	n, nEq, nIn := model.Dims.N, model.Dims.NEq, model.Dims.NIn
	muEqInv := invOrZero(muEq)
	muInInv := invOrZero(muIn)

	computeResiduals(model, ws, x, y, z, rho)
	classifyActiveSet(model, ws, z, muInInv)
	if err := fullRefactor(model, ws, rho, muEqInv, muInInv); err != nil {
		return err
	}

	for inner := 0; inner < settings.MaxIterIn; inner++ {
		computeResiduals(model, ws, x, y, z, rho)
		classifyActiveSet(model, ws, z, muInInv)
		if err := reconcileActiveSet(model, ws, rho, muInInv); err != nil {
			return err
		}

		// A small rho leaves the KKT diagonal poorly regularized, and a
		// large dual residual means reconcileActiveSet's incremental
		// Schur-complement update is more likely to have drifted from
		// what a fresh factorization of the same active set would give;
		// either condition is a cue to pay for a full refactor instead
		// of trusting the incremental one just applied above.
		dualNorm := floats.Norm(ws.DualRes, math.Inf(1))
		if rho <= settings.RefactorRhoThreshold || dualNorm >= settings.RefactorDualFeasibilityThreshold {
			if err := fullRefactor(model, ws, rho, muEqInv, muInInv); err != nil {
				return err
			}
		}

		mark := ws.Arena.Save()

		dw, dzAll := newtonStep(model, ws, y, z, rho, muEqInv, muInInv, settings.NbIterativeRefinement)
		dx := dw[:n]
		dy := dw[n : n+nEq]

		if nIn > 0 {
			mat.GemvNoTrans(nIn, n, 1, ws.Cs.RawColumn(0), ws.Cs.Stride(), dx, 0, ws.Cdx)
		}

		var alpha float64
		if useVariantA && inner == 0 {
			alpha = lineSearchInitialGuess(model, ws, x, y, z, dx, dy, dzAll, rho, muEqInv, muInInv, settings.MaxBreakpoint)
		} else {
			alpha = lineSearchPrimalDual(model, ws, x, y, z, dx, dy, dzAll, rho, muEq, muIn, nu, settings.MaxBreakpoint)
		}

		for i := 0; i < n; i++ {
			x[i] += alpha * dx[i]
		}
		for i := 0; i < nEq; i++ {
			y[i] += alpha * dy[i]
		}
		for i := 0; i < nIn; i++ {
			z[i] += alpha * dzAll[i]
			switch {
			case model.EqualBound[i]:
				// An l == u row is an equality pair; its multiplier is
				// free in sign.
			case ws.ActiveInequalities[i] && ws.ActiveUpper[i]:
				if z[i] < 0 {
					z[i] = 0
				}
			case ws.ActiveInequalities[i] && !ws.ActiveUpper[i]:
				if z[i] > 0 {
					z[i] = 0
				}
			default:
				z[i] = 0
			}
		}

		stats.NTot++
		stepNorm := floats.Norm(dx, math.Inf(1)) * math.Abs(alpha)
		ws.Arena.Rewind(mark)

		if inner > 0 && stepNorm < innerTol {
			break
		}
	}
	return nil
}

package qp

import (
	"github.com/proxqp-go/proxqp/mat"
	"github.com/proxqp-go/proxqp/qp/internal/workspace"
)

// computeResiduals fills ws's residual vectors from the current
// iterate (x, y, z) and the proximal/penalty state, per spec §3.
func computeResiduals(model *Model, ws *workspace.Workspace, x, y, z []float64, rho float64) {
	n, nEq, nIn := model.Dims.N, model.Dims.NEq, model.Dims.NIn

	if n > 0 {
		mat.GemvNoTrans(n, n, 1, ws.Hs.RawColumn(0), ws.Hs.Stride(), x, 0, ws.DualRes)
	}
	if nEq > 0 {
		mat.GemvTrans(nEq, n, 1, ws.As.RawColumn(0), ws.As.Stride(), y, 0, ws.ATy)
	} else {
		zero(ws.ATy)
	}
	if nIn > 0 {
		mat.GemvTrans(nIn, n, 1, ws.Cs.RawColumn(0), ws.Cs.Stride(), z, 0, ws.CTz)
	} else {
		zero(ws.CTz)
	}
	for i := 0; i < n; i++ {
		ws.DualRes[i] += ws.Gs[i] + rho*(x[i]-ws.XPrev[i]) + ws.ATy[i] + ws.CTz[i]
	}

	if nEq > 0 {
		mat.GemvNoTrans(nEq, n, 1, ws.As.RawColumn(0), ws.As.Stride(), x, 0, ws.PrimalEqRes)
		for i := 0; i < nEq; i++ {
			ws.PrimalEqRes[i] -= ws.Bs[i]
		}
	}
	if nIn > 0 {
		cx := ws.Cdx // borrow as scratch for Cx; Cdx itself is recomputed each Newton step anyway
		mat.GemvNoTrans(nIn, n, 1, ws.Cs.RawColumn(0), ws.Cs.Stride(), x, 0, cx)
		for i := 0; i < nIn; i++ {
			ws.PrimalInUp[i] = cx[i] - ws.Us[i]
			ws.PrimalInLow[i] = cx[i] - ws.Ls[i]
		}
	}
}

func zero(s []float64) {
	for i := range s {
		s[i] = 0
	}
}

// classifyActiveSet recomputes, for every inequality row, whether it is
// a candidate member of the active set and which bound it binds,
// following the sign test of spec §4.2: i is active-upper if
// (Cx-u)_i + z_i/mu_in >= 0, active-lower if (Cx-l)_i + z_i/mu_in <= 0,
// and inactive otherwise. A row with l[i] == u[i] is permanently
// active (spec §8 boundary behaviors) and is pinned to the upper side
// by convention.
//
// The tie at exactly zero is preserved as ">=" / "<=" rather than a
// strict inequality, mirroring the original's .select(...) boolean
// masks at a breakpoint.
func classifyActiveSet(model *Model, ws *workspace.Workspace, z []float64, muInInv float64) {
	for i := 0; i < model.Dims.NIn; i++ {
		if model.EqualBound[i] {
			ws.ActiveInequalities[i] = true
			ws.ActiveUpper[i] = true
			continue
		}
		su := ws.PrimalInUp[i] + z[i]*muInInv
		sl := ws.PrimalInLow[i] + z[i]*muInInv
		switch {
		case su >= 0:
			ws.ActiveInequalities[i] = true
			ws.ActiveUpper[i] = true
		case sl <= 0:
			ws.ActiveInequalities[i] = true
			ws.ActiveUpper[i] = false
		default:
			ws.ActiveInequalities[i] = false
		}
	}
}

// reconcileActiveSet updates ws.Bij and ws.Fact so that the factorized
// KKT matrix's active-inequality rows exactly match
// ws.ActiveInequalities, per spec §4.2's two-pass protocol: removals
// first, then a single batched insertion for every newly active row.
func reconcileActiveSet(model *Model, ws *workspace.Workspace, rho, muInInv float64) error {
	bij := ws.Bij
	nIn := model.Dims.NIn
	base := model.Dims.N + model.Dims.NEq

	// Pass 1: removals.
	var toDelete []int
	for i := 0; i < nIn; i++ {
		if bij.Cur[i] < bij.NActive && !ws.ActiveInequalities[i] {
			toDelete = append(toDelete, bij.Cur[i])
		}
	}
	if len(toDelete) > 0 {
		sortInts(toDelete)
		extIdx := make([]int, len(toDelete))
		for k, slot := range toDelete {
			extIdx[k] = base + slot
		}
		if err := ws.Fact.DeleteAt(extIdx); err != nil {
			return err
		}
		removedSet := make(map[int]bool, len(toDelete))
		for _, s := range toDelete {
			removedSet[s] = true
		}
		for i := 0; i < nIn; i++ {
			if bij.Cur[i] >= bij.NActive {
				continue
			}
			if removedSet[bij.Cur[i]] {
				bij.Cur[i] = nIn - 1
				continue
			}
			shift := 0
			for _, s := range toDelete {
				if s < bij.Cur[i] {
					shift++
				}
			}
			bij.Cur[i] -= shift
		}
		bij.NActive -= len(toDelete)
	}

	// Pass 2: batched additions.
	var toAdd []int
	for i := 0; i < nIn; i++ {
		if ws.ActiveInequalities[i] && bij.Cur[i] >= bij.NActive {
			toAdd = append(toAdd, i)
		}
	}
	if len(toAdd) > 0 {
		r := len(toAdd)
		dim := base + bij.NActive
		ext := mat.NewDense(dim+r, r, nil)
		for k, i := range toAdd {
			for j := 0; j < model.Dims.N; j++ {
				ext.Set(j, k, ws.Cs.At(i, j))
			}
			ext.Set(dim+k, k, -muInInv)
		}
		if err := ws.Fact.InsertBlockAt(dim, ext); err != nil {
			return err
		}
		for k, i := range toAdd {
			bij.Cur[i] = bij.NActive + k
		}
		bij.NActive += r
	}

	for i := 0; i < nIn; i++ {
		if bij.Cur[i] < bij.NActive {
			bij.CurInv[bij.Cur[i]] = i
		}
	}
	return nil
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// fullRefactor rebuilds the KKT factorization from scratch for the
// current active set, rho and penalties. innerSolve calls it at the start
// of every inner loop (so it also runs on the outer iteration that follows
// a numeric-failure retry) and again whenever rho or the dual residual
// crosses its refactor threshold.
func fullRefactor(model *Model, ws *workspace.Workspace, rho, muEqInv, muInInv float64) error {
	n, nEq := model.Dims.N, model.Dims.NEq
	bij := ws.Bij
	dim := n + nEq + bij.NActive
	k := mat.NewDense(dim, dim, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := ws.Hs.At(i, j)
			if i == j {
				v += rho
			}
			k.Set(i, j, v)
		}
	}
	for e := 0; e < nEq; e++ {
		for j := 0; j < n; j++ {
			k.Set(n+e, j, ws.As.At(e, j))
			k.Set(j, n+e, ws.As.At(e, j))
		}
		k.Set(n+e, n+e, -muEqInv)
	}
	for slot := 0; slot < bij.NActive; slot++ {
		i := bij.CurInv[slot]
		row := n + nEq + slot
		for j := 0; j < n; j++ {
			k.Set(row, j, ws.Cs.At(i, j))
			k.Set(j, row, ws.Cs.At(i, j))
		}
		k.Set(row, row, -muInInv)
	}
	return ws.Fact.Factorize(k)
}

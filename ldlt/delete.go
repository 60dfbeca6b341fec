package ldlt

import "sort"

// DeleteAt removes the rows/columns at the given external indices from
// the factorization, updating it in place without a full refactor.
// extIndices must be strictly increasing and within [0, Dim()).
//
// After the call, Dim() shrinks by len(extIndices) and every surviving
// row/column is relabeled to close the gap: external indices are always
// a dense 0..Dim()-1 numbering of whichever rows/columns currently
// survive, in their original relative order. The qp package's bijection
// layer, not this package, is what remembers which user-facing
// constraint a given external index currently denotes; DeleteAt only
// needs to keep its own internal numbering dense and consistent.
func (f *Factorization) DeleteAt(extIndices []int) error {
	r := len(extIndices)
	if r == 0 {
		return nil
	}
	for k := 1; k < r; k++ {
		if extIndices[k] <= extIndices[k-1] {
			return ErrUnsortedIndices
		}
	}
	n := f.dim
	for _, e := range extIndices {
		if e < 0 || e >= n {
			return ErrIndexRange
		}
	}

	storagePositions := make([]int, r)
	for k, e := range extIndices {
		storagePositions[k] = f.permInv[e]
	}
	sort.Sort(sort.Reverse(sort.IntSlice(storagePositions)))

	perm := append([]int(nil), f.perm...)
	for _, p := range storagePositions {
		if err := f.deleteStorageColumn(p); err != nil {
			return err
		}
		perm = append(perm[:p], perm[p+1:]...)
	}

	newDim := f.dim
	survivorsSorted := append([]int(nil), perm...)
	sort.Ints(survivorsSorted)

	newPerm := make([]int, newDim)
	newPermInv := make([]int, newDim)
	for st := 0; st < newDim; st++ {
		oldExt := perm[st]
		newExt := sort.SearchInts(survivorsSorted, oldExt)
		newPerm[st] = newExt
		newPermInv[newExt] = st
	}
	f.perm = newPerm
	f.permInv = newPermInv
	return nil
}

// deleteStorageColumn removes a single row/column at storage position p,
// leaving dim-1 afterward. It first applies a rank-one update with
// alpha = +D[p] to the trailing block using column p's sub-diagonal
// entries as the update vector: this exactly undoes the rank-one
// elimination that column p's pivoting step originally subtracted from
// that block, so once the update lands, row/column p can simply be
// dropped from storage without perturbing the rest of the
// factorization. It does not touch f.perm; the caller is responsible
// for keeping perm/permInv consistent across a batch of deletions.
func (f *Factorization) deleteStorageColumn(p int) error {
	n := f.dim
	stride := f.stride
	if p < n-1 {
		tail := n - p - 1
		w := make([]float64, tail)
		copy(w, f.ldStorage[p*stride+p+1:p*stride+n])
		alpha := f.diag(p)
		if err := f.rank1Update(p+1, w, alpha); err != nil {
			return err
		}
	}

	for j := 0; j < p; j++ {
		col := f.ldStorage[j*stride : j*stride+n]
		copy(col[p:n-1], col[p+1:n])
	}
	for j := p + 1; j < n; j++ {
		src := f.ldStorage[j*stride : j*stride+n]
		dst := f.ldStorage[(j-1)*stride : (j-1)*stride+n-1]
		copy(dst[:p], src[:p])
		copy(dst[p:n-1], src[p+1:n])
	}
	f.dim = n - 1
	if f.dim > 0 {
		f.maybeSortedDiag = f.maybeSortedDiag[:f.dim]
		for i := p; i < f.dim; i++ {
			f.maybeSortedDiag[i] = f.diag(i)
		}
	}
	return nil
}

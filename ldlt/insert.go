package ldlt

import "github.com/proxqp-go/proxqp/mat"

// InsertBlockAt inserts r new rows and columns of a symmetric extension
// at external (user-visible) index i, growing the factorization from
// dimension n to n+r. aNew is the (n+r)×r extension: its first n rows
// hold the new columns' entries against the existing variables, already
// expressed in the factorization's current external index order (i.e.
// aNew.At(extIdx, k), not storage order), and its trailing r×r block
// holds the new variables' own symmetric sub-block.
//
// The new rows/columns are appended at the end of the factorization in
// storage order - correctness does not depend on where in storage order
// an insertion lands (spec Open Question ii), so this package always
// chooses the simplest valid placement, the current end of storage,
// rather than replicating the original's diagonal-magnitude insertion
// heuristic. The permutation records that those appended storage slots
// are external position i (and i+1, ..., i+r-1), shifting every existing
// external index at or above i up by r.
func (f *Factorization) InsertBlockAt(i int, aNew mat.Matrix) error {
	rows, r := aNew.Dims()
	if r == 0 {
		return nil
	}
	n := f.dim
	if rows != n+r {
		panic(mat.ErrShape)
	}
	if i < 0 || i > n {
		return ErrIndexRange
	}

	f.Reserve(n + r)

	newPerm := make([]int, n+r)
	newPermInv := make([]int, n+r)
	for st := 0; st < n; st++ {
		ext := f.perm[st]
		if ext >= i {
			ext += r
		}
		newPerm[st] = ext
	}
	for k := 0; k < r; k++ {
		newPerm[n+k] = i + k
	}
	for ext := 0; ext < n; ext++ {
		st := f.permInv[ext]
		newExt := ext
		if ext >= i {
			newExt = ext + r
		}
		newPermInv[newExt] = st
	}
	for k := 0; k < r; k++ {
		newPermInv[i+k] = n + k
	}

	// Build the extension in storage order: an existing storage slot st
	// reads aNew's row for its pre-insertion external index f.perm[st];
	// the appended slots n+k read aNew's trailing rows n+k.
	permutedA := mat.NewDense(n+r, r, nil)
	for st := 0; st < n+r; st++ {
		row := st
		if st < n {
			row = f.perm[st]
		}
		for k := 0; k < r; k++ {
			permutedA.Set(st, k, aNew.At(row, k))
		}
	}

	f.perm = newPerm
	f.permInv = newPermInv
	f.dim = n + r
	f.maybeSortedDiag = growFloats(f.maybeSortedDiag, n+r)

	if err := f.insertColumns(n, r, permutedA); err != nil {
		return err
	}
	for k := 0; k < r; k++ {
		f.maybeSortedDiag[n+k] = f.diag(n + k)
	}
	return nil
}

// insertColumns performs the bordered-factorization math for
// InsertBlockAt once the permutation bookkeeping and the storage
// reservation are in place: it solves for the new L21 block against the
// existing L11·D11 factorization, forms the Schur complement of the new
// variables' own sub-block, and factorizes that small r×r trailing
// block directly.
func (f *Factorization) insertColumns(n, r int, permutedA *mat.Dense) error {
	stride := f.stride

	// w[k] = L11^-1 * B[:,k], used both to fill L21 (divide by D11) and
	// to form the Schur complement S = C - sum_i w_k[i]*w_l[i]/D[i].
	w := make([][]float64, r)
	for k := 0; k < r; k++ {
		wk := make([]float64, n)
		for idx := 0; idx < n; idx++ {
			wk[idx] = permutedA.At(idx, k)
		}
		mat.TriangularSolveVec(n, f.ldStorage, stride, true, true, wk)
		w[k] = wk

		// L21 row k, stored into the extended rows of old column idx.
		for idx := 0; idx < n; idx++ {
			f.ldStorage[idx*stride+(n+k)] = wk[idx] / f.diag(idx)
		}
	}

	for k := 0; k < r; k++ {
		for l := k; l < r; l++ {
			s := permutedA.At(n+k, l)
			for idx := 0; idx < n; idx++ {
				s -= w[k][idx] * w[l][idx] / f.diag(idx)
			}
			f.ldStorage[(n+k)*stride+(n+l)] = s
			if l != k {
				f.ldStorage[(n+l)*stride+(n+k)] = s
			}
		}
	}

	return f.factorizeBlock(n, r)
}

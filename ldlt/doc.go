// Copyright ©2024 The proxqp-go Authors. All rights reserved.

// Package ldlt implements a dense LDLᵀ factorization of a symmetric
// matrix that supports, in addition to a full refactor, the in-place
// structural updates the qp package's active-set engine needs: a
// symmetric rank-r update, insertion of new rows/columns, deletion of
// rows/columns, and a diagonal-only update specialization of the rank-r
// update.
//
// The factorization stores P M Pᵀ = L D Lᵀ for a permutation P chosen at
// Factorize time by sorting the diagonal of M by decreasing magnitude; L
// is unit lower triangular and D is diagonal, both packed into a single
// column-major buffer whose column stride may exceed its logical
// dimension so that growth (Reserve) never has to move more than it must.
//
// This mirrors the dense_ldlt::Ldlt class in the original C++
// implementation this design was distilled from (perm/perm_inv/
// maybe_sorted_diag, adjusted-stride storage), translated into Go with
// explicit error returns in place of assertions (including
// ErrUnsortedIndices and ErrIndexRange for bad deletion or insertion
// indices) and panics reserved for mismatched lengths and shapes,
// following the panic-on-malformed-input convention observed throughout
// gonum.org/v1/gonum/mat and optimize/convex/lp.
package ldlt

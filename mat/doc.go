// Copyright ©2024 The proxqp-go Authors. All rights reserved.

// Package mat provides the dense matrix types and BLAS-3-level kernels
// that the ldlt and qp packages build on: Dense and VecDense storage
// types, the Matrix/Symmetric interfaces problem data is expressed
// through, and a small set of column-major primitives (general matrix
// multiply, symmetric rank-k update, triangular solve, permutation
// application) in kernel.go.
//
// Dense matrices are stored column-major with a stride equal to the
// number of rows. The kernels take an explicit leading dimension instead,
// so they also operate directly on ldlt.Factorization's backing storage,
// whose column stride may exceed its logical dimension.
package mat

// Copyright ©2024 The proxqp-go Authors. All rights reserved.

// Package floats provides a small set of helper routines for performing
// common numerical operations on slices of float64. It follows the shape
// of gonum.org/v1/gonum/floats: free functions over []float64 rather than
// a vector type, so callers pay no allocation cost beyond the slice
// itself.
package floats

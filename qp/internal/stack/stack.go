// Copyright ©2024 The proxqp-go Authors. All rights reserved.

// Package stack implements a scoped bump allocator for the float64 and
// int scratch buffers the inner solve loop needs every iteration.
//
// The original C++ implementation (original_source/include/dense-ldlt/
// ldlt.hpp) drives its temporaries off a byte-addressable veg::dynstack
// workspace: callers query a stack_requirement in bytes up front, carve
// scratch spans out of it with placement new, and release them by
// rewinding a high-water mark when a scope ends. Go's allocator and GC
// make byte-level placement unnecessary, but the property that
// motivates the original design - no allocation inside the hot solve
// loop - still matters here, so Arena reproduces the query/carve/rewind
// discipline over plain slices instead of raw bytes.
package stack

// Arena is a bump allocator over two pre-sized backing slices, one for
// float64 scratch and one for int scratch (index lists, breakpoint
// orderings). It is not safe for concurrent use; a *workspace.Workspace owns
// exactly one Arena and every Solve call on that workspace runs
// sequentially, per the package's concurrency contract.
type Arena struct {
	floats    []float64
	floatsLen int
	ints      []int
	intsLen   int
}

// NewArena returns an Arena with floatCap float64s and intCap ints of
// initial backing capacity. Both grow on demand if a later Floats or Ints
// call exceeds the current capacity.
func NewArena(floatCap, intCap int) *Arena {
	return &Arena{
		floats: make([]float64, floatCap),
		ints:   make([]int, intCap),
	}
}

// Mark is a high-water mark returned by Save, to be passed
// to Rewind to release everything reserved since it was taken.
type Mark struct {
	floats int
	ints   int
}

// Save returns a Mark at the arena's current high-water point.
func (a *Arena) Save() Mark {
	return Mark{floats: a.floatsLen, ints: a.intsLen}
}

// Rewind releases every reservation made since m was taken, without
// zeroing the underlying storage; callers must not assume a reserved
// slice is zero-valued.
func (a *Arena) Rewind(m Mark) {
	a.floatsLen = m.floats
	a.intsLen = m.ints
}

// Floats reserves and returns a float64 slice of length n from the
// arena, growing the backing array if needed.
func (a *Arena) Floats(n int) []float64 {
	if a.floatsLen+n > len(a.floats) {
		grown := make([]float64, max(2*len(a.floats), a.floatsLen+n))
		copy(grown, a.floats[:a.floatsLen])
		a.floats = grown
	}
	s := a.floats[a.floatsLen : a.floatsLen+n]
	a.floatsLen += n
	return s
}

// Ints reserves and returns an int slice of length n from the arena,
// growing the backing array if needed.
func (a *Arena) Ints(n int) []int {
	if a.intsLen+n > len(a.ints) {
		grown := make([]int, max(2*len(a.ints), a.intsLen+n))
		copy(grown, a.ints[:a.intsLen])
		a.ints = grown
	}
	s := a.ints[a.intsLen : a.intsLen+n]
	a.intsLen += n
	return s
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

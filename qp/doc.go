// Copyright ©2024 The proxqp-go Authors. All rights reserved.

// Package qp solves convex quadratic programs
//
//	minimize   ½ xᵀHx + gᵀx
//	subject to Ax = b,  l ≤ Cx ≤ u
//
// using a proximal augmented-Lagrangian (ProxQP) outer loop wrapping a
// semismooth-Newton inner loop over a dense KKT system maintained by
// the ldlt package's in-place structural updates.
//
// The public surface is narrow: build a Model with NewModel, choose
// Settings (DefaultSettings is a reasonable starting point), and call
// Solve. Everything else - the KKT bijection, the Newton step engine,
// the line search variants, the BCL outer/inner loop - is internal
// machinery exercised only through Solve, mirroring how
// optimize/convex/lp exposes a single entry point (Simplex) over a
// comparably large internal machine.
package qp

// SPDX-License-Identifier: MIT
// Package operand: sentinel error set (unified, consistent).
// This file defines ONLY package-level sentinel errors used across the
// operand package. All constructors and accessors MUST return these
// sentinels and tests MUST check them via errors.Is. No constructor panics
// on user-triggered error conditions.

package operand

import "errors"

// NOTE ON NAMING & PREFIXING
// --------------------------
// Every message is prefixed with "operand: ..." for consistency and to allow
// easy grepping across logs. Wrap with fmt.Errorf("ctx: %w", ErrX) at call
// sites when coordinates or shapes are essential; callers still match with
// errors.Is.

var (
	// ErrBadShape is returned when a requested shape is invalid (r<=0 or c<=0).
	// Constructors must validate before allocation.
	ErrBadShape = errors.New("operand: invalid shape")

	// ErrOutOfRange indicates that an index (row or column) is outside valid
	// bounds. Public indexers (At/Set) MUST return this, not panic.
	ErrOutOfRange = errors.New("operand: index out of range")

	// ErrDimensionMismatch indicates incompatible dimensions between an
	// operand and a vector (Apply/Scatter length checks).
	ErrDimensionMismatch = errors.New("operand: dimension mismatch")

	// ErrNotSquare signals that a square representation was required but the
	// input wasn't (SymDense over a rectangular Dense).
	ErrNotSquare = errors.New("operand: matrix is not square")

	// ErrBadPattern signals a malformed compressed-column structure:
	// non-monotone column pointers, out-of-range or unsorted row indices,
	// or slice lengths that disagree with the pointer array.
	ErrBadPattern = errors.New("operand: malformed sparse pattern")

	// ErrNilMatVec indicates an Operator constructed without a matrix-vector
	// product closure.
	ErrNilMatVec = errors.New("operand: nil matrix-vector product")

	// ErrNilOperand indicates a nil operand (receiver or argument).
	ErrNilOperand = errors.New("operand: nil operand")
)

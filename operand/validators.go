// SPDX-License-Identifier: MIT
// Package: operand
//
// Purpose:
//   - Single, canonical source of truth for common validation checks.
//   - Keep representations and downstream kernels minimal by delegating
//     nil/shape/length checks here.
//   - Return plain sentinel errors (no wrapping) so call sites can wrap
//     uniformly.
//
// Note:
//   - Each composite validator follows a fixed sequence (NotNil → Shape).

package operand

// ValidateNotNil ensures the operand reference is non-nil.
// Returns ErrNilOperand if a == nil. O(1).
func ValidateNotNil(a Operand) error {
	if a == nil {
		return ErrNilOperand
	}
	return nil
}

// ValidateSquare ensures the operand is square.
// Assumes a is non-nil (caller must ensure). O(1).
func ValidateSquare(a Operand) error {
	r, c := a.Dims()
	if r != c {
		return ErrNotSquare
	}
	return nil
}

// ValidateRHS ensures the right-hand side length matches the row count.
// Assumes a is non-nil. O(1).
func ValidateRHS(a Operand, b []float64) error {
	r, _ := a.Dims()
	if len(b) != r {
		return ErrDimensionMismatch
	}
	return nil
}

// ValidateGuess ensures an initial guess (when present) matches the column
// count. A nil guess is valid. O(1).
func ValidateGuess(a Operand, u []float64) error {
	if u == nil {
		return nil
	}
	_, c := a.Dims()
	if len(u) != c {
		return ErrDimensionMismatch
	}
	return nil
}

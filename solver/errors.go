// SPDX-License-Identifier: MIT
// Package solver: sentinel error set (unified, consistent).
// All dispatch and backend code MUST return these sentinels (wrapped with
// context via %w where coordinates matter) and tests MUST check them via
// errors.Is.
//
// ERROR TAXONOMY (enforced in tests):
//   - configuration errors surface at algorithm-construction time
//     (ErrBackendUnavailable, ErrBadConfig): never silently degraded;
//   - structural mismatches surface at dispatch time
//     (ErrStructuralMismatch, ErrShapeMismatch, ErrNotSquare,
//     ErrOperatorUnsupported): never retried;
//   - numerical failures surface in Result.Status plus a sentinel
//     (ErrSingular, ErrNotPositiveDefinite, ErrNonConvergence): never
//     silently substituted, except the documented sparse Cholesky→LDLᵀ
//     escalation;
//   - a sparsity-pattern mismatch is NOT an error: it transparently
//     triggers a full re-factorization.

package solver

import "errors"

var (
	// ErrBackendUnavailable is returned when the requested algorithm kind
	// has no registered backend (optional capability not linked in).
	// Configuration error: fails fast at Algorithm construction.
	ErrBackendUnavailable = errors.New("solver: backend unavailable")

	// ErrBadConfig is returned for nonsensical algorithm configuration
	// (e.g., a pivot strategy the kernel does not implement, pattern-check
	// flags on dense backends). Configuration error.
	ErrBadConfig = errors.New("solver: invalid algorithm configuration")

	// ErrStructuralMismatch is returned when the operand's representation
	// cannot serve the requested algorithm (e.g., sparse backend on a dense
	// matrix). Dispatch-time error; not retried.
	ErrStructuralMismatch = errors.New("solver: operand structure does not match algorithm")

	// ErrShapeMismatch indicates disagreeing dimensions between A, b or the
	// initial guess.
	ErrShapeMismatch = errors.New("solver: shape mismatch")

	// ErrNotSquare signals that a square matrix was required but the input
	// wasn't.
	ErrNotSquare = errors.New("solver: matrix is not square")

	// ErrOperatorUnsupported signals a factorization-based algorithm asked
	// to work on a matrix-free operator (no concrete entries).
	ErrOperatorUnsupported = errors.New("solver: algorithm requires concrete matrix entries")

	// ErrSingular is returned when a factorization meets a zero (or
	// numerically hopeless) pivot. Clears the cache slot: the failure is
	// structural to the factorization.
	ErrSingular = errors.New("solver: singular matrix")

	// ErrNotPositiveDefinite is returned when a Cholesky-family kernel
	// rejects the matrix. The slot remains reusable for a corrected input.
	ErrNotPositiveDefinite = errors.New("solver: matrix is not positive definite")

	// ErrNonConvergence is returned when an iterative backend exhausts its
	// budget or breaks down before meeting the tolerance.
	ErrNonConvergence = errors.New("solver: iterative method did not converge")

	// ErrNilProblem indicates a problem with a nil operand or empty
	// right-hand side.
	ErrNilProblem = errors.New("solver: nil operand or empty right-hand side")
)

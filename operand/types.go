// SPDX-License-Identifier: MIT

// Package operand: domain-facing types shared by representations and the
// structural probe. Errors live in errors.go, validators in validators.go,
// per the global conventions.
package operand

// Operand is the minimal surface every matrix-like value must expose.
// Concrete representations (Dense, CSC, Diagonal, ...) add capability
// interfaces on top; the solver discovers those by type assertion.
type Operand interface {
	// Dims returns the number of rows and columns.
	// Complexity: O(1).
	Dims() (rows, cols int)
}

// EntryAccessor is the optional capability of exposing individual entries.
// Representations without concrete entries (Operator) do not implement it.
// The generic fallback path materializes unknown operands through this
// interface, so third-party representations that implement it remain
// solvable: slowly, by densification.
type EntryAccessor interface {
	// At retrieves the element at position (i, j).
	// Returns ErrOutOfRange for invalid indices.
	At(i, j int) (float64, error)
}

// VectorApplier is the optional capability of computing dst = A·x.
// Every in-package representation implements it; the iterative backends and
// residual checks require it.
type VectorApplier interface {
	// Apply computes dst = A·x. dst and x must not alias.
	// Returns ErrDimensionMismatch when len(x) != cols or len(dst) != rows.
	Apply(dst, x []float64) error
}

// SelfClassifier lets external representations (device-resident buffers,
// out-of-process handles) report their own structural category. The probe
// consults it before the built-in type switch, so extension operands route
// to whatever backend was registered for CatExternal kinds.
type SelfClassifier interface {
	Category() Category
}

// Category is the structural classification of an operand's representation.
// It is derived purely from the Go type (and SelfClassifier), never from
// numerical values, and is recomputed per solve: the probe is cheap.
type Category uint8

const (
	// CatGenericFallback is the fail-closed bucket for unrecognized
	// representations: served by allocation-heavy densifying backends.
	CatGenericFallback Category = iota

	// CatGeneralDense - *Dense with no structural annotation.
	CatGeneralDense

	// CatSymmetricDense - *SymDense (symmetry asserted by the caller).
	CatSymmetricDense

	// CatSparseCSC - *CSC compressed sparse column.
	CatSparseCSC

	// CatDiagonal - *Diagonal.
	CatDiagonal

	// CatTridiagonal - *Tridiagonal.
	CatTridiagonal

	// CatBidiagonal - *Bidiagonal.
	CatBidiagonal

	// CatOperator - *Operator: no concrete entries, matvec only.
	// Disables every factorization-based backend.
	CatOperator

	// CatExternal - reported by a SelfClassifier (device-resident and other
	// extension representations). Backends for it arrive via registration.
	CatExternal
)

// CatHermitianDense aliases CatSymmetricDense: the scalar field is float64
// throughout this module, where Hermitian and symmetric coincide.
const CatHermitianDense = CatSymmetricDense

// String returns a stable, log-friendly category name.
func (c Category) String() string {
	switch c {
	case CatGeneralDense:
		return "general-dense"
	case CatSymmetricDense:
		return "symmetric-dense"
	case CatSparseCSC:
		return "sparse-csc"
	case CatDiagonal:
		return "diagonal"
	case CatTridiagonal:
		return "tridiagonal"
	case CatBidiagonal:
		return "bidiagonal"
	case CatOperator:
		return "operator"
	case CatExternal:
		return "external"
	default:
		return "generic-fallback"
	}
}

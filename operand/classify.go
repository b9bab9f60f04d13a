// SPDX-License-Identifier: MIT

// Package operand - the structural probe.

package operand

// Classify maps an operand to its structural category.
//
// The decision is purely representational: a type switch plus the
// SelfClassifier escape hatch, no value inspection, no allocation.
// Unknown representations fall closed into CatGenericFallback, which the
// policy serves with slower densifying backends rather than erroring.
//
// Determinism: calling Classify twice on the same operand always yields the
// same category, which is what makes it safe as a cache-slot key component.
// Complexity: O(1).
func Classify(a Operand) Category {
	if a == nil {
		return CatGenericFallback
	}
	// Extension representations (device-resident buffers, remote handles)
	// self-classify before the built-in switch.
	if sc, ok := a.(SelfClassifier); ok {
		return sc.Category()
	}
	switch a.(type) {
	case *Dense:
		return CatGeneralDense
	case *SymDense:
		return CatSymmetricDense
	case *CSC:
		return CatSparseCSC
	case *Diagonal:
		return CatDiagonal
	case *Tridiagonal:
		return CatTridiagonal
	case *Bidiagonal:
		return CatBidiagonal
	case *Operator:
		return CatOperator
	default:
		return CatGenericFallback
	}
}

// SPDX-License-Identifier: MIT

// Package solver - the default-algorithm decision table.

package solver

import "github.com/katalvlaran/linsolve/operand"

// resolveDefault maps a structural category to a concrete algorithm kind.
//
// This is a decision table, not a search: it is a pure, deterministic
// function of the representation (plus caller assumptions) and never
// performs numerical validation: positive definiteness, rank and
// conditioning are discovered by the chosen backend at factorization time
// and surfaced as statuses, not corrected by re-resolution.
//
// Table:
//
//	diagonal            → diagonal solve
//	tridiagonal         → tridiagonal LU
//	bidiagonal          → bidiagonal substitution
//	symmetric dense     → Cholesky (LDLᵀ when asserted indefinite)
//	general dense       → LU when square, QR least squares otherwise
//	sparse CSC          → sparse Cholesky for structurally symmetric
//	                      square patterns, sparse LU otherwise
//	operator            → CG when asserted SPD, BiCGStab otherwise
//	                      (factorizations cannot be formed from a matvec
//	                      closure; only no-op-cache backends qualify)
//	external            → whatever was registered for KindExternal
//	generic fallback    → LU over a densified copy (slow, fails closed)
func resolveDefault(cat operand.Category, a operand.Operand, assume Assumptions) Kind {
	switch cat {
	case operand.CatDiagonal:
		return KindDiagonal

	case operand.CatTridiagonal:
		return KindTridiagonal

	case operand.CatBidiagonal:
		return KindBidiagonal

	case operand.CatSymmetricDense:
		if assume.Indefinite {
			return KindLDLT
		}
		return KindCholesky

	case operand.CatGeneralDense:
		r, c := a.Dims()
		if r != c {
			return KindQR
		}
		return KindLU

	case operand.CatSparseCSC:
		if csc, ok := a.(*operand.CSC); ok && csc.StructurallySymmetric() {
			return KindSparseCholesky
		}
		return KindSparseLU

	case operand.CatOperator:
		if assume.Symmetric && assume.PositiveDefinite {
			return KindCG
		}
		return KindBiCGStab

	case operand.CatExternal:
		return KindExternal

	default: // operand.CatGenericFallback
		return KindLU
	}
}

// SPDX-License-Identifier: MIT

// Package solver: domain-facing types. Errors live in errors.go, options in
// options.go, the capability table in registry.go, per the global
// conventions.
package solver

import (
	"github.com/katalvlaran/linsolve/operand"
)

// Kind identifies an algorithm variant in the closed set.
type Kind uint8

const (
	// KindDefault defers algorithm selection to the decision table driven
	// by the operand's structural category. The zero Algorithm value is the
	// default meta-algorithm.
	KindDefault Kind = iota

	KindLU             // dense LU with partial (row) pivoting
	KindQR             // dense QR; least-squares capable
	KindCholesky       // dense Cholesky (symmetric positive definite)
	KindLDLT           // dense LDLᵀ, symmetric indefinite, no pivoting
	KindSVD            // dense SVD; rank-deficient least squares
	KindDiagonal       // diagonal solve
	KindTridiagonal    // tridiagonal LU (Thomas elimination)
	KindBidiagonal     // bidiagonal substitution solve
	KindSparseLU       // sparse CSC LU with symbolic-state reuse
	KindSparseCholesky // sparse CSC Cholesky with LDLᵀ escalation
	KindNormalCholesky // least squares via the normal equations
	KindCG             // conjugate gradients (matrix-free capable)
	KindBiCGStab       // stabilized bi-CG (matrix-free capable)
	KindExternal       // placeholder resolved for self-classified operands

	// KindExtensionBase is the first value reserved for extension backends
	// registered at startup via Register.
	KindExtensionBase Kind = 64
)

// String returns a stable, log-friendly kind name.
func (k Kind) String() string {
	switch k {
	case KindDefault:
		return "default"
	case KindLU:
		return "lu"
	case KindQR:
		return "qr"
	case KindCholesky:
		return "cholesky"
	case KindLDLT:
		return "ldlt"
	case KindSVD:
		return "svd"
	case KindDiagonal:
		return "diagonal"
	case KindTridiagonal:
		return "tridiagonal"
	case KindBidiagonal:
		return "bidiagonal"
	case KindSparseLU:
		return "sparse-lu"
	case KindSparseCholesky:
		return "sparse-cholesky"
	case KindNormalCholesky:
		return "normal-cholesky"
	case KindCG:
		return "cg"
	case KindBiCGStab:
		return "bicgstab"
	case KindExternal:
		return "external"
	default:
		return "extension"
	}
}

// PivotStrategy selects the pivoting discipline of a factorization kernel.
type PivotStrategy uint8

const (
	// PivotPartial is row pivoting (the LU default).
	PivotPartial PivotStrategy = iota
	// PivotNone disables pivoting; kernels fail on a zero pivot instead of
	// reordering. The LDLᵀ and tridiagonal kernels run unpivoted.
	PivotNone
)

// Traits declares the static capabilities and the default aliasing policy
// of a backend. The dispatcher consults them for structural gating; the
// per-algorithm aliasing declarations start from these defaults.
type Traits struct {
	// NeedsSquare rejects rectangular operands at dispatch time.
	NeedsSquare bool
	// LeastSquares marks backends that solve rectangular systems in the
	// least-squares sense.
	LeastSquares bool
	// OperatorOK marks backends that can work through operator application
	// alone (the no-op-cache family).
	OperatorOK bool
	// Sparse marks backends whose cache carries symbolic sparse state and
	// therefore participates in pattern checking.
	Sparse bool
	// AliasA / AliasB: whether the backend may overwrite the caller's
	// matrix / right-hand side storage by default.
	AliasA bool
	AliasB bool
}

// Algorithm is a variant of the closed algorithm set together with its
// immutable configuration. Construct via the per-kind constructors (LU(),
// SparseLU(), ...); reconfiguration means constructing a new value.
type Algorithm struct {
	kind          Kind
	pivot         PivotStrategy
	reuseSymbolic bool
	checkPattern  bool
	aliasA        bool
	aliasB        bool
}

// Kind returns the algorithm variant identity.
func (a Algorithm) Kind() Kind { return a.kind }

// Pivot returns the configured pivoting strategy.
func (a Algorithm) Pivot() PivotStrategy { return a.pivot }

// ReuseSymbolic reports whether sparse symbolic state may be carried across
// value-only changes.
func (a Algorithm) ReuseSymbolic() bool { return a.reuseSymbolic }

// CheckPattern reports whether sparse backends compare the incoming index
// structure against the cached one before reusing symbolic state. Disabling
// it is a caller guarantee of pattern stability.
func (a Algorithm) CheckPattern() bool { return a.checkPattern }

// AliasA reports whether the backend may overwrite the caller's matrix
// storage during factorization.
func (a Algorithm) AliasA() bool { return a.aliasA }

// AliasB reports whether the backend may overwrite the caller's right-hand
// side storage.
func (a Algorithm) AliasB() bool { return a.aliasB }

// Assumptions conveys caller-declared operator properties a backend may use
// to skip runtime detection. Wrong assertions surface as numerical failures.
type Assumptions struct {
	// Symmetric asserts A == Aᵀ.
	Symmetric bool
	// PositiveDefinite asserts xᵀAx > 0 for x ≠ 0 (with Symmetric, steers
	// operator defaults to CG).
	PositiveDefinite bool
	// Indefinite asserts a symmetric but indefinite matrix, steering the
	// symmetric-dense default to LDLᵀ instead of Cholesky.
	Indefinite bool
}

// Status is the solve outcome reported alongside the solution.
type Status uint8

const (
	StatusUnknown Status = iota
	StatusSuccess
	StatusFailure       // numerical failure (singular pivot, not PD, breakdown)
	StatusMaxIterations // iterative budget exhausted
	StatusInfeasible    // structural/dispatch rejection, no attempt made
)

// String returns a stable status name.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	case StatusMaxIterations:
		return "max-iterations"
	case StatusInfeasible:
		return "infeasible"
	default:
		return "unknown"
	}
}

// Result packages a solve outcome. Immutable once returned; owned by the
// caller.
type Result struct {
	// U is the solution vector (length = columns of A).
	U []float64
	// Status is the outcome classification.
	Status Status
	// Kind is the concrete algorithm that produced U (the resolved variant
	// when the default meta-algorithm was requested).
	Kind Kind
	// Iterations is the iteration count for iterative backends; zero for
	// direct ones.
	Iterations int
	// Residual is the final residual norm reported by iterative backends.
	Residual float64
	// CondEstimate is a condition-number estimate when the backend exposes
	// one (SVD, Cholesky); zero otherwise.
	CondEstimate float64
	// Escalated reports the sparse Cholesky backend's internal degradation
	// to LDLᵀ within this call. Always false elsewhere.
	Escalated bool
}

// Stats holds the workspace's observable work counters.
type Stats struct {
	// Solves counts completed Solve calls (any status).
	Solves int
	// Factorizations counts numeric factorization passes.
	Factorizations int
	// CacheHits counts solves that reused a factorization verbatim.
	CacheHits int
	// PatternRebuilds counts sparse symbolic-state replacements triggered
	// by a pattern mismatch.
	PatternRebuilds int
}

// Problem pairs a matrix-like operand with a right-hand side and an
// optional initial guess. The solver never mutates a Problem; aliasing of
// A or B into working buffers is an explicit per-algorithm policy.
type Problem struct {
	A     operand.Operand
	B     []float64
	Guess []float64
}

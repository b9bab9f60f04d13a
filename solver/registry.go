// SPDX-License-Identifier: MIT

// Package solver - the capability table.
//
// Backends live in an explicit registration table mapping each Kind to its
// init/solve pair: closed-set dispatch without reflection, extensible via
// Register at startup. Requesting a Kind with no registered backend is a
// configuration error at Algorithm construction time: never a silent
// degradation to another algorithm.

package solver

import (
	"fmt"
	"sync"
)

// Backend is the protocol every algorithm implementation satisfies.
//
// InitCache allocates or derives reusable state. For sparse backends it
// must depend on the structure of A only: it runs once per structural
// shape and its product is reused across value-only changes.
//
// Solve performs the solve under the freshness contract: when fresh is
// false the cache is reused verbatim; when true, only numerically-dependent
// parts are reconstructed (subject to the pattern check for sparse
// backends). Numerical failure is reported via Result.Status plus a
// sentinel error; Solve must never substitute a different algorithm.
type Backend interface {
	Kind() Kind
	Traits() Traits
	InitCache(ws *Workspace, alg Algorithm) (any, error)
	Solve(ws *Workspace, alg Algorithm, cache any, fresh bool) (Result, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[Kind]Backend)
)

// register installs a built-in backend; duplicate kinds are a programmer
// error caught at package init.
func register(b Backend) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[b.Kind()]; dup {
		panic(fmt.Sprintf("solver: duplicate backend for kind %s", b.Kind()))
	}
	registry[b.Kind()] = b
}

// Register installs an extension backend (kinds >= KindExtensionBase, or
// KindExternal for self-classified operands). Call once at startup, before
// any solves; registration is the capability gate that makes optional
// backends requestable. Returns ErrBadConfig for reserved kinds and
// duplicates.
func Register(b Backend) error {
	k := b.Kind()
	if k != KindExternal && k < KindExtensionBase {
		return fmt.Errorf("Register(%s): reserved kind: %w", k, ErrBadConfig)
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[k]; dup {
		return fmt.Errorf("Register(%s): %w", k, ErrBadConfig)
	}
	registry[k] = b
	return nil
}

// lookupBackend resolves a kind against the table.
func lookupBackend(k Kind) (Backend, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	b, ok := registry[k]
	return b, ok
}

func init() {
	register(luBackend{})
	register(qrBackend{})
	register(cholBackend{})
	register(ldltBackend{})
	register(svdBackend{})
	register(diagBackend{})
	register(triBackend{})
	register(biBackend{})
	register(sparseLUBackend{})
	register(sparseCholBackend{})
	register(normalCholBackend{})
	register(cgBackend{})
	register(bicgstabBackend{})
}

// newAlgorithm builds a validated Algorithm for kind: registry check first
// (fail fast on unavailable capability), defaults from the backend traits,
// then the caller's options.
func newAlgorithm(kind Kind, opts ...AlgOption) (Algorithm, error) {
	bk, ok := lookupBackend(kind)
	if !ok {
		return Algorithm{}, fmt.Errorf("algorithm %s: %w", kind, ErrBackendUnavailable)
	}
	a := defaultAlgorithmFor(kind, bk.Traits())
	for _, opt := range opts {
		if err := opt(&a); err != nil {
			return Algorithm{}, err
		}
	}
	return a, nil
}

// defaultAlgorithmFor derives the per-kind default configuration from the
// backend's traits.
func defaultAlgorithmFor(kind Kind, tr Traits) Algorithm {
	a := Algorithm{
		kind:          kind,
		reuseSymbolic: tr.Sparse,
		checkPattern:  tr.Sparse,
		aliasA:        tr.AliasA,
		aliasB:        tr.AliasB,
	}
	switch kind {
	case KindLDLT, KindTridiagonal, KindBidiagonal, KindDiagonal:
		a.pivot = PivotNone
	default:
		a.pivot = PivotPartial
	}
	return a
}

// resolvedAlgorithm is the default-path counterpart of newAlgorithm: the
// policy has already picked a registered built-in kind, so no availability
// error can occur (KindExternal is re-checked by the dispatcher).
func resolvedAlgorithm(kind Kind) Algorithm {
	bk, ok := lookupBackend(kind)
	if !ok {
		return Algorithm{kind: kind}
	}
	return defaultAlgorithmFor(kind, bk.Traits())
}

// ---------- Public constructors (the closed algorithm set) ----------

// Default returns the meta-algorithm that resolves per solve through the
// decision table. Always available.
func Default() Algorithm { return Algorithm{kind: KindDefault} }

// LU constructs the dense row-pivoted LU variant.
func LU(opts ...AlgOption) (Algorithm, error) { return newAlgorithm(KindLU, opts...) }

// QR constructs the dense QR variant (least-squares capable).
func QR(opts ...AlgOption) (Algorithm, error) { return newAlgorithm(KindQR, opts...) }

// Cholesky constructs the dense Cholesky variant (SPD input).
func Cholesky(opts ...AlgOption) (Algorithm, error) { return newAlgorithm(KindCholesky, opts...) }

// LDLT constructs the dense unpivoted LDLᵀ variant (symmetric indefinite).
func LDLT(opts ...AlgOption) (Algorithm, error) { return newAlgorithm(KindLDLT, opts...) }

// SVD constructs the dense SVD variant (rank-deficient least squares).
func SVD(opts ...AlgOption) (Algorithm, error) { return newAlgorithm(KindSVD, opts...) }

// DiagonalSolve constructs the diagonal fast-path variant.
func DiagonalSolve(opts ...AlgOption) (Algorithm, error) { return newAlgorithm(KindDiagonal, opts...) }

// TridiagonalLU constructs the Thomas-elimination variant. By default it
// factorizes in the caller's band storage (AliasA).
func TridiagonalLU(opts ...AlgOption) (Algorithm, error) {
	return newAlgorithm(KindTridiagonal, opts...)
}

// BidiagonalSolve constructs the bidiagonal substitution variant.
func BidiagonalSolve(opts ...AlgOption) (Algorithm, error) {
	return newAlgorithm(KindBidiagonal, opts...)
}

// SparseLU constructs the sparse direct LU variant with symbolic-state
// reuse and pattern checking on by default.
func SparseLU(opts ...AlgOption) (Algorithm, error) { return newAlgorithm(KindSparseLU, opts...) }

// SparseCholesky constructs the sparse Cholesky variant: the single
// backend permitted to escalate to LDLᵀ within a call.
func SparseCholesky(opts ...AlgOption) (Algorithm, error) {
	return newAlgorithm(KindSparseCholesky, opts...)
}

// NormalCholesky constructs the normal-equations least-squares variant.
// It declares aliasing of both A and b: the fast path is allowed to work
// directly in caller storage.
func NormalCholesky(opts ...AlgOption) (Algorithm, error) {
	return newAlgorithm(KindNormalCholesky, opts...)
}

// CG constructs the conjugate-gradient variant (SPD systems, matrix-free
// capable, no-op cache).
func CG(opts ...AlgOption) (Algorithm, error) { return newAlgorithm(KindCG, opts...) }

// BiCGStab constructs the stabilized bi-CG variant (general systems,
// matrix-free capable, no-op cache).
func BiCGStab(opts ...AlgOption) (Algorithm, error) { return newAlgorithm(KindBiCGStab, opts...) }

// NewAlgorithm constructs a variant by kind: the entry point for extension
// kinds installed via Register. Fails fast with ErrBackendUnavailable when
// no backend is registered for the kind.
func NewAlgorithm(kind Kind, opts ...AlgOption) (Algorithm, error) {
	if kind == KindDefault {
		return Default(), nil
	}
	return newAlgorithm(kind, opts...)
}

// SPDX-License-Identifier: MIT

// Package solver: functional configuration for the solve context and for
// algorithm construction. This file defines:
//   - Option / options (workspace-level knobs, gathered at Init),
//   - AlgOption (algorithm-level configuration consumed by constructors),
//   - documented defaults (constants, single source of truth).
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - No dead switches: each flag impacts behavior and is covered by tests.
//   - Safe by construction: panic only on nonsensical parameters
//     (programmer error); unavailable backends return errors.

package solver

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

// DEFAULTS - single source of truth for zero-value behavior.
const (
	// DefaultRelTolerance is the relative residual target for iterative
	// backends: |r| < rel·|b|.
	DefaultRelTolerance = 1e-8

	// DefaultAbsTolerance is the absolute floor combined with the relative
	// target; zero disables the floor.
	DefaultAbsTolerance = 0.0

	// DefaultMaxIterations of 0 lets the iterative engine pick its own
	// dimension-scaled budget.
	DefaultMaxIterations = 0
)

// Preconditioner applies an approximate inverse: dst solves M·dst = rhs.
type Preconditioner func(dst, rhs []float64) error

// options is the gathered workspace configuration (unexported fields;
// public APIs consume ...Option).
type options struct {
	logger        *slog.Logger
	maxIterations int
	absTol        float64
	relTol        float64
	precondLeft   Preconditioner
	precondRight  Preconditioner
	assume        Assumptions
}

// Option mutates the workspace configuration at Init time.
type Option func(*options)

// defaultOptions returns the documented defaults with a silent logger.
func defaultOptions() options {
	return options{
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxIterations: DefaultMaxIterations,
		absTol:        DefaultAbsTolerance,
		relTol:        DefaultRelTolerance,
	}
}

// gatherOptions applies opts over the defaults.
func gatherOptions(opts ...Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger injects a structured logger for solve diagnostics.
// Panics on nil (programmer error): pass nothing to stay silent.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("solver: WithLogger(nil)")
	}
	return func(o *options) { o.logger = l }
}

// WithVerbose installs a tint-backed debug logger on os.Stderr, reporting
// dispatch decisions, cache hits and refactorizations per solve.
func WithVerbose() Option {
	return func(o *options) {
		o.logger = slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelDebug}))
	}
}

// WithMaxIterations bounds iterative backends. Panics on negative n.
func WithMaxIterations(n int) Option {
	if n < 0 {
		panic(fmt.Sprintf("solver: WithMaxIterations(%d)", n))
	}
	return func(o *options) { o.maxIterations = n }
}

// WithTolerances sets the absolute and relative residual targets for
// iterative backends. Panics on negative values.
func WithTolerances(abs, rel float64) Option {
	if abs < 0 || rel < 0 {
		panic(fmt.Sprintf("solver: WithTolerances(%g,%g)", abs, rel))
	}
	return func(o *options) { o.absTol, o.relTol = abs, rel }
}

// WithPreconditioner attaches left/right preconditioners for the iterative
// backends; either may be nil. Right preconditioning is applied by operator
// wrapping: the method solves A·Mr⁻¹y = b and the workspace maps y back.
func WithPreconditioner(left, right Preconditioner) Option {
	return func(o *options) { o.precondLeft, o.precondRight = left, right }
}

// WithAssumptions declares operator properties (symmetry, definiteness)
// that backends and the default policy may rely on without runtime checks.
func WithAssumptions(a Assumptions) Option {
	return func(o *options) { o.assume = a }
}

// ---------- Algorithm-level options ----------

// AlgOption configures an Algorithm at construction. Options validate
// against the already-set kind and return ErrBadConfig for combinations the
// kernels cannot honor: configuration errors surface before any solve.
type AlgOption func(*Algorithm) error

// WithPivot selects the pivoting strategy.
// Only combinations a kernel implements are accepted: LU requires
// PivotPartial; LDLᵀ and tridiagonal LU require PivotNone.
func WithPivot(p PivotStrategy) AlgOption {
	return func(a *Algorithm) error {
		switch a.kind {
		case KindLU:
			if p != PivotPartial {
				return fmt.Errorf("WithPivot(%d) on %s: %w", p, a.kind, ErrBadConfig)
			}
		case KindLDLT, KindTridiagonal:
			if p != PivotNone {
				return fmt.Errorf("WithPivot(%d) on %s: %w", p, a.kind, ErrBadConfig)
			}
		default:
			return fmt.Errorf("WithPivot on %s: %w", a.kind, ErrBadConfig)
		}
		a.pivot = p
		return nil
	}
}

// WithSymbolicReuse toggles carrying sparse symbolic state across
// value-only changes. Sparse kinds only.
func WithSymbolicReuse(on bool) AlgOption {
	return func(a *Algorithm) error {
		if !a.sparse() {
			return fmt.Errorf("WithSymbolicReuse on %s: %w", a.kind, ErrBadConfig)
		}
		a.reuseSymbolic = on
		return nil
	}
}

// WithPatternCheck toggles the index-structure comparison before symbolic
// reuse. Disabling it is a caller guarantee that the sparsity pattern never
// changes between solves. Sparse kinds only.
func WithPatternCheck(on bool) AlgOption {
	return func(a *Algorithm) error {
		if !a.sparse() {
			return fmt.Errorf("WithPatternCheck on %s: %w", a.kind, ErrBadConfig)
		}
		a.checkPattern = on
		return nil
	}
}

// WithAlias overrides the backend's default aliasing declarations for the
// caller's matrix and right-hand side storage.
func WithAlias(aliasA, aliasB bool) AlgOption {
	return func(a *Algorithm) error {
		a.aliasA, a.aliasB = aliasA, aliasB
		return nil
	}
}

// sparse reports whether the kind participates in pattern checking.
func (a Algorithm) sparse() bool {
	return a.kind == KindSparseLU || a.kind == KindSparseCholesky
}

// SPDX-License-Identifier: MIT

// Package solver - the dispatch engine.
//
// Workspace is the solve context: it owns the problem, the options, the
// factorization cache and the status machine. One workspace serves one
// independent problem instance; it must not be solved concurrently from
// multiple goroutines.

package solver

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/looplab/fsm"

	"github.com/katalvlaran/linsolve/operand"
)

// Workspace bundles {A, b, guess, cache, freshness} for repeated solves.
type Workspace struct {
	id      uuid.UUID
	log     *slog.Logger
	opt     options
	alg     Algorithm
	a       operand.Operand
	b       []float64
	guess   []float64
	fresh   bool
	caches  map[cacheKey]any
	machine *fsm.FSM
	stats   Stats
}

// Init builds a solve context for p under alg (use Default() to defer
// algorithm choice to the decision table). Configuration and shape problems
// fail here, before any factorization work.
func Init(p Problem, alg Algorithm, opts ...Option) (*Workspace, error) {
	if p.A == nil || len(p.B) == 0 {
		return nil, fmt.Errorf("Init: %w", ErrNilProblem)
	}
	if err := operand.ValidateRHS(p.A, p.B); err != nil {
		return nil, fmt.Errorf("Init: rhs: %w", ErrShapeMismatch)
	}
	if err := operand.ValidateGuess(p.A, p.Guess); err != nil {
		return nil, fmt.Errorf("Init: guess: %w", ErrShapeMismatch)
	}
	if alg.kind != KindDefault {
		if _, ok := lookupBackend(alg.kind); !ok {
			return nil, fmt.Errorf("Init: kind %s: %w", alg.kind, ErrBackendUnavailable)
		}
	}
	o := gatherOptions(opts...)
	ws := &Workspace{
		id:      uuid.New(),
		log:     o.logger,
		opt:     o,
		alg:     alg,
		a:       p.A,
		b:       p.B,
		guess:   p.Guess,
		fresh:   true,
		caches:  make(map[cacheKey]any),
		machine: newSolveFSM(),
	}
	return ws, nil
}

// Solve runs one solve under the freshness contract and returns the
// packaged result. Numerical failures come back as a non-success Status
// plus a matching sentinel error; the cache slot survives them unless the
// failure was structural to the factorization (singular pivot).
func (ws *Workspace) Solve() (Result, error) {
	cat := operand.Classify(ws.a)
	alg := ws.alg
	kind := alg.kind
	if kind == KindDefault {
		kind = resolveDefault(cat, ws.a, ws.opt.assume)
		alg = resolvedAlgorithm(kind)
	}

	bk, ok := lookupBackend(kind)
	if !ok {
		ws.transition(eventFail)
		return Result{Status: StatusInfeasible, Kind: kind},
			fmt.Errorf("Solve: kind %s: %w", kind, ErrBackendUnavailable)
	}
	if res, err := ws.gate(bk.Traits(), cat, kind); err != nil {
		ws.transition(eventFail)
		return res, err
	}

	key := cacheKey{kind: kind, cat: cat}
	cv, hit := ws.caches[key]
	fresh := ws.fresh
	if !hit {
		var err error
		cv, err = bk.InitCache(ws, alg)
		if err != nil {
			ws.transition(eventFail)
			return Result{Status: StatusInfeasible, Kind: kind}, fmt.Errorf("Solve: init: %w", err)
		}
		ws.caches[key] = cv
		fresh = true // a brand-new slot has nothing numeric to reuse
	}
	ws.transition(eventFactorize)
	ws.log.Debug("dispatch",
		slog.String("workspace", ws.id.String()),
		slog.String("kind", kind.String()),
		slog.String("category", cat.String()),
		slog.Bool("fresh", fresh),
		slog.Bool("slot_reused", hit),
	)

	res, err := bk.Solve(ws, alg, cv, fresh)
	res.Kind = kind
	ws.stats.Solves++
	if err != nil {
		ws.transition(eventFail)
		if res.Status == StatusUnknown {
			res.Status = StatusFailure
		}
		if errors.Is(err, ErrSingular) {
			// Structural factorization failure: the slot's contents are
			// unusable, drop it so the next solve rebuilds from scratch.
			delete(ws.caches, key)
		}
		ws.log.Debug("solve failed",
			slog.String("workspace", ws.id.String()),
			slog.String("kind", kind.String()),
			slog.String("status", res.Status.String()),
		)
		return res, fmt.Errorf("Solve: %w", err)
	}

	ws.transition(eventSolve)
	ws.fresh = false
	if res.Status == StatusUnknown {
		res.Status = StatusSuccess
	}
	ws.log.Debug("solved",
		slog.String("workspace", ws.id.String()),
		slog.String("kind", kind.String()),
		slog.Int("iterations", res.Iterations),
	)
	return res, nil
}

// gate applies the dispatch-time structural checks for the chosen backend.
func (ws *Workspace) gate(tr Traits, cat operand.Category, kind Kind) (Result, error) {
	r, c := ws.a.Dims()
	if cat == operand.CatOperator && !tr.OperatorOK {
		return Result{Status: StatusInfeasible, Kind: kind},
			fmt.Errorf("Solve: kind %s on operator: %w", kind, ErrOperatorUnsupported)
	}
	if tr.NeedsSquare && r != c {
		return Result{Status: StatusInfeasible, Kind: kind},
			fmt.Errorf("Solve: %dx%d: %w", r, c, ErrNotSquare)
	}
	if !tr.NeedsSquare && !tr.LeastSquares && r != c && !tr.OperatorOK {
		return Result{Status: StatusInfeasible, Kind: kind},
			fmt.Errorf("Solve: %dx%d: %w", r, c, ErrStructuralMismatch)
	}
	if len(ws.b) != r {
		return Result{Status: StatusInfeasible, Kind: kind},
			fmt.Errorf("Solve: rhs %d for %d rows: %w", len(ws.b), r, ErrShapeMismatch)
	}
	return Result{}, nil
}

// SetA replaces the matrix and marks the workspace fresh: the next solve
// re-derives (or refreshes) numerically-dependent state. Cached slots are
// kept: the pattern/category checks decide reuse, not SetA.
func (ws *Workspace) SetA(a operand.Operand) error {
	if a == nil {
		return fmt.Errorf("SetA: %w", ErrNilProblem)
	}
	ws.a = a
	ws.fresh = true
	return nil
}

// SetB replaces the right-hand side. Factorizations do not depend on b, so
// freshness is untouched and cached state keeps being reused.
func (ws *Workspace) SetB(b []float64) error {
	if err := operand.ValidateRHS(ws.a, b); err != nil {
		return fmt.Errorf("SetB: %w", ErrShapeMismatch)
	}
	ws.b = b
	return nil
}

// SetGuess replaces the initial guess for iterative backends.
func (ws *Workspace) SetGuess(u []float64) error {
	if err := operand.ValidateGuess(ws.a, u); err != nil {
		return fmt.Errorf("SetGuess: %w", ErrShapeMismatch)
	}
	ws.guess = u
	return nil
}

// MarkFresh flags in-place value mutation of the current operand (e.g.,
// writing through CSC.Values()) so the next solve refactors instead of
// reusing stale numeric state.
func (ws *Workspace) MarkFresh() { ws.fresh = true }

// A returns the current operand.
func (ws *Workspace) A() operand.Operand { return ws.a }

// B returns the current right-hand side.
func (ws *Workspace) B() []float64 { return ws.b }

// Guess returns the current initial guess (nil when unset).
func (ws *Workspace) Guess() []float64 { return ws.guess }

// ID returns the workspace identity used in logs and diagnostics.
func (ws *Workspace) ID() uuid.UUID { return ws.id }

// Stats returns a copy of the work counters.
func (ws *Workspace) Stats() Stats { return ws.stats }

// ---------- counters (backends report work through these) ----------

func (ws *Workspace) noteFactorization() {
	ws.stats.Factorizations++
	ws.log.Debug("factorize", slog.String("workspace", ws.id.String()))
}

func (ws *Workspace) noteCacheHit() {
	ws.stats.CacheHits++
	ws.log.Debug("cache hit", slog.String("workspace", ws.id.String()))
}

func (ws *Workspace) notePatternRebuild() {
	ws.stats.PatternRebuilds++
	ws.log.Debug("pattern rebuild", slog.String("workspace", ws.id.String()))
}

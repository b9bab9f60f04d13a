// SPDX-License-Identifier: MIT

// Package solver - banded fast-path backends.
//
// Diagonal and bidiagonal solves are O(n) substitutions with nothing worth
// caching; the tridiagonal backend runs unpivoted Thomas elimination and
// caches its LU factors. Tridiagonal is the one backend that factorizes in
// the caller's band storage by default (alias_A=true): configure the
// algorithm with WithAlias(false, false) to keep the caller's bands intact.

package solver

import (
	"fmt"

	"github.com/katalvlaran/linsolve/operand"
)

// ---------- diagonal ----------

type diagCache struct{}

type diagBackend struct{}

func (diagBackend) Kind() Kind { return KindDiagonal }

func (diagBackend) Traits() Traits { return Traits{NeedsSquare: true} }

func (diagBackend) InitCache(*Workspace, Algorithm) (any, error) { return diagCache{}, nil }

func (diagBackend) Solve(ws *Workspace, _ Algorithm, _ any, _ bool) (Result, error) {
	d, ok := ws.a.(*operand.Diagonal)
	if !ok {
		return Result{Status: StatusInfeasible}, fmt.Errorf("diagonal: %w", ErrStructuralMismatch)
	}
	diag := d.Diag()
	u := make([]float64, len(diag))
	for i, v := range diag {
		if v == 0 {
			return Result{Status: StatusFailure}, fmt.Errorf("diagonal: zero at %d: %w", i, ErrSingular)
		}
		u[i] = ws.b[i] / v
	}
	return Result{U: u, Status: StatusSuccess}, nil
}

// ---------- tridiagonal (Thomas elimination) ----------

// triCache holds the tridiagonal LU factors: l (sub multipliers), d (pivot
// diagonal), c (super band). With aliasing enabled these slices point into
// the caller's Tridiagonal storage.
type triCache struct {
	l, d, c    []float64
	factorized bool
}

type triBackend struct{}

func (triBackend) Kind() Kind { return KindTridiagonal }

func (triBackend) Traits() Traits { return Traits{NeedsSquare: true, AliasA: true} }

func (triBackend) InitCache(*Workspace, Algorithm) (any, error) { return &triCache{}, nil }

func (triBackend) Solve(ws *Workspace, alg Algorithm, cache any, fresh bool) (Result, error) {
	c := cache.(*triCache)
	t, ok := ws.a.(*operand.Tridiagonal)
	if !ok {
		return Result{Status: StatusInfeasible}, fmt.Errorf("tridiagonal: %w", ErrStructuralMismatch)
	}

	if fresh || !c.factorized {
		sub, main, super := t.Bands()
		if alg.AliasA() {
			// Factor directly in the caller's band storage.
			c.l, c.d, c.c = sub, main, super
		} else {
			c.l = append(c.l[:0], sub...)
			c.d = append(c.d[:0], main...)
			c.c = append(c.c[:0], super...)
		}
		if err := factorTridiag(c.l, c.d, c.c); err != nil {
			c.factorized = false
			return Result{Status: StatusFailure}, err
		}
		c.factorized = true
		ws.noteFactorization()
	} else {
		ws.noteCacheHit()
	}

	n := len(c.d)
	u := make([]float64, n)
	// Forward sweep L·y = b, then back substitution U·u = y.
	u[0] = ws.b[0]
	for i := 1; i < n; i++ {
		u[i] = ws.b[i] - c.l[i-1]*u[i-1]
	}
	u[n-1] /= c.d[n-1]
	for i := n - 2; i >= 0; i-- {
		u[i] = (u[i] - c.c[i]*u[i+1]) / c.d[i]
	}
	return Result{U: u, Status: StatusSuccess}, nil
}

// factorTridiag overwrites (l, d) with the unpivoted LU factors of the
// tridiagonal matrix (l, d, c): l becomes the elimination multipliers, d
// the pivot diagonal. A zero pivot is ErrSingular: no reordering.
func factorTridiag(l, d, c []float64) error {
	n := len(d)
	if d[0] == 0 {
		return fmt.Errorf("tridiagonal: pivot 0: %w", ErrSingular)
	}
	for i := 1; i < n; i++ {
		l[i-1] /= d[i-1]
		d[i] -= l[i-1] * c[i-1]
		if d[i] == 0 {
			return fmt.Errorf("tridiagonal: pivot %d: %w", i, ErrSingular)
		}
	}
	return nil
}

// ---------- bidiagonal ----------

type biCache struct{}

type biBackend struct{}

func (biBackend) Kind() Kind { return KindBidiagonal }

func (biBackend) Traits() Traits { return Traits{NeedsSquare: true} }

func (biBackend) InitCache(*Workspace, Algorithm) (any, error) { return biCache{}, nil }

func (biBackend) Solve(ws *Workspace, _ Algorithm, _ any, _ bool) (Result, error) {
	bd, ok := ws.a.(*operand.Bidiagonal)
	if !ok {
		return Result{Status: StatusInfeasible}, fmt.Errorf("bidiagonal: %w", ErrStructuralMismatch)
	}
	main, off := bd.Bands()
	n := len(main)
	u := make([]float64, n)

	if bd.Upper() {
		for i := n - 1; i >= 0; i-- {
			if main[i] == 0 {
				return Result{Status: StatusFailure}, fmt.Errorf("bidiagonal: pivot %d: %w", i, ErrSingular)
			}
			s := ws.b[i]
			if i < n-1 {
				s -= off[i] * u[i+1]
			}
			u[i] = s / main[i]
		}
	} else {
		for i := 0; i < n; i++ {
			if main[i] == 0 {
				return Result{Status: StatusFailure}, fmt.Errorf("bidiagonal: pivot %d: %w", i, ErrSingular)
			}
			s := ws.b[i]
			if i > 0 {
				s -= off[i-1] * u[i-1]
			}
			u[i] = s / main[i]
		}
	}
	return Result{U: u, Status: StatusSuccess}, nil
}

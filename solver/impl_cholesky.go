// SPDX-License-Identifier: MIT

// Package solver - dense Cholesky backend (symmetric positive definite).
//
// Kernel: gonum mat.Cholesky. Loss of positive definiteness is a numerical
// failure surfaced to the caller: this backend never degrades to another
// factorization (the only permitted escalation lives in the sparse
// Cholesky backend).

package solver

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

type denseCholCache struct {
	chol       mat.Cholesky
	buf        []float64 // reusable symmetrized storage
	factorized bool
}

type cholBackend struct{}

func (cholBackend) Kind() Kind { return KindCholesky }

func (cholBackend) Traits() Traits { return Traits{NeedsSquare: true} }

func (cholBackend) InitCache(*Workspace, Algorithm) (any, error) {
	return &denseCholCache{}, nil
}

func (cholBackend) Solve(ws *Workspace, _ Algorithm, cache any, fresh bool) (Result, error) {
	c := cache.(*denseCholCache)
	n, _ := ws.a.Dims()

	if fresh || !c.factorized {
		sym, err := symView(ws.a, &c.buf)
		if err != nil {
			return Result{Status: StatusInfeasible}, err
		}
		if ok := c.chol.Factorize(sym); !ok {
			c.factorized = false
			return Result{Status: StatusFailure}, fmt.Errorf("cholesky: %w", ErrNotPositiveDefinite)
		}
		c.factorized = true
		ws.noteFactorization()
	} else {
		ws.noteCacheHit()
	}

	u := make([]float64, n)
	if err := c.chol.SolveVecTo(mat.NewVecDense(n, u), mat.NewVecDense(n, ws.b)); err != nil {
		c.factorized = false
		return Result{Status: StatusFailure}, fmt.Errorf("cholesky: %w", ErrSingular)
	}
	return Result{U: u, Status: StatusSuccess, CondEstimate: c.chol.Cond()}, nil
}

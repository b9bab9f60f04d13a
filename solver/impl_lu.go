// SPDX-License-Identifier: MIT

// Package solver - dense LU backend (partial pivoting).
//
// The factorization kernel is gonum's mat.LU, treated as an opaque
// capability provider; this adapter owns only the reuse/refactor protocol.
// It also serves the generic-fallback category: unknown entry-accessible
// representations are densified into the slot's work buffer first.

package solver

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/linsolve/operand"
)

// denseLUCache is the LU slot: the factorization object plus an optional
// densification buffer for non-Dense operands.
type denseLUCache struct {
	lu         mat.LU
	work       *operand.Dense
	factorized bool
}

type luBackend struct{}

func (luBackend) Kind() Kind { return KindLU }

func (luBackend) Traits() Traits { return Traits{NeedsSquare: true} }

// InitCache hands out the process-wide preallocated shell on the first
// default-configured miss; every later miss allocates.
func (luBackend) InitCache(_ *Workspace, alg Algorithm) (any, error) {
	if isDefaultConfig(alg) {
		if c := claimPreallocDense(); c != nil {
			return c, nil
		}
	}
	return &denseLUCache{}, nil
}

func (luBackend) Solve(ws *Workspace, _ Algorithm, cache any, fresh bool) (Result, error) {
	c := cache.(*denseLUCache)
	n, _ := ws.a.Dims()

	if fresh || !c.factorized {
		m, err := denseView(ws.a, &c.work)
		if err != nil {
			return Result{Status: StatusInfeasible}, err
		}
		c.lu.Factorize(m)
		c.factorized = true
		ws.noteFactorization()
	} else {
		ws.noteCacheHit()
	}

	u := make([]float64, n)
	if err := c.lu.SolveVecTo(mat.NewVecDense(n, u), false, mat.NewVecDense(n, ws.b)); err != nil {
		c.factorized = false
		return Result{Status: StatusFailure}, fmt.Errorf("lu: %w", ErrSingular)
	}
	return Result{U: u, Status: StatusSuccess}, nil
}

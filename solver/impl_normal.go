// SPDX-License-Identifier: MIT

// Package solver - least squares via the normal equations.
//
// Forms G = AᵀA and solves G·u = Aᵀb through a dense Cholesky. Fast and
// cache-friendly for tall well-conditioned systems, but the Gram product
// squares the condition number: callers who care about conditioning pick QR
// or SVD instead. Because A and b are consumed only through products, this
// backend declares alias_A and alias_B by default.

package solver

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/linsolve/operand"
)

type normalCholCache struct {
	chol       mat.Cholesky
	gram       []float64 // n×n AᵀA storage
	atb        []float64 // Aᵀb, recomputed per solve (b changes do not refresh)
	work       *operand.Dense
	factorized bool
}

type normalCholBackend struct{}

func (normalCholBackend) Kind() Kind { return KindNormalCholesky }

func (normalCholBackend) Traits() Traits {
	return Traits{LeastSquares: true, AliasA: true, AliasB: true}
}

func (normalCholBackend) InitCache(*Workspace, Algorithm) (any, error) {
	return &normalCholCache{}, nil
}

func (normalCholBackend) Solve(ws *Workspace, _ Algorithm, cache any, fresh bool) (Result, error) {
	c := cache.(*normalCholCache)
	r, n := ws.a.Dims()
	if r < n {
		return Result{Status: StatusInfeasible},
			fmt.Errorf("normal equations: %dx%d underdetermined: %w", r, n, ErrStructuralMismatch)
	}
	m, err := denseView(ws.a, &c.work)
	if err != nil {
		return Result{Status: StatusInfeasible}, err
	}

	if fresh || !c.factorized {
		if len(c.gram) != n*n {
			c.gram = make([]float64, n*n)
		}
		var g mat.Dense
		g.Mul(m.T(), m)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				c.gram[i*n+j] = g.At(i, j)
			}
		}
		if ok := c.chol.Factorize(mat.NewSymDense(n, c.gram)); !ok {
			c.factorized = false
			return Result{Status: StatusFailure},
				fmt.Errorf("normal equations: %w", ErrNotPositiveDefinite)
		}
		c.factorized = true
		ws.noteFactorization()
	} else {
		ws.noteCacheHit()
	}

	// Aᵀb is cheap and depends on b, which may change without a freshness
	// signal; always rebuild it.
	if len(c.atb) != n {
		c.atb = make([]float64, n)
	}
	bv := mat.NewVecDense(r, ws.b)
	atb := mat.NewVecDense(n, c.atb)
	atb.MulVec(m.T(), bv)

	u := make([]float64, n)
	if err := c.chol.SolveVecTo(mat.NewVecDense(n, u), atb); err != nil {
		c.factorized = false
		return Result{Status: StatusFailure}, fmt.Errorf("normal equations: %w", ErrSingular)
	}
	return Result{U: u, Status: StatusSuccess, CondEstimate: c.chol.Cond()}, nil
}

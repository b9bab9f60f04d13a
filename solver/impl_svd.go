// SPDX-License-Identifier: MIT

// Package solver - dense SVD backend (rank-revealing least squares).
//
// Kernel: gonum mat.SVD (thin). The pseudo-inverse application
// x = V·Σ⁺·Uᵀ·b drops singular values below a relative cutoff, so
// rank-deficient and underdetermined systems still produce the minimum-norm
// least-squares solution.

package solver

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/linsolve/operand"
)

// svdRcondRel scales the largest singular value into the rank cutoff.
const svdRcondRel = 1e-12

type denseSVDCache struct {
	svd        mat.SVD
	u, v       mat.Dense
	s          []float64
	work       *operand.Dense
	factorized bool
}

type svdBackend struct{}

func (svdBackend) Kind() Kind { return KindSVD }

func (svdBackend) Traits() Traits { return Traits{LeastSquares: true} }

func (svdBackend) InitCache(*Workspace, Algorithm) (any, error) {
	return &denseSVDCache{}, nil
}

func (svdBackend) Solve(ws *Workspace, _ Algorithm, cache any, fresh bool) (Result, error) {
	c := cache.(*denseSVDCache)
	r, n := ws.a.Dims()

	if fresh || !c.factorized {
		m, err := denseView(ws.a, &c.work)
		if err != nil {
			return Result{Status: StatusInfeasible}, err
		}
		if ok := c.svd.Factorize(m, mat.SVDThin); !ok {
			c.factorized = false
			return Result{Status: StatusFailure}, fmt.Errorf("svd: %w", ErrNonConvergence)
		}
		c.svd.UTo(&c.u)
		c.svd.VTo(&c.v)
		if k := min(r, n); len(c.s) != k {
			c.s = make([]float64, k)
		}
		c.svd.Values(c.s)
		c.factorized = true
		ws.noteFactorization()
	} else {
		ws.noteCacheHit()
	}

	k := len(c.s)
	cutoff := svdRcondRel * c.s[0]
	smin := 0.0

	// tmp = Σ⁺·Uᵀ·b over the retained spectrum.
	tmp := make([]float64, k)
	for i := 0; i < k; i++ {
		if c.s[i] <= cutoff {
			continue // below numerical rank
		}
		var dot float64
		for row := 0; row < r; row++ {
			dot += c.u.At(row, i) * ws.b[row]
		}
		tmp[i] = dot / c.s[i]
		smin = c.s[i]
	}

	u := make([]float64, n)
	for row := 0; row < n; row++ {
		var sum float64
		for i := 0; i < k; i++ {
			sum += c.v.At(row, i) * tmp[i]
		}
		u[row] = sum
	}

	var cond float64
	if smin > 0 {
		cond = c.s[0] / smin
	}
	return Result{U: u, Status: StatusSuccess, CondEstimate: cond}, nil
}

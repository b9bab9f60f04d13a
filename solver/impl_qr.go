// SPDX-License-Identifier: MIT

// Package solver - dense QR backend (least-squares capable).
// Kernel: gonum mat.QR. Requires m >= n; overdetermined systems get the
// least-squares solution.

package solver

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/linsolve/operand"
)

type denseQRCache struct {
	qr         mat.QR
	work       *operand.Dense
	factorized bool
}

type qrBackend struct{}

func (qrBackend) Kind() Kind { return KindQR }

func (qrBackend) Traits() Traits { return Traits{LeastSquares: true} }

func (qrBackend) InitCache(*Workspace, Algorithm) (any, error) {
	return &denseQRCache{}, nil
}

func (qrBackend) Solve(ws *Workspace, _ Algorithm, cache any, fresh bool) (Result, error) {
	c := cache.(*denseQRCache)
	r, n := ws.a.Dims()
	if r < n {
		// Underdetermined systems go to SVD; the QR kernel wants m >= n.
		return Result{Status: StatusInfeasible},
			fmt.Errorf("qr: %dx%d underdetermined: %w", r, n, ErrStructuralMismatch)
	}

	if fresh || !c.factorized {
		m, err := denseView(ws.a, &c.work)
		if err != nil {
			return Result{Status: StatusInfeasible}, err
		}
		c.qr.Factorize(m)
		c.factorized = true
		ws.noteFactorization()
	} else {
		ws.noteCacheHit()
	}

	u := make([]float64, n)
	if err := c.qr.SolveVecTo(mat.NewVecDense(n, u), false, mat.NewVecDense(r, ws.b)); err != nil {
		c.factorized = false
		return Result{Status: StatusFailure}, fmt.Errorf("qr: %w", ErrSingular)
	}
	return Result{U: u, Status: StatusSuccess}, nil
}

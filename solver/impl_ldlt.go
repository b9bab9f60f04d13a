// SPDX-License-Identifier: MIT

// Package solver - dense LDLᵀ backend and kernel.
//
// Symmetric-indefinite factorization A = L·D·Lᵀ with unit-lower L and
// diagonal D, run unpivoted: a vanishing pivot is reported as ErrSingular
// rather than repaired by reordering. The kernel is in-package because the
// dense capability provider exposes no symmetric-indefinite factorization.

package solver

import (
	"fmt"
	"math"

	"github.com/katalvlaran/linsolve/operand"
)

// ldltPivotRel scales the largest diagonal magnitude into the minimum
// acceptable pivot.
const ldltPivotRel = 1e-13

type denseLDLTCache struct {
	l          []float64 // n×n, strictly lower factors (unit diagonal implied)
	d          []float64 // n, the diagonal of D
	n          int
	buf        []float64 // symmetrized source values
	factorized bool
}

type ldltBackend struct{}

func (ldltBackend) Kind() Kind { return KindLDLT }

func (ldltBackend) Traits() Traits { return Traits{NeedsSquare: true} }

func (ldltBackend) InitCache(*Workspace, Algorithm) (any, error) {
	return &denseLDLTCache{}, nil
}

func (ldltBackend) Solve(ws *Workspace, _ Algorithm, cache any, fresh bool) (Result, error) {
	c := cache.(*denseLDLTCache)
	n, _ := ws.a.Dims()

	if fresh || !c.factorized {
		if _, err := symView(ws.a, &c.buf); err != nil {
			return Result{Status: StatusInfeasible}, err
		}
		if c.n != n {
			c.l = make([]float64, n*n)
			c.d = make([]float64, n)
			c.n = n
		}
		if err := factorLDLT(c.buf, c.l, c.d, n); err != nil {
			c.factorized = false
			return Result{Status: StatusFailure}, err
		}
		c.factorized = true
		ws.noteFactorization()
	} else {
		ws.noteCacheHit()
	}

	u := make([]float64, n)
	solveLDLT(c.l, c.d, ws.b, u, n)
	return Result{U: u, Status: StatusSuccess}, nil
}

// factorLDLT computes the unpivoted LDLᵀ factors of the symmetric matrix
// stored row-major in a (full storage, both triangles populated).
// Fixed j→i loop order; O(n³/3) flops. Returns ErrSingular on a pivot
// below the relative threshold.
func factorLDLT(a, l, d []float64, n int) error {
	var scale float64
	for i := 0; i < n; i++ {
		if v := math.Abs(a[i*n+i]); v > scale {
			scale = v
		}
	}
	if scale == 0 {
		scale = 1
	}
	tol := ldltPivotRel * scale

	for j := 0; j < n; j++ {
		sum := a[j*n+j]
		for k := 0; k < j; k++ {
			sum -= l[j*n+k] * l[j*n+k] * d[k]
		}
		d[j] = sum
		if math.Abs(sum) <= tol {
			return fmt.Errorf("ldlt: pivot %d = %.3e: %w", j, sum, ErrSingular)
		}
		for i := j + 1; i < n; i++ {
			s := a[i*n+j]
			for k := 0; k < j; k++ {
				s -= l[i*n+k] * l[j*n+k] * d[k]
			}
			l[i*n+j] = s / d[j]
		}
	}
	return nil
}

// solveLDLT performs the three substitution sweeps L·z = b, D·y = z,
// Lᵀ·u = y. O(n²).
func solveLDLT(l, d, b, u []float64, n int) {
	for i := 0; i < n; i++ {
		s := b[i]
		for k := 0; k < i; k++ {
			s -= l[i*n+k] * u[k]
		}
		u[i] = s
	}
	for i := 0; i < n; i++ {
		u[i] /= d[i]
	}
	for i := n - 1; i >= 0; i-- {
		s := u[i]
		for k := i + 1; k < n; k++ {
			s -= l[k*n+i] * u[k]
		}
		u[i] = s
	}
}

// ensure the kernel's source view matches what symView produces.
var _ operand.EntryAccessor = (*operand.SymDense)(nil)

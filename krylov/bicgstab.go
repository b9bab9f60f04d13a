// SPDX-License-Identifier: MIT

package krylov

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// BiCGStab implements the BiConjugate Gradient Stabilized method with
// preconditioning for solving Ax = b where A is non-symmetric. For
// symmetric positive-definite systems use CG.
//
// BiCGStab requests MatVec and PSolve operations only.
type BiCGStab struct {
	first        bool
	rho, rhoPrev float64
	alpha        float64
	omega        float64
	resume       int
}

// Init implements the Method interface.
func (bicg *BiCGStab) Init(dim int) int {
	bicg.first = true
	bicg.resume = 1
	return 7
}

// Iterate implements the Method interface.
func (bicg *BiCGStab) Iterate(ctx *Context) (Operation, error) {
	const (
		ri = iota // doubles as s_i after the half-step update
		rti
		pi
		vi
		ti
		phati
		shati
	)
	r, rt := ctx.Vectors[ri], ctx.Vectors[rti]
	switch bicg.resume {
	case 1:
		if bicg.first {
			copy(r, ctx.Residual)
			copy(rt, r) // r̃ = r_0, fixed shadow residual
		}
		bicg.rho = floats.Dot(rt, r) // ρ_i = r̃·r_{i-1}
		if bicg.rho == 0 {
			return NoOperation, fmt.Errorf("BiCGStab: rho = 0: %w", ErrBreakdown)
		}
		p := ctx.Vectors[pi]
		if bicg.first {
			copy(p, r) // p_1 = r_0
		} else {
			beta := (bicg.rho / bicg.rhoPrev) * (bicg.alpha / bicg.omega)
			floats.AddScaled(p, -bicg.omega, ctx.Vectors[vi]) // p - ω·v
			floats.Scale(beta, p)                             // β·(p - ω·v)
			floats.Add(p, r)                                  // p_i = r + β·(p - ω·v)
		}
		ctx.Src, ctx.Dst = pi, phati
		bicg.resume = 2
		return PSolve, nil // solve M·p̂ = p_i

	case 2:
		ctx.Src, ctx.Dst = phati, vi
		bicg.resume = 3
		return MatVec, nil // v_i = A·p̂

	case 3:
		den := floats.Dot(rt, ctx.Vectors[vi])
		if den == 0 {
			return NoOperation, fmt.Errorf("BiCGStab: r̃·v = 0: %w", ErrBreakdown)
		}
		bicg.alpha = bicg.rho / den
		// s = r_{i-1} - α·v_i, stored in r's slot.
		floats.AddScaled(r, -bicg.alpha, ctx.Vectors[vi])
		ctx.Src, ctx.Dst = ri, shati
		bicg.resume = 4
		return PSolve, nil // solve M·ŝ = s

	case 4:
		ctx.Src, ctx.Dst = shati, ti
		bicg.resume = 5
		return MatVec, nil // t = A·ŝ

	case 5:
		s, tv := r, ctx.Vectors[ti]
		tt := floats.Dot(tv, tv)
		if tt == 0 {
			return NoOperation, fmt.Errorf("BiCGStab: t·t = 0: %w", ErrBreakdown)
		}
		bicg.omega = floats.Dot(tv, s) / tt
		floats.AddScaled(ctx.X, bicg.alpha, ctx.Vectors[phati]) // x += α·p̂
		floats.AddScaled(ctx.X, bicg.omega, ctx.Vectors[shati]) // x += ω·ŝ
		floats.AddScaled(s, -bicg.omega, tv)                    // r_i = s - ω·t

		copy(ctx.Residual, r)
		ctx.Src, ctx.Dst = -1, -1
		ctx.Converged = false
		bicg.resume = 6
		return CheckResidual, nil

	case 6:
		if ctx.Converged {
			bicg.resume = 0
			return EndIteration, nil
		}
		if bicg.omega == 0 {
			return NoOperation, fmt.Errorf("BiCGStab: omega = 0: %w", ErrBreakdown)
		}
		bicg.rhoPrev = bicg.rho
		bicg.first = false
		bicg.resume = 1
		return EndIteration, nil

	default:
		panic("krylov: BiCGStab.Init not called")
	}
}

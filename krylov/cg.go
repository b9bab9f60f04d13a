// SPDX-License-Identifier: MIT

package krylov

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// CG implements the preconditioned conjugate gradient method for symmetric
// positive-definite systems. For general systems use BiCGStab.
//
// CG requests MatVec and PSolve operations only.
type CG struct {
	first        bool
	rho, rhoPrev float64
	resume       int
}

// Init implements the Method interface.
func (cg *CG) Init(dim int) int {
	cg.first = true
	cg.resume = 1
	return 4
}

// Iterate implements the Method interface.
func (cg *CG) Iterate(ctx *Context) (Operation, error) {
	const (
		ri = iota
		zi
		pi
		Api
	)
	r := ctx.Vectors[ri]
	switch cg.resume {
	case 1:
		if cg.first {
			copy(r, ctx.Residual)
		}
		ctx.Src, ctx.Dst = ri, zi
		cg.resume = 2
		return PSolve, nil // solve M·z = r_{i-1}

	case 2:
		z, p := ctx.Vectors[zi], ctx.Vectors[pi]
		cg.rho = floats.Dot(r, z) // ρ_i = r_{i-1}·z
		if !cg.first {
			beta := cg.rho / cg.rhoPrev
			floats.AddScaled(z, beta, p) // z = z + β·p_{i-1}
		}
		copy(p, z) // p_i = z

		ctx.Src, ctx.Dst = pi, Api
		cg.resume = 3
		return MatVec, nil // compute A·p_i

	case 3:
		p, Ap := ctx.Vectors[pi], ctx.Vectors[Api]
		den := floats.Dot(p, Ap)
		if den == 0 {
			return NoOperation, fmt.Errorf("CG: p·Ap = 0: %w", ErrBreakdown)
		}
		alpha := cg.rho / den
		floats.AddScaled(r, -alpha, Ap)   // r_i = r_{i-1} - α·Ap_i
		floats.AddScaled(ctx.X, alpha, p) // x_i = x_{i-1} + α·p_i

		copy(ctx.Residual, r)
		ctx.Src, ctx.Dst = -1, -1
		ctx.Converged = false
		cg.resume = 4
		return CheckResidual, nil

	case 4:
		if ctx.Converged {
			cg.resume = 0
			return EndIteration, nil
		}
		cg.rhoPrev = cg.rho
		cg.first = false
		cg.resume = 1
		return EndIteration, nil

	default:
		panic("krylov: CG.Init not called")
	}
}

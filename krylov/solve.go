// SPDX-License-Identifier: MIT

package krylov

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"
)

// Solve runs method on the system described by a and b.
//
// The driver owns all vector storage and performs every operation the
// method requests. The final iterate is returned even on error, so callers
// can inspect the best available approximation after ErrIterationLimit.
func Solve(a Ops, b []float64, method Method, settings Settings) (Result, error) {
	stats := Stats{StartTime: time.Now()}
	dim := len(b)

	switch {
	case dim == 0:
		return Result{Stats: stats}, fmt.Errorf("zero dimension: %w", ErrBadSystem)
	case a.MatVec == nil:
		return Result{Stats: stats}, fmt.Errorf("nil MatVec: %w", ErrBadSystem)
	case settings.X0 != nil && len(settings.X0) != dim:
		return Result{Stats: stats}, fmt.Errorf("guess length %d != %d: %w", len(settings.X0), dim, ErrBadSystem)
	case method == nil:
		return Result{Stats: stats}, fmt.Errorf("nil method: %w", ErrBadSystem)
	}
	defaultSettings(&settings, dim)

	ctx := &Context{
		X:        make([]float64, dim),
		Residual: make([]float64, dim),
	}
	if settings.X0 != nil {
		copy(ctx.X, settings.X0)
		a.MatVec(ctx.Residual, ctx.X)
		stats.MatVec++
		floats.AddScaledTo(ctx.Residual, b, -1, ctx.Residual) // r = b - A·x0
	} else {
		copy(ctx.Residual, b) // x0 = 0 ⇒ r = b
	}

	bnorm := floats.Norm(b, 2)
	if bnorm == 0 {
		bnorm = 1
	}
	stats.Residual = floats.Norm(ctx.Residual, 2)

	var err error
	if stats.Residual >= settings.Tolerance*bnorm {
		err = iterate(a, ctx, settings, method, &stats, bnorm)
	}

	stats.Runtime = time.Since(stats.StartTime)
	return Result{X: ctx.X, Stats: stats}, err
}

// iterate drives the method's reactive loop until convergence, budget
// exhaustion, or breakdown.
func iterate(a Ops, ctx *Context, settings Settings, method Method, stats *Stats, bnorm float64) error {
	dim := len(ctx.X)
	nvec := method.Init(dim)
	ctx.Vectors = make([][]float64, nvec)
	for i := range ctx.Vectors {
		ctx.Vectors[i] = make([]float64, dim)
	}

	for {
		op, err := method.Iterate(ctx)
		if err != nil {
			return err
		}
		switch op {
		case NoOperation:

		case MatVec:
			a.MatVec(ctx.Vectors[ctx.Dst], ctx.Vectors[ctx.Src])
			stats.MatVec++

		case MatTransVec:
			if a.MatTransVec == nil {
				return fmt.Errorf("method requested MatTransVec: %w", ErrBadSystem)
			}
			a.MatTransVec(ctx.Vectors[ctx.Dst], ctx.Vectors[ctx.Src])
			stats.MatVec++

		case PSolve:
			if err = applyPSolve(settings.PSolve, ctx); err != nil {
				return err
			}
			stats.PSolve++

		case PSolveTrans:
			if err = applyPSolve(settings.PSolveTrans, ctx); err != nil {
				return err
			}
			stats.PSolve++

		case CheckResidual:
			stats.Residual = floats.Norm(ctx.Residual, 2)
			ctx.Converged = stats.Residual < settings.Tolerance*bnorm

		case EndIteration:
			stats.Iterations++
			if ctx.Converged {
				return nil
			}
			if stats.Iterations >= settings.MaxIterations {
				return fmt.Errorf("after %d iterations (residual %.3e): %w",
					stats.Iterations, stats.Residual, ErrIterationLimit)
			}

		default:
			panic(fmt.Sprintf("krylov: unknown operation %b", op))
		}
	}
}

// applyPSolve runs the preconditioner, falling back to the identity.
func applyPSolve(psolve func(dst, rhs []float64) error, ctx *Context) error {
	dst, src := ctx.Vectors[ctx.Dst], ctx.Vectors[ctx.Src]
	if psolve == nil {
		copy(dst, src)
		return nil
	}
	return psolve(dst, src)
}

// defaultSettings fills zero-valued knobs from the package defaults.
func defaultSettings(s *Settings, dim int) {
	if s.Tolerance == 0 {
		s.Tolerance = DefaultTolerance
	}
	if s.MaxIterations == 0 {
		s.MaxIterations = defaultIterationFactor * dim
	}
}

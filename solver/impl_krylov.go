// SPDX-License-Identifier: MIT

// Package solver - iterative backends (CG, BiCGStab).
//
// Both backends are matrix-free: the operand is consumed through its Apply
// capability only, so they accept operator-category operands that no direct
// backend can touch. There is no factorization to cache: the slot is a
// no-op marker and the freshness bit is irrelevant.
//
// Preconditioning: the workspace's left preconditioner maps onto the
// method's PSolve hook. A right preconditioner Mr is applied by operator
// wrapping: the method solves A·Mr⁻¹·y = r₀ for the correction and the
// backend maps u = u₀ + Mr⁻¹·y afterwards.

package solver

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/linsolve/krylov"
	"github.com/katalvlaran/linsolve/operand"
)

type krylovCache struct{}

type cgBackend struct{}

func (cgBackend) Kind() Kind { return KindCG }

func (cgBackend) Traits() Traits { return Traits{NeedsSquare: true, OperatorOK: true} }

func (cgBackend) InitCache(*Workspace, Algorithm) (any, error) { return krylovCache{}, nil }

func (cgBackend) Solve(ws *Workspace, _ Algorithm, _ any, _ bool) (Result, error) {
	return runKrylov(ws, &krylov.CG{})
}

type bicgstabBackend struct{}

func (bicgstabBackend) Kind() Kind { return KindBiCGStab }

func (bicgstabBackend) Traits() Traits { return Traits{NeedsSquare: true, OperatorOK: true} }

func (bicgstabBackend) InitCache(*Workspace, Algorithm) (any, error) { return krylovCache{}, nil }

func (bicgstabBackend) Solve(ws *Workspace, _ Algorithm, _ any, _ bool) (Result, error) {
	return runKrylov(ws, &krylov.BiCGStab{})
}

// runKrylov adapts the workspace configuration to the iterative engine and
// maps its outcome back into the solver's status taxonomy.
func runKrylov(ws *Workspace, method krylov.Method) (Result, error) {
	va, err := applier(ws.a)
	if err != nil {
		return Result{Status: StatusInfeasible}, err
	}
	n, _ := ws.a.Dims()

	// Apply errors cannot be threaded through the engine's MatVec signature;
	// record the first one and fail the solve afterwards.
	var applyErr error
	matvec := func(dst, x []float64) {
		if e := va.Apply(dst, x); e != nil && applyErr == nil {
			applyErr = e
		}
	}

	pr := ws.opt.precondRight
	var scratch []float64
	ops := krylov.Ops{MatVec: matvec}
	if pr != nil {
		scratch = make([]float64, n)
		ops.MatVec = func(dst, x []float64) {
			if e := pr(scratch, x); e != nil && applyErr == nil {
				applyErr = e
			}
			matvec(dst, scratch)
		}
	}
	if ta, ok := ws.a.(interface{ ApplyTranspose(dst, x []float64) error }); ok {
		ops.MatTransVec = func(dst, x []float64) {
			if e := ta.ApplyTranspose(dst, x); e != nil && applyErr == nil {
				applyErr = e
			}
		}
	}

	settings := krylov.Settings{
		Tolerance:     effectiveTolerance(ws),
		MaxIterations: ws.opt.maxIterations,
	}
	if ws.opt.precondLeft != nil {
		settings.PSolve = ws.opt.precondLeft
	}

	// With a right preconditioner an initial guess moves to the correction
	// form: solve A·Mr⁻¹·y = b - A·u₀ from zero, then u = u₀ + Mr⁻¹·y.
	rhs := ws.b
	var base []float64
	if pr != nil && ws.guess != nil {
		base = ws.guess
		r0 := make([]float64, n)
		matvec(r0, base)
		floats.AddScaledTo(r0, ws.b, -1, r0)
		rhs = r0
	} else {
		settings.X0 = ws.guess
	}

	kres, kerr := krylov.Solve(ops, rhs, method, settings)
	if applyErr != nil {
		return Result{Status: StatusFailure}, fmt.Errorf("iterative: apply: %w", applyErr)
	}

	u := kres.X
	if pr != nil {
		mapped := make([]float64, n)
		if e := pr(mapped, kres.X); e != nil {
			return Result{Status: StatusFailure}, fmt.Errorf("iterative: right precond: %w", e)
		}
		if base != nil {
			floats.Add(mapped, base)
		}
		u = mapped
	}

	res := Result{
		U:          u,
		Status:     StatusSuccess,
		Iterations: kres.Stats.Iterations,
		Residual:   kres.Stats.Residual,
	}
	switch {
	case kerr == nil:
		return res, nil
	case errors.Is(kerr, krylov.ErrIterationLimit):
		res.Status = StatusMaxIterations
		return res, fmt.Errorf("iterative: %w: %w", ErrNonConvergence, kerr)
	case errors.Is(kerr, krylov.ErrBreakdown):
		res.Status = StatusFailure
		return res, fmt.Errorf("iterative: %w: %w", ErrNonConvergence, kerr)
	default:
		res.Status = StatusInfeasible
		return res, fmt.Errorf("iterative: %w: %w", ErrBadConfig, kerr)
	}
}

// effectiveTolerance folds the absolute floor into the engine's relative
// criterion: |r| < rel·|b| with rel raised to abs/|b| when the floor binds.
func effectiveTolerance(ws *Workspace) float64 {
	rel := ws.opt.relTol
	if abs := ws.opt.absTol; abs > 0 {
		if bnorm := floats.Norm(ws.b, 2); bnorm > 0 && abs/bnorm > rel {
			rel = abs / bnorm
		}
	}
	return rel
}

var _ operand.VectorApplier = (*operand.Operator)(nil)

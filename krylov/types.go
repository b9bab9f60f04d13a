// SPDX-License-Identifier: MIT

package krylov

import (
	"errors"
	"time"
)

// Default knobs; single source of truth for zero-value Settings.
const (
	// DefaultTolerance is the relative residual tolerance |r| < tol*|b|.
	DefaultTolerance = 1e-8

	// defaultIterationFactor scales the dimension into a default iteration
	// budget when Settings.MaxIterations is zero.
	defaultIterationFactor = 4
)

var (
	// ErrBreakdown is returned when a method hits a zero denominator
	// (rho or omega collapse) and cannot continue.
	ErrBreakdown = errors.New("krylov: method breakdown")

	// ErrIterationLimit is returned when the iteration budget is exhausted
	// before the residual meets the tolerance.
	ErrIterationLimit = errors.New("krylov: iteration limit reached")

	// ErrBadSystem is returned for structurally invalid inputs: zero
	// dimension, nil matrix-vector product, mismatched guess length.
	ErrBadSystem = errors.New("krylov: invalid system")
)

// Ops describes the system operator in terms of A·x (and optionally Aᵀ·x).
type Ops struct {
	// MatVec computes dst = A·x. It must be non-nil.
	MatVec func(dst, x []float64)

	// MatTransVec computes dst = Aᵀ·x. CG and BiCGStab never request it;
	// it exists for transpose-requiring methods added behind the same
	// Method interface.
	MatTransVec func(dst, x []float64)
}

// Settings holds the solve configuration.
type Settings struct {
	// X0 is an initial guess; nil means the zero vector. When non-nil its
	// length must equal the system dimension.
	X0 []float64

	// Tolerance is the relative residual target; the stopping criterion is
	// |r_i| < Tolerance * |b|. Zero means DefaultTolerance.
	Tolerance float64

	// MaxIterations bounds the iteration count.
	// Zero means defaultIterationFactor * dim.
	MaxIterations int

	// PSolve applies the (left) preconditioner: dst solves M·dst = rhs.
	// Nil means the identity.
	PSolve func(dst, rhs []float64) error

	// PSolveTrans applies the transposed preconditioner. Unused by the
	// current methods; same contract as PSolve.
	PSolveTrans func(dst, rhs []float64) error
}

// Operation is the bitmask of actions a Method requests from the driver.
type Operation uint64

const (
	NoOperation Operation = 0
	MatVec      Operation = 1 << (iota - 1)
	MatTransVec
	PSolve
	PSolveTrans
	CheckResidual
	EndIteration
)

// Method is a reactive iterative algorithm. Init declares how many work
// vectors the method needs; Iterate advances the internal state machine and
// reports the next Operation for the driver to perform.
type Method interface {
	Init(dim int) (nvectors int)
	Iterate(*Context) (Operation, error)
}

// Context is the shared state between the driver and a Method.
type Context struct {
	// X is the current iterate.
	X []float64
	// Residual is the current residual vector r = b - A·x.
	Residual []float64
	// Vectors are the method's work vectors, allocated by the driver.
	Vectors [][]float64
	// Src and Dst index Vectors for the requested operation
	// (dst = op(src)); -1 when the operation needs no vectors.
	Src, Dst int
	// Converged is set by the driver after CheckResidual.
	Converged bool
}

// Stats aggregates observable work counters for a solve.
type Stats struct {
	Iterations int
	MatVec     int
	PSolve     int
	Residual   float64
	StartTime  time.Time
	Runtime    time.Duration
}

// Result pairs the final iterate with its statistics.
type Result struct {
	X     []float64
	Stats Stats
}

// SPDX-License-Identifier: MIT

// Package operand - matrix-free operator.
// An Operator is defined only by its matrix-vector product; it has no
// concrete entries and therefore admits only backends that can work through
// repeated application (the Krylov family).

package operand

import "fmt"

// Operator wraps a matrix-vector product closure as an operand.
type Operator struct {
	rows, cols int
	matVec     func(dst, x []float64)
	matTVec    func(dst, x []float64) // optional; nil when unavailable
}

// NewOperator builds a rows×cols operator around matVec (dst = A·x).
// Returns ErrBadShape on non-positive dimensions, ErrNilMatVec on nil closure.
func NewOperator(rows, cols int, matVec func(dst, x []float64)) (*Operator, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("NewOperator(%d,%d): %w", rows, cols, ErrBadShape)
	}
	if matVec == nil {
		return nil, fmt.Errorf("NewOperator: %w", ErrNilMatVec)
	}
	return &Operator{rows: rows, cols: cols, matVec: matVec}, nil
}

// WithTranspose attaches the transposed product dst = Aᵀ·x and returns the
// receiver for chaining. Methods that need Aᵀ (BiCG-family variants) check
// for it; plain CG and BiCGStab do not.
func (o *Operator) WithTranspose(matTVec func(dst, x []float64)) *Operator {
	o.matTVec = matTVec
	return o
}

// Dims returns (rows, cols). O(1).
func (o *Operator) Dims() (rows, cols int) { return o.rows, o.cols }

// Apply computes dst = A·x via the wrapped closure.
func (o *Operator) Apply(dst, x []float64) error {
	if len(x) != o.cols || len(dst) != o.rows {
		return fmt.Errorf("Operator.Apply: %w", ErrDimensionMismatch)
	}
	o.matVec(dst, x)
	return nil
}

// ApplyTranspose computes dst = Aᵀ·x. Returns ErrNilMatVec when no
// transposed product was attached.
func (o *Operator) ApplyTranspose(dst, x []float64) error {
	if o.matTVec == nil {
		return fmt.Errorf("Operator.ApplyTranspose: %w", ErrNilMatVec)
	}
	if len(x) != o.rows || len(dst) != o.cols {
		return fmt.Errorf("Operator.ApplyTranspose: %w", ErrDimensionMismatch)
	}
	o.matTVec(dst, x)
	return nil
}

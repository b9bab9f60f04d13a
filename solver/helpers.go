// SPDX-License-Identifier: MIT

// Package solver - shared materialization helpers for the dense backends.
//
// Kernels from gonum consume mat.Matrix values; these helpers view or copy
// operands into that shape. Viewing a *operand.Dense is copy-free: gonum
// factorizations copy internally, which is what keeps the alias_A=false
// declarations of the dense backends honest.

package solver

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/linsolve/operand"
)

// denseView returns a gonum view of the operand. Concrete *Dense operands
// are viewed without copying; anything else exposing entries is densified
// into *work (allocated or resized on demand): the slow, fails-closed path
// for generic representations.
func denseView(a operand.Operand, work **operand.Dense) (*mat.Dense, error) {
	r, c := a.Dims()
	if d, ok := a.(*operand.Dense); ok {
		return mat.NewDense(r, c, d.RawData()), nil
	}
	ea, ok := a.(operand.EntryAccessor)
	if !ok {
		return nil, fmt.Errorf("denseView: %w", ErrOperatorUnsupported)
	}
	if *work == nil || !sameShape(*work, r, c) {
		w, err := operand.NewDense(r, c)
		if err != nil {
			return nil, err
		}
		*work = w
	}
	data := (*work).RawData()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v, err := ea.At(i, j)
			if err != nil {
				return nil, err
			}
			data[i*c+j] = v
		}
	}
	return mat.NewDense(r, c, data), nil
}

// symView materializes the upper triangle of a square entry-accessible
// operand into a reusable symmetric buffer.
func symView(a operand.Operand, buf *[]float64) (*mat.SymDense, error) {
	n, c := a.Dims()
	if n != c {
		return nil, fmt.Errorf("symView: %dx%d: %w", n, c, ErrNotSquare)
	}
	ea, ok := a.(operand.EntryAccessor)
	if !ok {
		return nil, fmt.Errorf("symView: %w", ErrOperatorUnsupported)
	}
	if len(*buf) != n*n {
		*buf = make([]float64, n*n)
	}
	data := *buf
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v, err := ea.At(i, j)
			if err != nil {
				return nil, err
			}
			data[i*n+j] = v
			data[j*n+i] = v
		}
	}
	return mat.NewSymDense(n, data), nil
}

// sameShape reports whether d already has shape r×c.
func sameShape(d *operand.Dense, r, c int) bool {
	dr, dc := d.Dims()
	return dr == r && dc == c
}

// applier extracts the matrix-vector capability, required by the iterative
// backends and residual checks.
func applier(a operand.Operand) (operand.VectorApplier, error) {
	va, ok := a.(operand.VectorApplier)
	if !ok {
		return nil, fmt.Errorf("applier: %w", ErrStructuralMismatch)
	}
	return va, nil
}

// SPDX-License-Identifier: MIT

// Package operand - Dense storage (row-major) & safe accessors.
//
// Purpose:
//   - Provide a cache-friendly row-major buffer with the explicit index
//     formula i*cols + j.
//   - Guarantee safety at the public surface: At/Set return errors instead
//     of panicking.
//   - Expose the flat buffer (RawData) so factorization kernels can hand it
//     to BLAS-backed routines without copying.
//
// Complexity quicksheet:
//   - NewDense: O(r*c) zero-init; At/Set: O(1); Clone: O(r*c); Apply: O(r*c).

package operand

import "fmt"

// denseErrorf wraps an error with a uniform Dense context and callsite
// indices. Keep tags in constants for grep-ability and consistency.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a concrete row-major matrix.
//   - r, c hold dimensions (rows, cols).
//   - data is a flat buffer of length r*c in row-major order (offset = i*c + j).
type Dense struct {
	r, c int
	data []float64
}

// NewDense returns a zero-initialized rows×cols matrix.
// Returns ErrBadShape when rows<=0 or cols<=0.
func NewDense(rows, cols int) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("NewDense(%d,%d): %w", rows, cols, ErrBadShape)
	}
	return &Dense{r: rows, c: cols, data: make([]float64, rows*cols)}, nil
}

// NewDenseFrom adopts data as the backing buffer of a rows×cols matrix.
// The slice is NOT copied: mutations through the returned Dense are visible
// to the caller and vice versa. This is the entry point for callers who opt
// into aliasing-sensitive algorithms.
// Returns ErrBadShape when the shape is invalid, ErrDimensionMismatch when
// len(data) != rows*cols.
func NewDenseFrom(rows, cols int, data []float64) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("NewDenseFrom(%d,%d): %w", rows, cols, ErrBadShape)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("NewDenseFrom(%d,%d): len(data)=%d: %w", rows, cols, len(data), ErrDimensionMismatch)
	}
	return &Dense{r: rows, c: cols, data: data}, nil
}

// Dims returns (rows, cols). O(1).
func (d *Dense) Dims() (rows, cols int) { return d.r, d.c }

// At retrieves the element at (i, j). Returns ErrOutOfRange when out of bounds.
func (d *Dense) At(i, j int) (float64, error) {
	if i < 0 || i >= d.r || j < 0 || j >= d.c {
		return 0, denseErrorf("At", i, j, ErrOutOfRange)
	}
	return d.data[i*d.c+j], nil
}

// Set assigns v at (i, j). Returns ErrOutOfRange when out of bounds.
func (d *Dense) Set(i, j int, v float64) error {
	if i < 0 || i >= d.r || j < 0 || j >= d.c {
		return denseErrorf("Set", i, j, ErrOutOfRange)
	}
	d.data[i*d.c+j] = v
	return nil
}

// RawData exposes the flat row-major buffer without copying.
// Mutating the returned slice mutates the matrix. Kernels hand this slice to
// BLAS-backed routines; everyone else should prefer At/Set.
func (d *Dense) RawData() []float64 { return d.data }

// Clone returns a deep copy, independent of the original. O(r*c).
func (d *Dense) Clone() *Dense {
	cp := make([]float64, len(d.data))
	copy(cp, d.data)
	return &Dense{r: d.r, c: d.c, data: cp}
}

// Apply computes dst = A·x with fixed i→j loop order.
// Returns ErrDimensionMismatch on length disagreement.
func (d *Dense) Apply(dst, x []float64) error {
	if len(x) != d.c || len(dst) != d.r {
		return fmt.Errorf("Dense.Apply: %w", ErrDimensionMismatch)
	}
	var sum float64
	for i := 0; i < d.r; i++ {
		sum = 0
		row := d.data[i*d.c : (i+1)*d.c]
		for j := 0; j < d.c; j++ {
			sum += row[j] * x[j]
		}
		dst[i] = sum
	}
	return nil
}

// SymDense asserts that an underlying square Dense is symmetric; the upper
// triangle is authoritative for kernels. Symmetry of the values is the
// caller's promise: classification stays representation-based, and a wrong
// promise surfaces as a numerical failure, not silent misbehavior.
type SymDense struct {
	d *Dense
}

// NewSymDense wraps d as symmetric. Returns ErrNilOperand for nil d and
// ErrNotSquare when d is rectangular.
func NewSymDense(d *Dense) (*SymDense, error) {
	if d == nil {
		return nil, fmt.Errorf("NewSymDense: %w", ErrNilOperand)
	}
	if d.r != d.c {
		return nil, fmt.Errorf("NewSymDense(%dx%d): %w", d.r, d.c, ErrNotSquare)
	}
	return &SymDense{d: d}, nil
}

// Dims returns (n, n). O(1).
func (s *SymDense) Dims() (rows, cols int) { return s.d.r, s.d.c }

// At retrieves the element at (i, j), reading the upper triangle.
func (s *SymDense) At(i, j int) (float64, error) {
	if j < i {
		i, j = j, i
	}
	return s.d.At(i, j)
}

// Dense returns the wrapped dense matrix (no copy).
func (s *SymDense) Dense() *Dense { return s.d }

// Apply computes dst = A·x using the symmetrized view.
func (s *SymDense) Apply(dst, x []float64) error {
	n := s.d.r
	if len(x) != n || len(dst) != n {
		return fmt.Errorf("SymDense.Apply: %w", ErrDimensionMismatch)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum = 0
		for j := 0; j < n; j++ {
			lo, hi := i, j
			if hi < lo {
				lo, hi = hi, lo
			}
			sum += s.d.data[lo*n+hi] * x[j]
		}
		dst[i] = sum
	}
	return nil
}

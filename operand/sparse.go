// SPDX-License-Identifier: MIT

// Package operand - compressed sparse column (CSC) storage.
//
// Purpose:
//   - Canonical sparse representation for the direct sparse backends.
//   - Carry the structural pattern (ColPtr + RowIdx) separately from the
//     values so the solver can fingerprint and compare patterns cheaply.
//   - Scatter into a caller-provided dense workspace so factorization
//     kernels stay opaque capability providers.
//
// Invariants (enforced by NewCSC):
//   - len(colPtr) == cols+1, colPtr[0] == 0, colPtr non-decreasing.
//   - colPtr[cols] == len(rowIdx) == len(values).
//   - row indices in [0, rows) and strictly increasing within a column.

package operand

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
)

// CSC is a compressed sparse column matrix.
type CSC struct {
	rows, cols int
	colPtr     []int
	rowIdx     []int
	values     []float64
}

// NewCSC validates and assembles a CSC matrix. The slices are adopted, not
// copied; values may be updated in place between solves (value-only changes
// never invalidate cached symbolic state), but colPtr/rowIdx must stay
// frozen for the lifetime of the matrix.
func NewCSC(rows, cols int, colPtr, rowIdx []int, values []float64) (*CSC, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("NewCSC(%d,%d): %w", rows, cols, ErrBadShape)
	}
	if len(colPtr) != cols+1 || colPtr[0] != 0 {
		return nil, fmt.Errorf("NewCSC: colPtr len=%d first=%d: %w", len(colPtr), colPtr[0], ErrBadPattern)
	}
	if colPtr[cols] != len(rowIdx) || len(rowIdx) != len(values) {
		return nil, fmt.Errorf("NewCSC: nnz=%d rowIdx=%d values=%d: %w",
			colPtr[cols], len(rowIdx), len(values), ErrBadPattern)
	}
	for j := 0; j < cols; j++ {
		if colPtr[j] > colPtr[j+1] {
			return nil, fmt.Errorf("NewCSC: colPtr decreases at %d: %w", j, ErrBadPattern)
		}
		prev := -1
		for p := colPtr[j]; p < colPtr[j+1]; p++ {
			i := rowIdx[p]
			if i < 0 || i >= rows || i <= prev {
				return nil, fmt.Errorf("NewCSC: row %d in column %d: %w", i, j, ErrBadPattern)
			}
			prev = i
		}
	}
	return &CSC{rows: rows, cols: cols, colPtr: colPtr, rowIdx: rowIdx, values: values}, nil
}

// Dims returns (rows, cols). O(1).
func (m *CSC) Dims() (rows, cols int) { return m.rows, m.cols }

// NNZ returns the number of stored entries. O(1).
func (m *CSC) NNZ() int { return m.colPtr[m.cols] }

// ColPtr returns the column-pointer array (do not mutate).
func (m *CSC) ColPtr() []int { return m.colPtr }

// RowIdx returns the row-index array (do not mutate).
func (m *CSC) RowIdx() []int { return m.rowIdx }

// Values returns the value array. Callers may overwrite entries in place to
// express value-only changes; structural changes require a new CSC.
func (m *CSC) Values() []float64 { return m.values }

// At retrieves the element at (i, j) by scanning column j.
// Zero is returned for positions outside the stored pattern.
// Complexity: O(nnz(column j)).
func (m *CSC) At(i, j int) (float64, error) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		return 0, fmt.Errorf("CSC.At(%d,%d): %w", i, j, ErrOutOfRange)
	}
	for p := m.colPtr[j]; p < m.colPtr[j+1]; p++ {
		if m.rowIdx[p] == i {
			return m.values[p], nil
		}
		if m.rowIdx[p] > i {
			break // row indices are sorted
		}
	}
	return 0, nil
}

// Apply computes dst = A·x column-wise. O(nnz).
func (m *CSC) Apply(dst, x []float64) error {
	if len(x) != m.cols || len(dst) != m.rows {
		return fmt.Errorf("CSC.Apply: %w", ErrDimensionMismatch)
	}
	for i := range dst {
		dst[i] = 0
	}
	for j := 0; j < m.cols; j++ {
		xj := x[j]
		if xj == 0 {
			continue
		}
		for p := m.colPtr[j]; p < m.colPtr[j+1]; p++ {
			dst[m.rowIdx[p]] += m.values[p] * xj
		}
	}
	return nil
}

// SamePattern reports whether other has the exact same index structure:
// identical shape, column pointers and row indices. Values are ignored.
// This is the check sparse backends run before reusing symbolic state.
// Complexity: O(cols + nnz).
func (m *CSC) SamePattern(other *CSC) bool {
	if other == nil || m.rows != other.rows || m.cols != other.cols {
		return false
	}
	if len(m.rowIdx) != len(other.rowIdx) {
		return false
	}
	for j := range m.colPtr {
		if m.colPtr[j] != other.colPtr[j] {
			return false
		}
	}
	for p := range m.rowIdx {
		if m.rowIdx[p] != other.rowIdx[p] {
			return false
		}
	}
	return true
}

// PatternKey returns a 64-bit FNV fingerprint of the structure (shape,
// column pointers, row indices). Used as a cheap negative filter in cache
// diagnostics; equality decisions go through SamePattern.
func (m *CSC) PatternKey() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	put := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		_, _ = h.Write(buf[:])
	}
	put(m.rows)
	put(m.cols)
	for _, v := range m.colPtr {
		put(v)
	}
	for _, v := range m.rowIdx {
		put(v)
	}
	return h.Sum64()
}

// StructurallySymmetric reports whether the pattern is symmetric: entry
// (i,j) present iff (j,i) present. Square only. Values are ignored: this
// drives the sparse sub-classification in the default policy.
// Complexity: O(nnz * log nnz(column)) via per-column binary scans.
func (m *CSC) StructurallySymmetric() bool {
	if m.rows != m.cols {
		return false
	}
	for j := 0; j < m.cols; j++ {
		for p := m.colPtr[j]; p < m.colPtr[j+1]; p++ {
			i := m.rowIdx[p]
			if i == j {
				continue
			}
			if !m.patternHas(j, i) {
				return false
			}
		}
	}
	return true
}

// patternHas reports whether (i, j) is in the stored pattern.
func (m *CSC) patternHas(i, j int) bool {
	lo, hi := m.colPtr[j], m.colPtr[j+1]
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case m.rowIdx[mid] == i:
			return true
		case m.rowIdx[mid] < i:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return false
}

// Scatter densifies the matrix into dst, zeroing dst first.
// dst must match the matrix shape. O(r*c + nnz).
func (m *CSC) Scatter(dst *Dense) error {
	if dst == nil {
		return fmt.Errorf("CSC.Scatter: %w", ErrNilOperand)
	}
	if dst.r != m.rows || dst.c != m.cols {
		return fmt.Errorf("CSC.Scatter: %w", ErrDimensionMismatch)
	}
	for i := range dst.data {
		dst.data[i] = 0
	}
	for j := 0; j < m.cols; j++ {
		for p := m.colPtr[j]; p < m.colPtr[j+1]; p++ {
			dst.data[m.rowIdx[p]*m.cols+j] = m.values[p]
		}
	}
	return nil
}

// SPDX-License-Identifier: MIT

// Package operand - banded fast-path representations.
// Diagonal, Tridiagonal and Bidiagonal carry their bands as plain slices;
// the matching solver backends run O(n) elimination directly on the bands.

package operand

import "fmt"

// Diagonal is an n×n diagonal matrix stored as its diagonal.
type Diagonal struct {
	diag []float64
}

// NewDiagonal adopts diag (no copy) as an n×n diagonal matrix.
func NewDiagonal(diag []float64) (*Diagonal, error) {
	if len(diag) == 0 {
		return nil, fmt.Errorf("NewDiagonal: %w", ErrBadShape)
	}
	return &Diagonal{diag: diag}, nil
}

// Dims returns (n, n). O(1).
func (d *Diagonal) Dims() (rows, cols int) { return len(d.diag), len(d.diag) }

// Diag returns the diagonal slice (shared, not copied).
func (d *Diagonal) Diag() []float64 { return d.diag }

// At retrieves the element at (i, j); off-diagonal positions are zero.
func (d *Diagonal) At(i, j int) (float64, error) {
	n := len(d.diag)
	if i < 0 || i >= n || j < 0 || j >= n {
		return 0, fmt.Errorf("Diagonal.At(%d,%d): %w", i, j, ErrOutOfRange)
	}
	if i != j {
		return 0, nil
	}
	return d.diag[i], nil
}

// Apply computes dst = D·x. O(n).
func (d *Diagonal) Apply(dst, x []float64) error {
	n := len(d.diag)
	if len(x) != n || len(dst) != n {
		return fmt.Errorf("Diagonal.Apply: %w", ErrDimensionMismatch)
	}
	for i := 0; i < n; i++ {
		dst[i] = d.diag[i] * x[i]
	}
	return nil
}

// Tridiagonal is an n×n tridiagonal matrix stored by bands:
// Sub (length n-1), Main (length n), Super (length n-1).
type Tridiagonal struct {
	sub, main, super []float64
}

// NewTridiagonal adopts the three bands (no copy).
// Band lengths must be n-1, n, n-1 with n >= 1.
func NewTridiagonal(sub, main, super []float64) (*Tridiagonal, error) {
	n := len(main)
	if n == 0 {
		return nil, fmt.Errorf("NewTridiagonal: %w", ErrBadShape)
	}
	if len(sub) != n-1 || len(super) != n-1 {
		return nil, fmt.Errorf("NewTridiagonal: bands %d/%d/%d: %w",
			len(sub), n, len(super), ErrDimensionMismatch)
	}
	return &Tridiagonal{sub: sub, main: main, super: super}, nil
}

// Dims returns (n, n). O(1).
func (t *Tridiagonal) Dims() (rows, cols int) { return len(t.main), len(t.main) }

// Bands returns the (sub, main, super) slices, shared with the matrix.
// The tridiagonal backend factorizes directly into these slices when its
// aliasing declaration permits, so callers who need their bands preserved
// must either clone or configure the algorithm with aliasing disabled.
func (t *Tridiagonal) Bands() (sub, main, super []float64) { return t.sub, t.main, t.super }

// At retrieves the element at (i, j); positions off the three bands are zero.
func (t *Tridiagonal) At(i, j int) (float64, error) {
	n := len(t.main)
	if i < 0 || i >= n || j < 0 || j >= n {
		return 0, fmt.Errorf("Tridiagonal.At(%d,%d): %w", i, j, ErrOutOfRange)
	}
	switch {
	case i == j:
		return t.main[i], nil
	case i == j+1:
		return t.sub[j], nil
	case j == i+1:
		return t.super[i], nil
	}
	return 0, nil
}

// Apply computes dst = T·x. O(n).
func (t *Tridiagonal) Apply(dst, x []float64) error {
	n := len(t.main)
	if len(x) != n || len(dst) != n {
		return fmt.Errorf("Tridiagonal.Apply: %w", ErrDimensionMismatch)
	}
	for i := 0; i < n; i++ {
		v := t.main[i] * x[i]
		if i > 0 {
			v += t.sub[i-1] * x[i-1]
		}
		if i < n-1 {
			v += t.super[i] * x[i+1]
		}
		dst[i] = v
	}
	return nil
}

// Bidiagonal is an n×n upper- or lower-bidiagonal matrix:
// Main (length n) plus one Off band (length n-1).
type Bidiagonal struct {
	main, off []float64
	upper     bool
}

// NewBidiagonal adopts the bands (no copy); upper selects the side of Off.
func NewBidiagonal(main, off []float64, upper bool) (*Bidiagonal, error) {
	n := len(main)
	if n == 0 {
		return nil, fmt.Errorf("NewBidiagonal: %w", ErrBadShape)
	}
	if len(off) != n-1 {
		return nil, fmt.Errorf("NewBidiagonal: bands %d/%d: %w", n, len(off), ErrDimensionMismatch)
	}
	return &Bidiagonal{main: main, off: off, upper: upper}, nil
}

// Dims returns (n, n). O(1).
func (b *Bidiagonal) Dims() (rows, cols int) { return len(b.main), len(b.main) }

// Upper reports whether the off band sits above the diagonal.
func (b *Bidiagonal) Upper() bool { return b.upper }

// Bands returns the (main, off) slices, shared with the matrix.
func (b *Bidiagonal) Bands() (main, off []float64) { return b.main, b.off }

// At retrieves the element at (i, j); positions off the two bands are zero.
func (b *Bidiagonal) At(i, j int) (float64, error) {
	n := len(b.main)
	if i < 0 || i >= n || j < 0 || j >= n {
		return 0, fmt.Errorf("Bidiagonal.At(%d,%d): %w", i, j, ErrOutOfRange)
	}
	switch {
	case i == j:
		return b.main[i], nil
	case b.upper && j == i+1:
		return b.off[i], nil
	case !b.upper && i == j+1:
		return b.off[j], nil
	}
	return 0, nil
}

// Apply computes dst = B·x. O(n).
func (b *Bidiagonal) Apply(dst, x []float64) error {
	n := len(b.main)
	if len(x) != n || len(dst) != n {
		return fmt.Errorf("Bidiagonal.Apply: %w", ErrDimensionMismatch)
	}
	for i := 0; i < n; i++ {
		v := b.main[i] * x[i]
		if b.upper && i < n-1 {
			v += b.off[i] * x[i+1]
		}
		if !b.upper && i > 0 {
			v += b.off[i-1] * x[i-1]
		}
		dst[i] = v
	}
	return nil
}

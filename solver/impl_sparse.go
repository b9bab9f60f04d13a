// SPDX-License-Identifier: MIT

// Package solver - sparse direct backends (CSC operands).
//
// Both backends factor through a preallocated dense workspace: the CSC
// operand is scattered into the workspace and handed to the dense kernel.
// The recorded symbolic state is the structural pattern (column pointers,
// row indices) plus the workspace itself; a value-only update reuses both
// and pays only the numeric refactorization.
//
// Refresh policy per solve, driven by the workspace freshness bit and the
// algorithm's check_pattern/reuse_symbolic configuration:
//
//	stale operand               -> reuse the cached factorization verbatim
//	fresh, check, pattern same  -> numeric refactor into the kept workspace
//	fresh, check, pattern diff  -> full symbolic + numeric rebuild
//	fresh, no check             -> full rebuild unconditionally
//
// The sparse Cholesky backend is the single place a failed factorization is
// allowed to escalate: loss of positive definiteness downgrades the slot to
// LDLᵀ mode and the result is marked Escalated.

package solver

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/linsolve/operand"
)

// sparsePattern is the recorded symbolic structure of the operand the slot
// was last built against.
type sparsePattern struct {
	rows, cols     int
	colPtr, rowIdx []int
}

// record snapshots the structure of m. The index slices are copied so later
// in-place edits of the operand cannot corrupt the comparison basis.
func (p *sparsePattern) record(m *operand.CSC) {
	p.rows, p.cols = m.Dims()
	p.colPtr = append(p.colPtr[:0], m.ColPtr()...)
	p.rowIdx = append(p.rowIdx[:0], m.RowIdx()...)
}

// matches reports whether m still has the recorded structure.
func (p *sparsePattern) matches(m *operand.CSC) bool {
	r, c := m.Dims()
	if r != p.rows || c != p.cols {
		return false
	}
	cp, ri := m.ColPtr(), m.RowIdx()
	if len(cp) != len(p.colPtr) || len(ri) != len(p.rowIdx) {
		return false
	}
	for j := range cp {
		if cp[j] != p.colPtr[j] {
			return false
		}
	}
	for i := range ri {
		if ri[i] != p.rowIdx[i] {
			return false
		}
	}
	return true
}

// refreshPlan folds the freshness bit, the configured policy and the
// recorded pattern into one of three actions.
type refreshAction int

const (
	refreshNone refreshAction = iota // reuse the factorization as is
	refreshNumeric                   // refactor values, keep symbolic state
	refreshFull                      // rebuild symbolic state and refactor
)

func refreshPlan(alg Algorithm, c *sparsePattern, m *operand.CSC, fresh, factorized bool) refreshAction {
	if !factorized {
		return refreshFull
	}
	if !fresh {
		return refreshNone
	}
	if !alg.ReuseSymbolic() {
		return refreshFull
	}
	if alg.CheckPattern() && c.matches(m) {
		return refreshNumeric
	}
	return refreshFull
}

// ---------- sparse LU ----------

// sparseLUCache is the slot for KindSparseLU: recorded pattern, the dense
// scatter workspace, and the factorization object.
type sparseLUCache struct {
	pat        sparsePattern
	work       *operand.Dense
	lu         mat.LU
	factorized bool
}

type sparseLUBackend struct{}

func (sparseLUBackend) Kind() Kind { return KindSparseLU }

func (sparseLUBackend) Traits() Traits { return Traits{NeedsSquare: true, Sparse: true} }

func (sparseLUBackend) InitCache(ws *Workspace, alg Algorithm) (any, error) {
	m, err := cscOperand(ws.a)
	if err != nil {
		return nil, err
	}
	c := (*sparseLUCache)(nil)
	if isDefaultConfig(alg) {
		c = claimPreallocSparse()
	}
	if c == nil {
		c = &sparseLUCache{}
	}
	c.pat.record(m)
	return c, nil
}

func (sparseLUBackend) Solve(ws *Workspace, alg Algorithm, cache any, fresh bool) (Result, error) {
	c := cache.(*sparseLUCache)
	m, err := cscOperand(ws.a)
	if err != nil {
		return Result{Status: StatusInfeasible}, err
	}
	n, _ := m.Dims()

	switch refreshPlan(alg, &c.pat, m, fresh, c.factorized) {
	case refreshNone:
		ws.noteCacheHit()
	case refreshNumeric:
		if err := c.refactor(m); err != nil {
			return Result{Status: StatusFailure}, err
		}
		ws.noteFactorization()
	case refreshFull:
		if c.factorized && fresh && alg.CheckPattern() {
			ws.notePatternRebuild()
		}
		c.pat.record(m)
		c.work = nil // force the workspace to be rebuilt at the new shape
		if err := c.refactor(m); err != nil {
			return Result{Status: StatusFailure}, err
		}
		ws.noteFactorization()
	}

	u := make([]float64, n)
	if err := c.lu.SolveVecTo(mat.NewVecDense(n, u), false, mat.NewVecDense(n, ws.b)); err != nil {
		c.factorized = false
		return Result{Status: StatusFailure}, fmt.Errorf("sparse lu: %w", ErrSingular)
	}
	return Result{U: u, Status: StatusSuccess}, nil
}

// refactor scatters the operand into the kept workspace and refactors.
func (c *sparseLUCache) refactor(m *operand.CSC) error {
	r, cols := m.Dims()
	if c.work == nil || !sameShape(c.work, r, cols) {
		w, err := operand.NewDense(r, cols)
		if err != nil {
			return err
		}
		c.work = w
	}
	if err := m.Scatter(c.work); err != nil {
		return err
	}
	c.lu.Factorize(mat.NewDense(r, cols, c.work.RawData()))
	c.factorized = true
	return nil
}

// ---------- sparse Cholesky (with LDLᵀ escalation) ----------

// sparseCholCache carries both factorization modes: the slot starts in
// Cholesky mode and flips to LDLᵀ mode on the first loss of positive
// definiteness. Once escalated it stays escalated until a full rebuild.
type sparseCholCache struct {
	pat        sparsePattern
	work       *operand.Dense
	chol       mat.Cholesky
	ldltL      []float64
	ldltD      []float64
	escalated  bool
	factorized bool
}

type sparseCholBackend struct{}

func (sparseCholBackend) Kind() Kind { return KindSparseCholesky }

func (sparseCholBackend) Traits() Traits { return Traits{NeedsSquare: true, Sparse: true} }

func (sparseCholBackend) InitCache(ws *Workspace, _ Algorithm) (any, error) {
	m, err := cscOperand(ws.a)
	if err != nil {
		return nil, err
	}
	c := &sparseCholCache{}
	c.pat.record(m)
	return c, nil
}

func (sparseCholBackend) Solve(ws *Workspace, alg Algorithm, cache any, fresh bool) (Result, error) {
	c := cache.(*sparseCholCache)
	m, err := cscOperand(ws.a)
	if err != nil {
		return Result{Status: StatusInfeasible}, err
	}
	n, _ := m.Dims()

	switch refreshPlan(alg, &c.pat, m, fresh, c.factorized) {
	case refreshNone:
		ws.noteCacheHit()
	case refreshNumeric:
		if err := c.refactor(m, n); err != nil {
			return Result{Status: StatusFailure}, err
		}
		ws.noteFactorization()
	case refreshFull:
		if c.factorized && fresh && alg.CheckPattern() {
			ws.notePatternRebuild()
		}
		c.pat.record(m)
		c.work = nil
		c.escalated = false // a structural rebuild gets a clean attempt
		if err := c.refactor(m, n); err != nil {
			return Result{Status: StatusFailure}, err
		}
		ws.noteFactorization()
	}

	u := make([]float64, n)
	if c.escalated {
		solveLDLT(c.ldltL, c.ldltD, ws.b, u, n)
		return Result{U: u, Status: StatusSuccess, Escalated: true}, nil
	}
	if err := c.chol.SolveVecTo(mat.NewVecDense(n, u), mat.NewVecDense(n, ws.b)); err != nil {
		c.factorized = false
		return Result{Status: StatusFailure}, fmt.Errorf("sparse cholesky: %w", ErrSingular)
	}
	return Result{U: u, Status: StatusSuccess, CondEstimate: c.chol.Cond()}, nil
}

// refactor scatters and factors. A Cholesky failure escalates to LDLᵀ on
// the same workspace instead of surfacing an error; only an LDLᵀ failure
// (a genuinely singular operand) is fatal.
func (c *sparseCholCache) refactor(m *operand.CSC, n int) error {
	if c.work == nil || !sameShape(c.work, n, n) {
		w, err := operand.NewDense(n, n)
		if err != nil {
			return err
		}
		c.work = w
	}
	if err := m.Scatter(c.work); err != nil {
		return err
	}
	data := c.work.RawData()
	// Mirror the lower triangle up: CSC symmetric operands may carry either
	// triangle, and both kernels read full storage.
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if data[i*n+j] == 0 {
				data[i*n+j] = data[j*n+i]
			} else if data[j*n+i] == 0 {
				data[j*n+i] = data[i*n+j]
			}
		}
	}

	if !c.escalated {
		if ok := c.chol.Factorize(mat.NewSymDense(n, data)); ok {
			c.factorized = true
			return nil
		}
		c.escalated = true
	}

	if len(c.ldltD) != n {
		c.ldltL = make([]float64, n*n)
		c.ldltD = make([]float64, n)
	}
	if err := factorLDLT(data, c.ldltL, c.ldltD, n); err != nil {
		c.factorized = false
		return fmt.Errorf("sparse cholesky: %w", err)
	}
	c.factorized = true
	return nil
}

// cscOperand narrows the operand to CSC; the sparse backends accept nothing
// else.
func cscOperand(a operand.Operand) (*operand.CSC, error) {
	m, ok := a.(*operand.CSC)
	if !ok {
		return nil, fmt.Errorf("sparse: want CSC operand: %w", ErrStructuralMismatch)
	}
	return m, nil
}

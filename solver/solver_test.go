// Package solver_test exercises the dispatch engine end to end through the
// public API: policy resolution, caching, failure reporting.
package solver_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/linsolve/operand"
	"github.com/katalvlaran/linsolve/solver"
)

// mustDense builds a dense operand from row-major data or fails the test.
func mustDense(t *testing.T, r, c int, data []float64) *operand.Dense {
	t.Helper()
	d, err := operand.NewDenseFrom(r, c, data)
	require.NoError(t, err)
	return d
}

// mustApply computes A·x into a fresh slice.
func mustApply(t *testing.T, a operand.VectorApplier, x []float64, rows int) []float64 {
	t.Helper()
	b := make([]float64, rows)
	require.NoError(t, a.Apply(b, x))
	return b
}

// requireSolution checks the returned vector elementwise.
func requireSolution(t *testing.T, want, got []float64, tol float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		require.InDelta(t, want[i], got[i], tol, "component %d", i)
	}
}

// spdTridiagCSC builds an n×n symmetric positive definite CSC matrix with
// 4 on the diagonal and -1 on the off-diagonals (discrete Laplacian plus
// shift), pattern structurally symmetric.
func spdTridiagCSC(t *testing.T, n int) *operand.CSC {
	t.Helper()
	var colPtr []int
	var rowIdx []int
	var values []float64
	colPtr = append(colPtr, 0)
	for j := 0; j < n; j++ {
		if j > 0 {
			rowIdx = append(rowIdx, j-1)
			values = append(values, -1)
		}
		rowIdx = append(rowIdx, j)
		values = append(values, 4)
		if j < n-1 {
			rowIdx = append(rowIdx, j+1)
			values = append(values, -1)
		}
		colPtr = append(colPtr, len(rowIdx))
	}
	m, err := operand.NewCSC(n, n, colPtr, rowIdx, values)
	require.NoError(t, err)
	return m
}

// asymCSC builds a square CSC matrix whose pattern is NOT structurally
// symmetric: diagonal dominance plus a single (0, n-1) entry.
func asymCSC(t *testing.T, n int) *operand.CSC {
	t.Helper()
	var colPtr []int
	var rowIdx []int
	var values []float64
	colPtr = append(colPtr, 0)
	for j := 0; j < n; j++ {
		if j == n-1 {
			// row 0 entry in the last column only; no mirror at (n-1, 0).
			rowIdx = append(rowIdx, 0)
			values = append(values, 1)
		}
		rowIdx = append(rowIdx, j)
		values = append(values, 5)
		colPtr = append(colPtr, len(rowIdx))
	}
	m, err := operand.NewCSC(n, n, colPtr, rowIdx, values)
	require.NoError(t, err)
	return m
}

func TestInit_Validation(t *testing.T) {
	t.Parallel()
	a := mustDense(t, 2, 2, []float64{1, 0, 0, 1})

	_, err := solver.Init(solver.Problem{A: nil, B: []float64{1}}, solver.Default())
	require.ErrorIs(t, err, solver.ErrNilProblem)

	_, err = solver.Init(solver.Problem{A: a, B: nil}, solver.Default())
	require.ErrorIs(t, err, solver.ErrNilProblem)

	_, err = solver.Init(solver.Problem{A: a, B: []float64{1, 2, 3}}, solver.Default())
	require.ErrorIs(t, err, solver.ErrShapeMismatch)

	_, err = solver.Init(solver.Problem{A: a, B: []float64{1, 2}, Guess: []float64{0}}, solver.Default())
	require.ErrorIs(t, err, solver.ErrShapeMismatch)
}

func TestSolve_DenseLURoundTrip(t *testing.T) {
	t.Parallel()
	a := mustDense(t, 3, 3, []float64{
		4, 1, 2,
		1, 5, 1,
		2, 1, 6,
	})
	want := []float64{1, -2, 3}
	b := mustApply(t, a, want, 3)

	ws, err := solver.Init(solver.Problem{A: a, B: b}, solver.Default())
	require.NoError(t, err)
	res, err := ws.Solve()
	require.NoError(t, err)
	require.Equal(t, solver.StatusSuccess, res.Status)
	require.Equal(t, solver.KindLU, res.Kind)
	requireSolution(t, want, res.U, 1e-10)
	// Direct backends report zero iterations.
	require.Zero(t, res.Iterations)
}

func TestSolve_SymmetricDenseGoesCholesky(t *testing.T) {
	t.Parallel()
	d := mustDense(t, 3, 3, []float64{
		4, 1, 0,
		1, 3, 1,
		0, 1, 2,
	})
	sym, err := operand.NewSymDense(d)
	require.NoError(t, err)
	want := []float64{1, 2, 3}
	b := mustApply(t, sym, want, 3)

	ws, err := solver.Init(solver.Problem{A: sym, B: b}, solver.Default())
	require.NoError(t, err)
	res, err := ws.Solve()
	require.NoError(t, err)
	require.Equal(t, solver.KindCholesky, res.Kind)
	requireSolution(t, want, res.U, 1e-10)
	require.Greater(t, res.CondEstimate, 1.0)
}

func TestSolve_IndefiniteAssumptionGoesLDLT(t *testing.T) {
	t.Parallel()
	d := mustDense(t, 2, 2, []float64{
		2, 3,
		3, 1,
	})
	sym, err := operand.NewSymDense(d)
	require.NoError(t, err)
	b := mustApply(t, sym, []float64{1, 1}, 2)

	ws, err := solver.Init(solver.Problem{A: sym, B: b}, solver.Default(),
		solver.WithAssumptions(solver.Assumptions{Symmetric: true, Indefinite: true}))
	require.NoError(t, err)
	res, err := ws.Solve()
	require.NoError(t, err)
	require.Equal(t, solver.KindLDLT, res.Kind)
	requireSolution(t, []float64{1, 1}, res.U, 1e-10)
}

func TestSolve_RectangularDenseGoesQR(t *testing.T) {
	t.Parallel()
	// Consistent overdetermined system: exact least-squares solution.
	a := mustDense(t, 4, 2, []float64{
		1, 0,
		0, 1,
		1, 1,
		2, 1,
	})
	want := []float64{2, -1}
	b := mustApply(t, a, want, 4)

	ws, err := solver.Init(solver.Problem{A: a, B: b}, solver.Default())
	require.NoError(t, err)
	res, err := ws.Solve()
	require.NoError(t, err)
	require.Equal(t, solver.KindQR, res.Kind)
	requireSolution(t, want, res.U, 1e-10)
}

func TestSolve_NormalEquationsLeastSquares(t *testing.T) {
	t.Parallel()
	a := mustDense(t, 4, 2, []float64{
		1, 0,
		0, 1,
		1, 1,
		2, 1,
	})
	want := []float64{2, -1}
	b := mustApply(t, a, want, 4)

	alg, err := solver.NormalCholesky()
	require.NoError(t, err)
	ws, err := solver.Init(solver.Problem{A: a, B: b}, alg)
	require.NoError(t, err)
	res, err := ws.Solve()
	require.NoError(t, err)
	require.Equal(t, solver.KindNormalCholesky, res.Kind)
	requireSolution(t, want, res.U, 1e-8)
}

func TestSolve_SVDMinimumNorm(t *testing.T) {
	t.Parallel()
	// Underdetermined: SVD returns the minimum-norm solution.
	a := mustDense(t, 2, 3, []float64{
		1, 0, 0,
		0, 1, 0,
	})
	alg, err := solver.SVD()
	require.NoError(t, err)
	ws, err := solver.Init(solver.Problem{A: a, B: []float64{1, 2}}, alg)
	require.NoError(t, err)
	res, err := ws.Solve()
	require.NoError(t, err)
	require.Equal(t, solver.StatusSuccess, res.Status)
	requireSolution(t, []float64{1, 2, 0}, res.U, 1e-10)
}

func TestSolve_StructuredFastPaths(t *testing.T) {
	t.Parallel()

	t.Run("diagonal", func(t *testing.T) {
		t.Parallel()
		d, err := operand.NewDiagonal([]float64{2, 4, 8})
		require.NoError(t, err)
		ws, err := solver.Init(solver.Problem{A: d, B: []float64{2, 8, 32}}, solver.Default())
		require.NoError(t, err)
		res, err := ws.Solve()
		require.NoError(t, err)
		require.Equal(t, solver.KindDiagonal, res.Kind)
		requireSolution(t, []float64{1, 2, 4}, res.U, 0)
	})

	t.Run("tridiagonal", func(t *testing.T) {
		t.Parallel()
		tri, err := operand.NewTridiagonal(
			[]float64{-1, -1}, []float64{4, 4, 4}, []float64{-1, -1})
		require.NoError(t, err)
		want := []float64{1, 2, 3}
		b := mustApply(t, tri, want, 3)
		ws, err := solver.Init(solver.Problem{A: tri, B: b}, solver.Default())
		require.NoError(t, err)
		res, err := ws.Solve()
		require.NoError(t, err)
		require.Equal(t, solver.KindTridiagonal, res.Kind)
		requireSolution(t, want, res.U, 1e-12)
	})

	t.Run("bidiagonal-upper", func(t *testing.T) {
		t.Parallel()
		bi, err := operand.NewBidiagonal([]float64{2, 3, 4}, []float64{1, 1}, true)
		require.NoError(t, err)
		want := []float64{3, 2, 1}
		b := mustApply(t, bi, want, 3)
		ws, err := solver.Init(solver.Problem{A: bi, B: b}, solver.Default())
		require.NoError(t, err)
		res, err := ws.Solve()
		require.NoError(t, err)
		require.Equal(t, solver.KindBidiagonal, res.Kind)
		requireSolution(t, want, res.U, 1e-12)
	})

	t.Run("bidiagonal-lower", func(t *testing.T) {
		t.Parallel()
		bi, err := operand.NewBidiagonal([]float64{2, 3, 4}, []float64{1, 1}, false)
		require.NoError(t, err)
		want := []float64{1, 2, 3}
		b := mustApply(t, bi, want, 3)
		ws, err := solver.Init(solver.Problem{A: bi, B: b}, solver.Default())
		require.NoError(t, err)
		res, err := ws.Solve()
		require.NoError(t, err)
		requireSolution(t, want, res.U, 1e-12)
	})
}

func TestSolve_SparseRoundTrips(t *testing.T) {
	t.Parallel()

	t.Run("structurally-symmetric-goes-sparse-cholesky", func(t *testing.T) {
		t.Parallel()
		m := spdTridiagCSC(t, 100)
		want := make([]float64, 100)
		for i := range want {
			want[i] = float64(i%7) - 3
		}
		b := mustApply(t, m, want, 100)

		ws, err := solver.Init(solver.Problem{A: m, B: b}, solver.Default())
		require.NoError(t, err)
		res, err := ws.Solve()
		require.NoError(t, err)
		require.Equal(t, solver.KindSparseCholesky, res.Kind)
		require.False(t, res.Escalated)
		requireSolution(t, want, res.U, 1e-8)
	})

	t.Run("asymmetric-pattern-goes-sparse-lu", func(t *testing.T) {
		t.Parallel()
		m := asymCSC(t, 10)
		want := make([]float64, 10)
		for i := range want {
			want[i] = float64(i + 1)
		}
		b := mustApply(t, m, want, 10)

		ws, err := solver.Init(solver.Problem{A: m, B: b}, solver.Default())
		require.NoError(t, err)
		res, err := ws.Solve()
		require.NoError(t, err)
		require.Equal(t, solver.KindSparseLU, res.Kind)
		requireSolution(t, want, res.U, 1e-8)
	})
}

func TestSolve_SparseCholeskyEscalatesToLDLT(t *testing.T) {
	t.Parallel()
	// Symmetric pattern and values, but indefinite: [1 2; 2 1].
	m, err := operand.NewCSC(2, 2,
		[]int{0, 2, 4}, []int{0, 1, 0, 1}, []float64{1, 2, 2, 1})
	require.NoError(t, err)

	ws, err := solver.Init(solver.Problem{A: m, B: []float64{3, 3}}, solver.Default())
	require.NoError(t, err)
	res, err := ws.Solve()
	require.NoError(t, err)
	require.Equal(t, solver.KindSparseCholesky, res.Kind)
	require.True(t, res.Escalated, "loss of definiteness must surface as escalation")
	requireSolution(t, []float64{1, 1}, res.U, 1e-10)

	// The escalated factorization is cached like any other.
	require.NoError(t, ws.SetB([]float64{1, 5}))
	res, err = ws.Solve()
	require.NoError(t, err)
	require.True(t, res.Escalated)
	requireSolution(t, []float64{3, -1}, res.U, 1e-10)
	require.Equal(t, 1, ws.Stats().Factorizations)
	require.Equal(t, 1, ws.Stats().CacheHits)
}

func TestSolve_SingularReportsFailure(t *testing.T) {
	t.Parallel()

	t.Run("diagonal-zero", func(t *testing.T) {
		t.Parallel()
		d, err := operand.NewDiagonal([]float64{1, 0, 3})
		require.NoError(t, err)
		ws, err := solver.Init(solver.Problem{A: d, B: []float64{1, 1, 1}}, solver.Default())
		require.NoError(t, err)
		res, err := ws.Solve()
		require.ErrorIs(t, err, solver.ErrSingular)
		require.Equal(t, solver.StatusFailure, res.Status)
		require.Nil(t, res.U)
	})

	t.Run("ldlt-singular", func(t *testing.T) {
		t.Parallel()
		d := mustDense(t, 2, 2, []float64{
			1, 1,
			1, 1,
		})
		sym, err := operand.NewSymDense(d)
		require.NoError(t, err)
		alg, err := solver.LDLT()
		require.NoError(t, err)
		ws, err := solver.Init(solver.Problem{A: sym, B: []float64{1, 2}}, alg)
		require.NoError(t, err)
		res, err := ws.Solve()
		require.ErrorIs(t, err, solver.ErrSingular)
		require.Equal(t, solver.StatusFailure, res.Status)
	})

	t.Run("cholesky-not-positive-definite", func(t *testing.T) {
		t.Parallel()
		d := mustDense(t, 2, 2, []float64{
			1, 2,
			2, 1,
		})
		sym, err := operand.NewSymDense(d)
		require.NoError(t, err)
		alg, err := solver.Cholesky()
		require.NoError(t, err)
		ws, err := solver.Init(solver.Problem{A: sym, B: []float64{1, 1}}, alg)
		require.NoError(t, err)
		res, err := ws.Solve()
		require.ErrorIs(t, err, solver.ErrNotPositiveDefinite)
		require.Equal(t, solver.StatusFailure, res.Status)
	})
}

func TestSolve_OperatorRejectsFactorizationBackends(t *testing.T) {
	t.Parallel()
	op, err := operand.NewOperator(2, 2, func(dst, x []float64) { copy(dst, x) })
	require.NoError(t, err)

	for _, build := range []func(...solver.AlgOption) (solver.Algorithm, error){
		solver.LU, solver.QR, solver.Cholesky, solver.SVD, solver.SparseLU,
	} {
		alg, err := build()
		require.NoError(t, err)
		ws, err := solver.Init(solver.Problem{A: op, B: []float64{1, 2}}, alg)
		require.NoError(t, err)
		res, err := ws.Solve()
		require.ErrorIs(t, err, solver.ErrOperatorUnsupported, "kind %s", alg.Kind())
		require.Equal(t, solver.StatusInfeasible, res.Status)
	}
}

func TestSolve_SparseBackendNeedsCSC(t *testing.T) {
	t.Parallel()
	a := mustDense(t, 2, 2, []float64{1, 0, 0, 1})
	alg, err := solver.SparseLU()
	require.NoError(t, err)
	ws, err := solver.Init(solver.Problem{A: a, B: []float64{1, 1}}, alg)
	require.NoError(t, err)
	_, err = ws.Solve()
	require.ErrorIs(t, err, solver.ErrStructuralMismatch)
}

func TestSolve_QRRejectsUnderdetermined(t *testing.T) {
	t.Parallel()
	a := mustDense(t, 2, 3, []float64{1, 0, 0, 0, 1, 0})
	alg, err := solver.QR()
	require.NoError(t, err)
	ws, err := solver.Init(solver.Problem{A: a, B: []float64{1, 2}}, alg)
	require.NoError(t, err)
	res, err := ws.Solve()
	require.ErrorIs(t, err, solver.ErrStructuralMismatch)
	require.Equal(t, solver.StatusInfeasible, res.Status)
}

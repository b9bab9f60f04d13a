// Iterative-backend dispatch: operator operands, assumption-driven method
// choice, preconditioning, budget exhaustion.
package solver_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/linsolve/operand"
	"github.com/katalvlaran/linsolve/solver"
)

// spdOperator wraps the SPD matrix diag(2..n+1) as a matrix-free closure.
func spdOperator(t *testing.T, n int) *operand.Operator {
	t.Helper()
	op, err := operand.NewOperator(n, n, func(dst, x []float64) {
		for i := range dst {
			dst[i] = float64(i+2) * x[i]
		}
	})
	require.NoError(t, err)
	return op
}

func TestIterative_OperatorDefaultsToBiCGStab(t *testing.T) {
	t.Parallel()
	op := spdOperator(t, 5)
	b := mustApply(t, op, onesVec(5), 5)

	ws, err := solver.Init(solver.Problem{A: op, B: b}, solver.Default())
	require.NoError(t, err)
	res, err := ws.Solve()
	require.NoError(t, err)
	require.Equal(t, solver.KindBiCGStab, res.Kind)
	require.Positive(t, res.Iterations)
	requireSolution(t, onesVec(5), res.U, 1e-6)
}

func TestIterative_SPDAssumptionSteersToCG(t *testing.T) {
	t.Parallel()
	op := spdOperator(t, 5)
	b := mustApply(t, op, onesVec(5), 5)

	ws, err := solver.Init(solver.Problem{A: op, B: b}, solver.Default(),
		solver.WithAssumptions(solver.Assumptions{Symmetric: true, PositiveDefinite: true}))
	require.NoError(t, err)
	res, err := ws.Solve()
	require.NoError(t, err)
	require.Equal(t, solver.KindCG, res.Kind)
	requireSolution(t, onesVec(5), res.U, 1e-6)
}

func TestIterative_CGOnSparseMatrix(t *testing.T) {
	t.Parallel()
	m := spdTridiagCSC(t, 50)
	want := make([]float64, 50)
	for i := range want {
		want[i] = float64(i % 5)
	}
	b := mustApply(t, m, want, 50)

	alg, err := solver.CG()
	require.NoError(t, err)
	ws, err := solver.Init(solver.Problem{A: m, B: b}, alg)
	require.NoError(t, err)
	res, err := ws.Solve()
	require.NoError(t, err)
	require.Equal(t, solver.StatusSuccess, res.Status)
	require.Positive(t, res.Iterations)
	require.Less(t, res.Residual, 1e-6)
	requireSolution(t, want, res.U, 1e-5)
}

func TestIterative_InitialGuessIsUsed(t *testing.T) {
	t.Parallel()
	op := spdOperator(t, 4)
	want := []float64{1, 2, 3, 4}
	b := mustApply(t, op, want, 4)

	alg, err := solver.CG()
	require.NoError(t, err)
	// An exact guess converges without a single iteration.
	ws, err := solver.Init(solver.Problem{A: op, B: b, Guess: want}, alg)
	require.NoError(t, err)
	res, err := ws.Solve()
	require.NoError(t, err)
	require.Zero(t, res.Iterations)
	requireSolution(t, want, res.U, 1e-12)
}

func TestIterative_LeftPreconditioner(t *testing.T) {
	t.Parallel()
	m := spdTridiagCSC(t, 40)
	b := mustApply(t, m, onesVec(40), 40)

	jacobi := func(dst, rhs []float64) error {
		for i := range dst {
			dst[i] = rhs[i] / 4
		}
		return nil
	}

	alg, err := solver.CG()
	require.NoError(t, err)
	ws, err := solver.Init(solver.Problem{A: m, B: b}, alg,
		solver.WithPreconditioner(jacobi, nil))
	require.NoError(t, err)
	res, err := ws.Solve()
	require.NoError(t, err)
	requireSolution(t, onesVec(40), res.U, 1e-5)
}

func TestIterative_RightPreconditioner(t *testing.T) {
	t.Parallel()
	op := spdOperator(t, 6)
	want := []float64{1, -1, 2, -2, 3, -3}
	b := mustApply(t, op, want, 6)

	right := func(dst, rhs []float64) error {
		for i := range dst {
			dst[i] = rhs[i] / float64(i+2)
		}
		return nil
	}

	alg, err := solver.BiCGStab()
	require.NoError(t, err)
	ws, err := solver.Init(solver.Problem{A: op, B: b}, alg,
		solver.WithPreconditioner(nil, right))
	require.NoError(t, err)
	res, err := ws.Solve()
	require.NoError(t, err)
	requireSolution(t, want, res.U, 1e-6)
}

func TestIterative_BudgetExhaustionIsReported(t *testing.T) {
	t.Parallel()
	m := spdTridiagCSC(t, 60)
	b := mustApply(t, m, onesVec(60), 60)

	alg, err := solver.CG()
	require.NoError(t, err)
	ws, err := solver.Init(solver.Problem{A: m, B: b}, alg,
		solver.WithMaxIterations(1), solver.WithTolerances(0, 1e-14))
	require.NoError(t, err)
	res, err := ws.Solve()
	require.ErrorIs(t, err, solver.ErrNonConvergence)
	require.Equal(t, solver.StatusMaxIterations, res.Status)
	require.Equal(t, 1, res.Iterations)
	require.NotNil(t, res.U, "best iterate is still reported")
}

func TestIterative_DenseMatrixAcceptedMatrixFree(t *testing.T) {
	t.Parallel()
	// Iterative kinds may be requested explicitly for any applier operand.
	a := mustDense(t, 3, 3, []float64{
		5, 1, 0,
		1, 5, 1,
		0, 1, 5,
	})
	want := []float64{1, 0, -1}
	b := mustApply(t, a, want, 3)

	alg, err := solver.BiCGStab()
	require.NoError(t, err)
	ws, err := solver.Init(solver.Problem{A: a, B: b}, alg)
	require.NoError(t, err)
	res, err := ws.Solve()
	require.NoError(t, err)
	requireSolution(t, want, res.U, 1e-6)
}

// Capability-table behavior: construction-time validation, extension
// registration, configuration errors.
package solver_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/linsolve/operand"
	"github.com/katalvlaran/linsolve/solver"
)

func TestNewAlgorithm_UnregisteredKindFailsFast(t *testing.T) {
	t.Parallel()
	_, err := solver.NewAlgorithm(solver.KindExtensionBase + 7)
	require.ErrorIs(t, err, solver.ErrBackendUnavailable)
}

func TestAlgOption_Validation(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name  string
		build func() (solver.Algorithm, error)
	}{
		{"pivot-none-on-lu", func() (solver.Algorithm, error) {
			return solver.LU(solver.WithPivot(solver.PivotNone))
		}},
		{"pivot-partial-on-ldlt", func() (solver.Algorithm, error) {
			return solver.LDLT(solver.WithPivot(solver.PivotPartial))
		}},
		{"pivot-on-svd", func() (solver.Algorithm, error) {
			return solver.SVD(solver.WithPivot(solver.PivotPartial))
		}},
		{"pattern-check-on-dense", func() (solver.Algorithm, error) {
			return solver.LU(solver.WithPatternCheck(true))
		}},
		{"symbolic-reuse-on-cholesky", func() (solver.Algorithm, error) {
			return solver.Cholesky(solver.WithSymbolicReuse(true))
		}},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := tc.build()
			require.ErrorIs(t, err, solver.ErrBadConfig)
		})
	}
}

func TestAlgOption_AcceptedCombinations(t *testing.T) {
	t.Parallel()

	alg, err := solver.LU(solver.WithPivot(solver.PivotPartial))
	require.NoError(t, err)
	require.Equal(t, solver.PivotPartial, alg.Pivot())

	alg, err = solver.LDLT(solver.WithPivot(solver.PivotNone))
	require.NoError(t, err)
	require.Equal(t, solver.PivotNone, alg.Pivot())

	alg, err = solver.SparseLU(solver.WithSymbolicReuse(false), solver.WithPatternCheck(false))
	require.NoError(t, err)
	require.False(t, alg.ReuseSymbolic())
	require.False(t, alg.CheckPattern())
}

func TestRegister_ReservedKindsRejected(t *testing.T) {
	t.Parallel()
	err := solver.Register(stubBackend{kind: solver.KindLU})
	require.ErrorIs(t, err, solver.ErrBadConfig)
	err = solver.Register(stubBackend{kind: solver.KindSparseCholesky})
	require.ErrorIs(t, err, solver.ErrBadConfig)
}

func TestRegister_ExtensionBackendIsDispatchable(t *testing.T) {
	// Not parallel: mutates the process-wide registry.
	kind := solver.KindExtensionBase
	require.NoError(t, solver.Register(stubBackend{kind: kind}))
	require.ErrorIs(t, solver.Register(stubBackend{kind: kind}), solver.ErrBadConfig,
		"duplicate registration must fail")

	alg, err := solver.NewAlgorithm(kind)
	require.NoError(t, err)

	a := mustDense(t, 2, 2, []float64{3, 0, 0, 3})
	ws, err := solver.Init(solver.Problem{A: a, B: []float64{3, 6}}, alg)
	require.NoError(t, err)
	res, err := ws.Solve()
	require.NoError(t, err)
	require.Equal(t, kind, res.Kind)
	requireSolution(t, []float64{1, 2}, res.U, 1e-12)
}

// stubBackend is a trivial extension backend: it solves diagonal dense
// systems by division, enough to prove the dispatch plumbing.
type stubBackend struct{ kind solver.Kind }

func (s stubBackend) Kind() solver.Kind     { return s.kind }
func (s stubBackend) Traits() solver.Traits { return solver.Traits{NeedsSquare: true} }

func (s stubBackend) InitCache(*solver.Workspace, solver.Algorithm) (any, error) {
	return struct{}{}, nil
}

func (s stubBackend) Solve(ws *solver.Workspace, _ solver.Algorithm, _ any, _ bool) (solver.Result, error) {
	ea, ok := ws.A().(operand.EntryAccessor)
	if !ok {
		return solver.Result{Status: solver.StatusInfeasible}, solver.ErrStructuralMismatch
	}
	n, _ := ws.A().Dims()
	b := ws.B()
	u := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := ea.At(i, i)
		if err != nil {
			return solver.Result{Status: solver.StatusInfeasible}, err
		}
		if v == 0 {
			return solver.Result{Status: solver.StatusFailure},
				fmt.Errorf("stub: %w", solver.ErrSingular)
		}
		u[i] = b[i] / v
	}
	return solver.Result{U: u, Status: solver.StatusSuccess}, nil
}

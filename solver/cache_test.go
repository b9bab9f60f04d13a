// Freshness contract and factorization-cache behavior, observed through the
// workspace work counters.
package solver_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/linsolve/operand"
	"github.com/katalvlaran/linsolve/solver"
)

func TestCache_RepeatedSolvesReuseFactorization(t *testing.T) {
	t.Parallel()
	a := mustDense(t, 3, 3, []float64{
		4, 1, 2,
		1, 5, 1,
		2, 1, 6,
	})
	ws, err := solver.Init(solver.Problem{A: a, B: []float64{1, 2, 3}}, solver.Default())
	require.NoError(t, err)

	_, err = ws.Solve()
	require.NoError(t, err)
	require.NoError(t, ws.SetB([]float64{3, 2, 1}))
	_, err = ws.Solve()
	require.NoError(t, err)
	_, err = ws.Solve()
	require.NoError(t, err)

	st := ws.Stats()
	require.Equal(t, 3, st.Solves)
	require.Equal(t, 1, st.Factorizations, "only the first solve factorizes")
	require.Equal(t, 2, st.CacheHits)
	require.Zero(t, st.PatternRebuilds)
}

func TestCache_MarkFreshForcesRefactorization(t *testing.T) {
	t.Parallel()
	data := []float64{
		4, 1,
		1, 3,
	}
	a := mustDense(t, 2, 2, data)
	ws, err := solver.Init(solver.Problem{A: a, B: []float64{5, 4}}, solver.Default())
	require.NoError(t, err)

	res, err := ws.Solve()
	require.NoError(t, err)
	requireSolution(t, []float64{1, 1}, res.U, 1e-12)

	// In-place value mutation: without MarkFresh the stale factors would be
	// reused; with it the next solve refactors and sees the new values.
	require.NoError(t, a.Set(0, 0, 2))
	require.NoError(t, a.Set(1, 1, 2))
	require.NoError(t, a.Set(0, 1, 0))
	require.NoError(t, a.Set(1, 0, 0))
	ws.MarkFresh()
	require.NoError(t, ws.SetB([]float64{2, 4}))

	res, err = ws.Solve()
	require.NoError(t, err)
	requireSolution(t, []float64{1, 2}, res.U, 1e-12)
	require.Equal(t, 2, ws.Stats().Factorizations)
	require.Zero(t, ws.Stats().CacheHits)
}

func TestCache_SparseValueChangeReusesSymbolicState(t *testing.T) {
	t.Parallel()
	m := spdTridiagCSC(t, 30)
	want := make([]float64, 30)
	for i := range want {
		want[i] = 1
	}
	b := mustApply(t, m, want, 30)

	ws, err := solver.Init(solver.Problem{A: m, B: b}, solver.Default())
	require.NoError(t, err)
	_, err = ws.Solve()
	require.NoError(t, err)

	// Value-only update through the shared slice: same pattern, new numbers.
	vals := m.Values()
	for i := range vals {
		vals[i] *= 2
	}
	ws.MarkFresh()
	require.NoError(t, ws.SetB(mustApply(t, m, want, 30)))

	res, err := ws.Solve()
	require.NoError(t, err)
	requireSolution(t, want, res.U, 1e-8)

	st := ws.Stats()
	require.Equal(t, 2, st.Factorizations, "numeric refactor on both solves")
	require.Zero(t, st.PatternRebuilds, "matching pattern must not rebuild symbolic state")
	require.Zero(t, st.CacheHits)
}

func TestCache_SparsePatternChangeRebuilds(t *testing.T) {
	t.Parallel()
	alg, err := solver.SparseLU()
	require.NoError(t, err)

	m1 := spdTridiagCSC(t, 10)
	ws, err := solver.Init(solver.Problem{A: m1, B: make([]float64, 10)}, alg)
	require.NoError(t, err)
	b1 := mustApply(t, m1, onesVec(10), 10)
	require.NoError(t, ws.SetB(b1))
	_, err = ws.Solve()
	require.NoError(t, err)
	require.Zero(t, ws.Stats().PatternRebuilds)

	// A different nonzero structure (wider stencil) under the same kind and
	// category lands in the same slot and must trigger a symbolic rebuild.
	m2 := spdTridiagCSC(t, 12)
	require.NoError(t, ws.SetA(m2))
	require.NoError(t, ws.SetB(mustApply(t, m2, onesVec(12), 12)))
	res, err := ws.Solve()
	require.NoError(t, err)
	requireSolution(t, onesVec(12), res.U, 1e-8)

	st := ws.Stats()
	require.Equal(t, 2, st.Factorizations)
	require.Equal(t, 1, st.PatternRebuilds)
}

func TestCache_PatternCheckDisabledAlwaysRefactors(t *testing.T) {
	t.Parallel()
	alg, err := solver.SparseLU(solver.WithPatternCheck(false))
	require.NoError(t, err)

	m := spdTridiagCSC(t, 8)
	b := mustApply(t, m, onesVec(8), 8)
	ws, err := solver.Init(solver.Problem{A: m, B: b}, alg)
	require.NoError(t, err)

	_, err = ws.Solve()
	require.NoError(t, err)
	ws.MarkFresh()
	_, err = ws.Solve()
	require.NoError(t, err)

	st := ws.Stats()
	require.Equal(t, 2, st.Factorizations)
	require.Zero(t, st.PatternRebuilds, "no check means no rebuild accounting")
	require.Zero(t, st.CacheHits)
}

func TestCache_CategoryChangeLeavesOtherSlotsIntact(t *testing.T) {
	t.Parallel()
	dense := mustDense(t, 3, 3, []float64{
		4, 1, 2,
		1, 5, 1,
		2, 1, 6,
	})
	diag, err := operand.NewDiagonal([]float64{2, 2, 2})
	require.NoError(t, err)

	ws, err := solver.Init(solver.Problem{A: dense, B: []float64{1, 2, 3}}, solver.Default())
	require.NoError(t, err)
	_, err = ws.Solve()
	require.NoError(t, err)

	// Swap to a different category and back: the dense LU slot must survive
	// the detour (slots are keyed by kind and category, never evicted by a
	// dispatch change).
	require.NoError(t, ws.SetA(diag))
	require.NoError(t, ws.SetB([]float64{2, 4, 6}))
	_, err = ws.Solve()
	require.NoError(t, err)

	require.NoError(t, ws.SetA(dense))
	require.NoError(t, ws.SetB([]float64{1, 2, 3}))
	res, err := ws.Solve()
	require.NoError(t, err)
	require.Equal(t, solver.KindLU, res.Kind)

	st := ws.Stats()
	require.Equal(t, 3, st.Solves)
	// Dense factorized once; the diagonal path never factorizes; the third
	// solve refactors because SetA raised the freshness bit.
	require.Equal(t, 2, st.Factorizations)
}

func TestCache_SingularDropsSlot(t *testing.T) {
	t.Parallel()
	alg, err := solver.TridiagonalLU(solver.WithAlias(false, false))
	require.NoError(t, err)

	bad, err := operand.NewTridiagonal([]float64{1}, []float64{0, 1}, []float64{1})
	require.NoError(t, err)
	ws, err := solver.Init(solver.Problem{A: bad, B: []float64{1, 1}}, alg)
	require.NoError(t, err)
	res, err := ws.Solve()
	require.ErrorIs(t, err, solver.ErrSingular)
	require.Equal(t, solver.StatusFailure, res.Status)
	require.Zero(t, ws.Stats().Factorizations)

	// A corrected operand after the slot was dropped solves cleanly.
	good, err := operand.NewTridiagonal([]float64{1}, []float64{2, 2}, []float64{1})
	require.NoError(t, err)
	require.NoError(t, ws.SetA(good))
	res, err = ws.Solve()
	require.NoError(t, err)
	require.Equal(t, solver.StatusSuccess, res.Status)
	require.Equal(t, 1, ws.Stats().Factorizations)
}

// onesVec returns a length-n vector of ones.
func onesVec(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}
	return v
}

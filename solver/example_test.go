package solver_test

import (
	"fmt"

	"github.com/katalvlaran/linsolve/operand"
	"github.com/katalvlaran/linsolve/solver"
)

// Example solves a small dense system under the default policy: a square
// general dense operand dispatches to LU.
func Example() {
	a, _ := operand.NewDenseFrom(2, 2, []float64{
		2, 1,
		1, 3,
	})
	ws, _ := solver.Init(solver.Problem{A: a, B: []float64{5, 10}}, solver.Default())
	res, _ := ws.Solve()
	fmt.Printf("%s %s [%.0f %.0f]\n", res.Kind, res.Status, res.U[0], res.U[1])
	// Output: lu success [1 3]
}

// ExampleWorkspace_SetB reuses a cached factorization across right-hand
// sides: only the first solve factorizes.
func ExampleWorkspace_SetB() {
	d, _ := operand.NewDiagonal([]float64{2, 5})
	ws, _ := solver.Init(solver.Problem{A: d, B: []float64{4, 10}}, solver.Default())
	r1, _ := ws.Solve()
	_ = ws.SetB([]float64{6, 25})
	r2, _ := ws.Solve()
	fmt.Printf("[%.0f %.0f] [%.0f %.0f]\n", r1.U[0], r1.U[1], r2.U[0], r2.U[1])
	// Output: [2 2] [3 5]
}

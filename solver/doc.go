// Package solver dispatches linear systems Ax = b to factorization and
// iterative backends, caching factorization state across repeated solves.
//
// The solver package provides:
//
//   - Algorithm: the closed set of algorithm variants, each carrying its
//     own immutable configuration (pivoting, symbolic-reuse and
//     pattern-check flags, aliasing declarations).
//   - The default policy: a pure decision table mapping the structural
//     category of A (from operand.Classify) to a concrete algorithm.
//   - Workspace: the solve context owning the factorization cache. Slots
//     are keyed by (algorithm kind, structural category), so switching the
//     resolved default across calls never discards unrelated slots.
//   - The backend protocol: every backend implements InitCache (allocate
//     reusable state from structure alone) and Solve (reuse-or-refactor
//     according to freshness and, for sparse backends, a pattern check).
//
// Typical usage:
//
//	ws, err := solver.Init(solver.Problem{A: a, B: b}, solver.Default())
//	res, err := ws.Solve()      // factorize + solve
//	ws.SetA(a2)                 // values changed, same pattern
//	res, err = ws.Solve()       // numeric refactor, symbolic state reused
//
// Failure discipline: numerical failure (singular pivot, loss of positive
// definiteness, non-convergence) is surfaced in Result.Status and a sentinel
// error; the dispatcher never silently retries with another algorithm. The
// single documented exception is the sparse Cholesky backend, which may
// degrade to an LDLᵀ factorization within one call (Result.Escalated).
//
// A Workspace is not safe for concurrent use; independent Workspaces are
// fully independent and need no shared locking.
package solver

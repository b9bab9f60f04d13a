// Package linsolve is your in-memory toolbox for solving linear systems
// Ax = b: one entry point, many factorization and iterative backends,
// with factorization state cached across repeated solves.
//
// 🚀 What is linsolve?
//
//	A polymorphic dispatcher that picks the right algorithm for the
//	matrix you hand it:
//		• Dense: LU, QR, Cholesky, LDLᵀ, SVD
//		• Structured: diagonal, tridiagonal, bidiagonal fast paths
//		• Sparse CSC: direct LU / Cholesky with symbolic-state reuse
//		• Matrix-free: CG and BiCGStab over an operator closure
//
// ✨ Why choose linsolve?
//
//   - One workspace, many solves: factorizations are cached and reused
//     when only the matrix values (not the sparsity structure) change
//   - Explicit, deterministic defaults: the dispatch table is a pure
//     function of the matrix representation, never of its values
//   - Honest failure reporting: numerical failure is a status, never a
//     silent retry with a different algorithm
//
// Everything is organized under three subpackages:
//
//	operand/ - matrix & operator representations + the structural probe
//	krylov/  - reactive iterative-method engine (CG, BiCGStab)
//	solver/  - algorithm registry, default policy, cache, dispatch
//
// Quick sketch:
//
//	A·x = b   ──►  solver.Init(problem, solver.Default())
//	               ws.Solve()        // factorize + solve
//	               ws.SetA(A2)       // same pattern, new values
//	               ws.Solve()        // numeric refactor, symbolic reuse
//
// Dive into DESIGN.md for the dispatch table, the cache-reuse policy and
// the backend protocol.
//
//	go get github.com/katalvlaran/linsolve
package linsolve

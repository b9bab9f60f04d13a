// Package krylov implements Krylov-subspace iterative methods for solving
// linear systems Ax = b through repeated application of the operator.
//
// The package follows a reactive design: a Method does no matrix operations
// itself. Iterate returns the Operation it needs next (matrix-vector
// product, preconditioner solve, convergence check) and the Solve driver
// performs it, so the same method works for any operator representation:
// dense, sparse, or a bare closure.
//
// Methods:
//
//   - CG: conjugate gradients, for symmetric positive-definite systems.
//   - BiCGStab: stabilized bi-conjugate gradients, for general systems.
//
// Neither method allocates factorization state: the only per-solve memory
// is a handful of work vectors sized by Method.Init.
package krylov

// Package operand provides the matrix and operator representations consumed
// by the solver, together with the structural probe that classifies them.
//
// The operand package provides:
//
//   - Dense: row-major dense storage with bounds-safe accessors.
//   - CSC: compressed sparse column storage with pattern fingerprinting,
//     the currency of the sparse direct backends.
//   - Diagonal, Tridiagonal, Bidiagonal: banded fast-path representations.
//   - SymDense: a wrapper asserting symmetry of a dense matrix.
//   - Operator: a matrix-free operator defined only by its matrix-vector
//     product; factorization backends reject it by construction.
//   - Classify: the pure, representation-based structural probe driving
//     default-algorithm selection and cache-slot keying in solver.
//
// Classification never inspects numerical values: it is O(1) per call and
// deterministic, so repeated probes of the same representation always land
// in the same category. Unknown representations fall closed into a generic
// category served by slower, allocation-heavy dense backends.
//
// See the solver package for how categories map to concrete algorithms.
package operand

// Package matrix provides the sparse and dense containers used to carry
// point-cloud operators from the solver to disk, plus the numerical checks run
// on them.
//
// The matrix package provides:
//
//   - CSR[T], a compressed-sparse-row matrix over float64 or complex128 with
//     sorted, de-duplicated column indices per row.
//   - Triplets[T], a coordinate (COO) accumulator used to assemble CSR
//     matrices; duplicate (i,j) entries are summed on Build.
//   - ToDense / ToCDense converters into gonum dense forms.
//   - RealEmbed, mapping an n×n complex operator to its 2n×2n real form
//     with 2×2 blocks [[re, -im], [im, re]].
//   - IsHermitian, a diagnostic comparing a dense complex matrix against its
//     conjugate transpose under numpy-style allclose tolerances.
//
// Matrices are immutable once built: no exported method mutates a CSR.
//
// See the examples in this package for usage patterns.
package matrix

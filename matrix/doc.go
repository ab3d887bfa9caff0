// Package matrix offers the sparse matrix representation shared by the MSM
// estimation pipeline.
//
// The matrix package provides:
//
//   - Builder: an accumulating coordinate-format (COO) builder. Repeated Add
//     calls on the same cell sum their values, which is how transition counts
//     are collected frame by frame.
//   - CSR: an immutable compressed-sparse-row matrix with O(log k) At lookups,
//     O(1) row access and O(nnz) memory.
//   - Kernels: Transpose, Add, Scale, Symmetrize, Submatrix, RowSums, ColSums,
//     NormalizeRowsL1 and AllClose, all with deterministic row-major loop order.
//
// Count matrices of molecular simulations are large (10⁴–10⁶ states) and very
// sparse, so dense storage is only produced on request (ToDense) for small
// matrices handed to gonum's eigen solvers.
//
// See the examples in this package for usage patterns.
package matrix

// Package stationary turns a (symmetrized) count matrix into a
// row-stochastic transition matrix T and its equilibrium populations π,
// the left eigenvector of T with eigenvalue 1 (πT = π, Σπ = 1).
//
// Paths:
//
//   - Supplied: populations passed with WithPopulations (the MLE by-product)
//     are normalized and returned as is.
//   - Dense (n ≤ DenseLimit): gonum mat.Eigen on Tᵀ. The model is ill posed
//     when more than one eigenvalue lies within Tolerance of 1, when none
//     does, or when the eigenvector has mixed signs.
//   - Sparse (n > DenseLimit): the support graph of T must have exactly one
//     closed communicating class; π is then found by power iteration on the
//     lazy chain (T + I)/2, which is aperiodic even when T is periodic.
//
// Rows of S summing to zero cannot be normalized. They are reported in
// Result.DegenerateRows and handled by the ZeroRowPolicy.
package stationary

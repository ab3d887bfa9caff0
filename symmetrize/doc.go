// Package symmetrize turns a raw transition-count matrix into a count matrix
// that satisfies detailed balance, so the resulting Markov model is
// reversible.
//
// Methods:
//
//   - None:      S = C (no correction; the model may be irreversible).
//   - Transpose: S = C + Cᵀ (naive symmetrization; biased toward the
//     empirical sampling distribution).
//   - MLE:       S = X, the maximum-likelihood symmetric matrix X whose row
//     normalization is the most likely reversible transition matrix for C.
//
// MLE is solved by the fixed-point iteration
//
//	X_ij ← (C'_ij + C'_ji) / (c_i/x_i + c_j/x_j),  x_i = Σ_j X_ij, c_i = Σ_j C'_ij
//
// started from X⁽⁰⁾ = (C' + C'ᵀ)/2, where C' is C plus an optional symmetric
// pseudo-count prior. The iteration is Jacobi-style (every entry updates from
// the same x) and walks stored entries in row-major order, so results are
// bit-for-bit reproducible. Its lifecycle is the State machine
// Initializing → Iterating → Converged | NonConverged.
//
// A non-converged MLE still returns its last iterate together with
// ErrNonConvergence, leaving the fallback decision to the caller.
package symmetrize

// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Row/column marginals and L1 row normalization of sparse matrices, the
//     building blocks of count → transition-probability conversion.
//
// Determinism & Performance:
//   - Fixed i→j traversal over stored entries only; O(r + nnz).

package matrix

import "math"

// RowSums returns r where r[i] = Σ_j m[i,j]. Complexity: O(r + nnz).
func RowSums(m *CSR) []float64 {
	out := make([]float64, m.r)
	var n int
	for i := 0; i < m.r; i++ {
		for n = m.indptr[i]; n < m.indptr[i+1]; n++ {
			out[i] += m.data[n]
		}
	}

	return out
}

// ColSums returns c where c[j] = Σ_i m[i,j]. Complexity: O(c + nnz).
func ColSums(m *CSR) []float64 {
	out := make([]float64, m.c)
	var n int
	for i := 0; i < m.r; i++ {
		for n = m.indptr[i]; n < m.indptr[i+1]; n++ {
			out[m.indices[n]] += m.data[n]
		}
	}

	return out
}

// NormalizeRowsL1 returns Y where each row i is scaled to L1-norm = 1, plus the
// per-row norms of the input.
// Implementation:
//   - Stage 1: compute per-row L1 norms Σ_j |m[i,j]|.
//   - Stage 2: copy the structure and divide each stored value by its row norm.
//
// Behavior highlights:
//   - Degenerate rows (norm==0) have no stored entries and remain zero; the
//     caller decides how to treat them (see stationary.ZeroRowPolicy).
//
// Errors:
//   - ErrNilMatrix.
//
// Complexity: O(r + nnz).
func NormalizeRowsL1(m *CSR) (*CSR, []float64, error) {
	if m == nil {
		return nil, nil, matrixErrorf(opNormalizeRowsL1, ErrNilMatrix)
	}
	norms := make([]float64, m.r)
	var i, n int
	for i = 0; i < m.r; i++ {
		for n = m.indptr[i]; n < m.indptr[i+1]; n++ {
			norms[i] += math.Abs(m.data[n])
		}
	}

	out := m.Clone()
	for i = 0; i < m.r; i++ {
		if norms[i] == 0 {
			continue
		}
		for n = out.indptr[i]; n < out.indptr[i+1]; n++ {
			out.data[n] /= norms[i]
		}
	}

	return out, norms, nil
}

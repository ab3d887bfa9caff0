// SPDX-License-Identifier: MIT
// Package matrix provides structural kernels on CSR: transpose, sum, scaling,
// symmetric part, order-preserving principal submatrix and approximate
// equality. All kernels allocate a fresh result and never mutate operands.
//
// Determinism:
//   - Every kernel walks rows in ascending order and merges columns in
//     ascending order, so floating-point sums are reproducible bit-for-bit.

package matrix

import (
	"fmt"
	"math"
)

// Transpose returns mᵀ.
// Implementation:
//   - Stage 1: count entries per column (these become row lengths of mᵀ).
//   - Stage 2: prefix-sum into offsets.
//   - Stage 3: scatter entries in row-major order of m, which keeps column
//     indices of mᵀ ascending within each row.
//
// Errors:
//   - ErrNilMatrix.
//
// Complexity: O(r + c + nnz).
func Transpose(m *CSR) (*CSR, error) {
	if m == nil {
		return nil, matrixErrorf(opTranspose, ErrNilMatrix)
	}
	out := &CSR{
		r:       m.c,
		c:       m.r,
		indptr:  make([]int, m.c+1),
		indices: make([]int, len(m.indices)),
		data:    make([]float64, len(m.data)),
	}
	for _, j := range m.indices {
		out.indptr[j+1]++
	}
	for j := 0; j < m.c; j++ {
		out.indptr[j+1] += out.indptr[j]
	}
	next := make([]int, m.c)
	copy(next, out.indptr[:m.c])

	var i, n, j, dst int
	for i = 0; i < m.r; i++ {
		for n = m.indptr[i]; n < m.indptr[i+1]; n++ {
			j = m.indices[n]
			dst = next[j]
			out.indices[dst] = i
			out.data[dst] = m.data[n]
			next[j]++
		}
	}

	return out, nil
}

// Add computes a + b for operands of identical shape.
// Rows are merged column-wise; cells whose sum is exactly zero are dropped.
// For integer-valued inputs (raw counts) the result is exact.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity: O(r + nnz(a) + nnz(b)).
func Add(a, b *CSR) (*CSR, error) {
	if a == nil || b == nil {
		return nil, matrixErrorf(opAdd, ErrNilMatrix)
	}
	if a.r != b.r || a.c != b.c {
		return nil, matrixErrorf(opAdd, ErrDimensionMismatch)
	}
	out := &CSR{
		r:       a.r,
		c:       a.c,
		indptr:  make([]int, a.r+1),
		indices: make([]int, 0, len(a.data)+len(b.data)),
		data:    make([]float64, 0, len(a.data)+len(b.data)),
	}

	var pa, pb, ea, eb int
	var v float64
	for i := 0; i < a.r; i++ {
		pa, ea = a.indptr[i], a.indptr[i+1]
		pb, eb = b.indptr[i], b.indptr[i+1]
		for pa < ea || pb < eb {
			switch {
			case pb >= eb || (pa < ea && a.indices[pa] < b.indices[pb]):
				out.indices = append(out.indices, a.indices[pa])
				out.data = append(out.data, a.data[pa])
				pa++
			case pa >= ea || b.indices[pb] < a.indices[pa]:
				out.indices = append(out.indices, b.indices[pb])
				out.data = append(out.data, b.data[pb])
				pb++
			default: // same column
				v = a.data[pa] + b.data[pb]
				if v != 0 {
					out.indices = append(out.indices, a.indices[pa])
					out.data = append(out.data, v)
				}
				pa++
				pb++
			}
		}
		out.indptr[i+1] = len(out.data)
	}

	return out, nil
}

// Scale returns alpha*m. A zero alpha yields a matrix with no stored entries.
//
// Errors:
//   - ErrNilMatrix, ErrNaNInf for non-finite alpha.
func Scale(m *CSR, alpha float64) (*CSR, error) {
	if m == nil {
		return nil, matrixErrorf(opScale, ErrNilMatrix)
	}
	if math.IsNaN(alpha) || math.IsInf(alpha, 0) {
		return nil, matrixErrorf(opScale, ErrNaNInf)
	}
	if alpha == 0 {
		return NewCSR(m.r, m.c)
	}
	out := m.Clone()
	for n := range out.data {
		out.data[n] *= alpha
	}

	return out, nil
}

// Symmetrize returns (m + mᵀ)/2. Deterministic composition: Transpose → Add → Scale.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare.
//
// Complexity: O(r + nnz).
func Symmetrize(m *CSR) (*CSR, error) {
	if m == nil {
		return nil, matrixErrorf(opSymmetrize, ErrNilMatrix)
	}
	if m.r != m.c {
		return nil, matrixErrorf(opSymmetrize, ErrNonSquare)
	}
	mt, err := Transpose(m)
	if err != nil {
		return nil, matrixErrorf(opSymmetrize, err)
	}
	sum, err := Add(m, mt)
	if err != nil {
		return nil, matrixErrorf(opSymmetrize, err)
	}

	return Scale(sum, 0.5)
}

// Submatrix returns the principal submatrix of square m restricted to keep,
// renumbered 0..len(keep)-1 in the order given. keep must be strictly
// increasing so that relative state order is preserved.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrOutOfRange, ErrUnsortedIndex.
//
// Complexity: O(n + nnz) time, O(n) scratch.
func Submatrix(m *CSR, keep []int) (*CSR, error) {
	if m == nil {
		return nil, matrixErrorf(opSubmatrix, ErrNilMatrix)
	}
	if m.r != m.c {
		return nil, matrixErrorf(opSubmatrix, ErrNonSquare)
	}
	newIndex := make([]int, m.r)
	for i := range newIndex {
		newIndex[i] = -1
	}
	for k, old := range keep {
		if old < 0 || old >= m.r {
			return nil, fmt.Errorf("%s: keep[%d]=%d: %w", opSubmatrix, k, old, ErrOutOfRange)
		}
		if k > 0 && old <= keep[k-1] {
			return nil, fmt.Errorf("%s: keep[%d]=%d: %w", opSubmatrix, k, old, ErrUnsortedIndex)
		}
		newIndex[old] = k
	}

	out := &CSR{r: len(keep), c: len(keep), indptr: make([]int, len(keep)+1)}
	var n, nj int
	for k, old := range keep {
		for n = m.indptr[old]; n < m.indptr[old+1]; n++ {
			nj = newIndex[m.indices[n]]
			if nj < 0 {
				continue
			}
			// Columns stay ascending because newIndex is monotone on kept states.
			out.indices = append(out.indices, nj)
			out.data = append(out.data, m.data[n])
		}
		out.indptr[k+1] = len(out.data)
	}

	return out, nil
}

// AllClose reports whether |a[i,j]-b[i,j]| ≤ atol + rtol*|b[i,j]| for every cell,
// treating absent entries as zero.
//
// Policy:
//   - a and b must be non-nil and have identical shapes.
//   - rtol, atol are treated as |rtol|, |atol|.
//
// Complexity: O(r + nnz(a) + nnz(b)).
func AllClose(a, b Matrix, rtol, atol float64) (bool, error) {
	if math.IsNaN(rtol) || math.IsNaN(atol) || math.IsInf(rtol, 0) || math.IsInf(atol, 0) {
		return false, matrixErrorf(opAllClose, ErrNaNInf)
	}
	rtol, atol = math.Abs(rtol), math.Abs(atol)
	if err := ValidateBinarySameShape(a, b); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}

	within := func(av, bv float64) bool {
		return math.Abs(av-bv) <= atol+rtol*math.Abs(bv)
	}
	var pa, pb int
	for i := 0; i < a.Rows(); i++ {
		ac, av := a.Row(i)
		bc, bv := b.Row(i)
		pa, pb = 0, 0
		for pa < len(ac) || pb < len(bc) {
			switch {
			case pb >= len(bc) || (pa < len(ac) && ac[pa] < bc[pb]):
				if !within(av[pa], 0) {
					return false, nil
				}
				pa++
			case pa >= len(ac) || bc[pb] < ac[pa]:
				if !within(0, bv[pb]) {
					return false, nil
				}
				pb++
			default:
				if !within(av[pa], bv[pb]) {
					return false, nil
				}
				pa++
				pb++
			}
		}
	}

	return true, nil
}

// SPDX-License-Identifier: MIT

// Package matrix: CSR is the immutable compressed-sparse-row matrix used for
// count, symmetrized-count and transition-probability matrices.
package matrix

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// CSR stores r×c float64 values in compressed-sparse-row form.
// Row i occupies indices[indptr[i]:indptr[i+1]] (ascending column order) and
// the matching data slice. Stored values are never exactly zero.
type CSR struct {
	r, c    int
	indptr  []int     // len == r+1, indptr[0] == 0
	indices []int     // column of each stored entry
	data    []float64 // value of each stored entry
}

// NewCSR returns an r×c matrix with no stored entries.
//
// Errors:
//   - ErrBadShape when rows < 0 or cols < 0.
func NewCSR(rows, cols int) (*CSR, error) {
	if rows < 0 || cols < 0 {
		return nil, ErrBadShape
	}

	return &CSR{r: rows, c: cols, indptr: make([]int, rows+1)}, nil
}

// FromDense builds a CSR from a row-major slice of rows (convenience for
// tests and small literals). Every row must have len == cols.
//
// Errors:
//   - ErrBadShape for ragged input, ErrNaNInf for non-finite values.
func FromDense(rows [][]float64) (*CSR, error) {
	r := len(rows)
	c := 0
	if r > 0 {
		c = len(rows[0])
	}
	b, err := NewBuilder(r, c)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != c {
			return nil, fmt.Errorf("FromDense: row %d: %w", i, ErrBadShape)
		}
		for j, v := range row {
			if v == 0 {
				continue
			}
			if err = b.Add(i, j, v); err != nil {
				return nil, err
			}
		}
	}

	return b.CSR(), nil
}

// Rows returns the row count. Complexity: O(1).
func (m *CSR) Rows() int { return m.r }

// Cols returns the column count. Complexity: O(1).
func (m *CSR) Cols() int { return m.c }

// Shape packs Rows() and Cols() into a single call for convenience.
func (m *CSR) Shape() (rows, cols int) { return m.r, m.c }

// NNZ returns the number of stored entries. Complexity: O(1).
func (m *CSR) NNZ() int { return len(m.data) }

// At returns the value at (i, j), or 0 when the cell is not stored.
// Implementation:
//   - Stage 1: bounds-check (i, j).
//   - Stage 2: binary search j within row i's column indices.
//
// Errors:
//   - ErrOutOfRange (wrapped with coordinates).
//
// Complexity: O(log k), k = stored entries in row i.
func (m *CSR) At(i, j int) (float64, error) {
	if i < 0 || i >= m.r || j < 0 || j >= m.c {
		return 0, fmt.Errorf("%s(%d,%d): %w", opAt, i, j, ErrOutOfRange)
	}
	lo, hi := m.indptr[i], m.indptr[i+1]
	cols := m.indices[lo:hi]
	k := sort.SearchInts(cols, j)
	if k < len(cols) && cols[k] == j {
		return m.data[lo+k], nil
	}

	return 0, nil
}

// Row returns views of the column indices and values stored in row i.
// The returned slices MUST NOT be modified. Out-of-range rows yield nil slices.
// Complexity: O(1).
func (m *CSR) Row(i int) ([]int, []float64) {
	if i < 0 || i >= m.r {
		return nil, nil
	}
	lo, hi := m.indptr[i], m.indptr[i+1]

	return m.indices[lo:hi], m.data[lo:hi]
}

// RowNNZ returns the number of stored entries in row i (0 when out of range).
func (m *CSR) RowNNZ(i int) int {
	if i < 0 || i >= m.r {
		return 0
	}

	return m.indptr[i+1] - m.indptr[i]
}

// DoNonZero calls fn for every stored entry in row-major order.
func (m *CSR) DoNonZero(fn func(i, j int, v float64)) {
	var i, n int
	for i = 0; i < m.r; i++ {
		for n = m.indptr[i]; n < m.indptr[i+1]; n++ {
			fn(i, m.indices[n], m.data[n])
		}
	}
}

// Sum returns the sum of all stored values (fixed storage order).
func (m *CSR) Sum() float64 {
	var s float64
	for _, v := range m.data {
		s += v
	}

	return s
}

// Clone returns a deep copy that shares no storage with m.
// Complexity: O(r + nnz).
func (m *CSR) Clone() *CSR {
	out := &CSR{
		r:       m.r,
		c:       m.c,
		indptr:  make([]int, len(m.indptr)),
		indices: make([]int, len(m.indices)),
		data:    make([]float64, len(m.data)),
	}
	copy(out.indptr, m.indptr)
	copy(out.indices, m.indices)
	copy(out.data, m.data)

	return out
}

// WithValues returns a matrix with m's sparsity pattern and the given values,
// one per stored entry in row-major order. Entries whose new value is exactly
// zero are dropped so the stored-values-are-nonzero invariant holds.
//
// Errors:
//   - ErrDimensionMismatch when len(vals) != NNZ(), ErrNaNInf for non-finite values.
//
// Complexity: O(r + nnz).
func (m *CSR) WithValues(vals []float64) (*CSR, error) {
	if len(vals) != len(m.data) {
		return nil, matrixErrorf(opWithValues, ErrDimensionMismatch)
	}
	out := &CSR{
		r:       m.r,
		c:       m.c,
		indptr:  make([]int, m.r+1),
		indices: make([]int, 0, len(vals)),
		data:    make([]float64, 0, len(vals)),
	}
	var n int
	for i := 0; i < m.r; i++ {
		for n = m.indptr[i]; n < m.indptr[i+1]; n++ {
			if math.IsNaN(vals[n]) || math.IsInf(vals[n], 0) {
				return nil, fmt.Errorf("%s(%d,%d): %w", opWithValues, i, m.indices[n], ErrNaNInf)
			}
			if vals[n] == 0 {
				continue
			}
			out.indices = append(out.indices, m.indices[n])
			out.data = append(out.data, vals[n])
		}
		out.indptr[i+1] = len(out.data)
	}

	return out, nil
}

// ToDense materializes m as a gonum *mat.Dense.
// Only intended for small matrices (eigen solves, test assertions);
// memory is O(r*c). A 0×0 matrix yields nil because gonum rejects empty shapes.
func (m *CSR) ToDense() *mat.Dense {
	if m.r == 0 || m.c == 0 {
		return nil
	}
	d := mat.NewDense(m.r, m.c, nil)
	m.DoNonZero(func(i, j int, v float64) { d.Set(i, j, v) })

	return d
}

// String renders a compact "CSR(r×c, nnz=k)" description for logs.
func (m *CSR) String() string {
	return fmt.Sprintf("CSR(%d×%d, nnz=%d)", m.r, m.c, len(m.data))
}

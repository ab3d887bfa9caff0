// SPDX-License-Identifier: MIT

// Package matrix: the read-only Matrix interface implemented by CSR.
package matrix

// Matrix is the uniform read access to a sparse matrix: element lookup,
// row iteration and the stored non-zero count.
//
// Complexity notes: Rows/Cols/NNZ are O(1); Row is O(1) and returns views into
// the underlying storage; At is O(log k) for k non-zeros in the row.
type Matrix interface {
	// Rows returns the number of rows in the matrix.
	Rows() int

	// Cols returns the number of columns in the matrix.
	Cols() int

	// At retrieves the element at position (i, j); absent entries read as 0.
	// Returns ErrOutOfRange if i or j is outside the shape.
	At(i, j int) (float64, error)

	// Row returns the column indices (ascending) and values of the stored
	// entries of row i. The slices alias internal storage and MUST NOT be
	// modified. An out-of-range i yields empty slices.
	Row(i int) ([]int, []float64)

	// NNZ returns the number of stored (non-zero) entries.
	NNZ() int
}

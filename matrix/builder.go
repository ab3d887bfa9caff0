// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Accumulate (row, col, value) contributions in coordinate form and freeze
//     them into an immutable CSR.
//   - Keep memory proportional to the number of distinct cells touched, not to
//     rows*cols or to the number of Add calls.
//
// Determinism:
//   - Cells live in a hash map during accumulation, but CSR() sorts the keys
//     row-major before emitting storage, so the frozen matrix never depends on
//     map iteration order.

package matrix

import (
	"fmt"
	"math"
	"sort"
)

// Builder accumulates sparse entries. Adding to an existing cell sums values.
// A Builder is not safe for concurrent use.
type Builder struct {
	r, c  int
	cells map[int64]float64 // key = row*c + col
}

// NewBuilder returns an empty rows×cols builder.
// Zero-sized shapes are legal (an empty model); negative shapes are not.
//
// Errors:
//   - ErrBadShape when rows < 0 or cols < 0.
//
// Complexity: O(1).
func NewBuilder(rows, cols int) (*Builder, error) {
	if rows < 0 || cols < 0 {
		return nil, ErrBadShape
	}

	return &Builder{r: rows, c: cols, cells: make(map[int64]float64)}, nil
}

// Add accumulates v into cell (i, j).
// Implementation:
//   - Stage 1: bounds-check (i, j) against the builder shape.
//   - Stage 2: reject NaN/±Inf so the frozen matrix stays finite.
//   - Stage 3: sum into the cell.
//
// Errors:
//   - ErrOutOfRange, ErrNaNInf (wrapped with coordinates).
//
// Complexity: O(1) amortized.
func (b *Builder) Add(i, j int, v float64) error {
	if i < 0 || i >= b.r || j < 0 || j >= b.c {
		return fmt.Errorf("%s(%d,%d): %w", opBuilderAdd, i, j, ErrOutOfRange)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s(%d,%d): %w", opBuilderAdd, i, j, ErrNaNInf)
	}
	b.cells[b.key(i, j)] += v

	return nil
}

// Len returns the number of distinct cells touched so far (including cells
// that currently sum to zero).
func (b *Builder) Len() int { return len(b.cells) }

// Shape returns the builder dimensions.
func (b *Builder) Shape() (rows, cols int) { return b.r, b.c }

// CSR freezes the accumulated entries into a compressed-sparse-row matrix.
// Cells whose accumulated value is exactly zero are dropped.
// The builder remains usable afterwards; the CSR does not alias it.
//
// Complexity: O(k log k) for k touched cells.
func (b *Builder) CSR() *CSR {
	keys := make([]int64, 0, len(b.cells))
	for k, v := range b.cells {
		if v != 0 {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(x, y int) bool { return keys[x] < keys[y] })

	m := &CSR{
		r:       b.r,
		c:       b.c,
		indptr:  make([]int, b.r+1),
		indices: make([]int, len(keys)),
		data:    make([]float64, len(keys)),
	}
	var row, col int
	for n, k := range keys {
		row, col = b.split(k)
		m.indptr[row+1]++
		m.indices[n] = col
		m.data[n] = b.cells[k]
	}
	// Prefix-sum the per-row counts into offsets.
	for i := 0; i < b.r; i++ {
		m.indptr[i+1] += m.indptr[i]
	}

	return m
}

func (b *Builder) key(i, j int) int64 { return int64(i)*int64(b.c) + int64(j) }

func (b *Builder) split(k int64) (int, int) {
	return int(k / int64(b.c)), int(k % int64(b.c))
}

// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers.
//
// Purpose:
//   • Provide small, deterministic fixtures for sparse kernels.

package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stephenliu1989/msmbuilder-legacy/matrix"
)

// MustCSR builds a CSR from dense rows or fails the test.
func MustCSR(t testing.TB, rows [][]float64) *matrix.CSR {
	t.Helper()
	m, err := matrix.FromDense(rows)
	require.NoError(t, err)

	return m
}

// MustAt reads (i,j) or fails the test.
func MustAt(t testing.TB, m matrix.Matrix, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	require.NoError(t, err)

	return v
}

// requireDense asserts that m equals want cell by cell (exact comparison).
func requireDense(t testing.TB, m matrix.Matrix, want [][]float64) {
	t.Helper()
	require.Equal(t, len(want), m.Rows(), "rows")
	for i := range want {
		require.Equal(t, len(want[i]), m.Cols(), "cols")
		for j := range want[i] {
			require.Equalf(t, want[i][j], MustAt(t, m, i, j), "cell (%d,%d)", i, j)
		}
	}
}

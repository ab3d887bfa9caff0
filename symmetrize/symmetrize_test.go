package symmetrize_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stephenliu1989/msmbuilder-legacy/matrix"
	"github.com/stephenliu1989/msmbuilder-legacy/symmetrize"
)

func mustCSR(t testing.TB, rows [][]float64) *matrix.CSR {
	t.Helper()
	m, err := matrix.FromDense(rows)
	require.NoError(t, err)

	return m
}

func at(t testing.TB, m *matrix.CSR, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	require.NoError(t, err)

	return v
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in   string
		want symmetrize.Method
	}{
		{"None", symmetrize.None},
		{"transpose", symmetrize.Transpose},
		{" MLE ", symmetrize.MLE},
	}
	for _, tc := range tests {
		got, err := symmetrize.ParseMethod(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
		assert.Equal(t, tc.want, mustParse(t, got.String()))
	}

	_, err := symmetrize.ParseMethod("Bayesian")
	require.ErrorIs(t, err, symmetrize.ErrUnknownMethod)
}

func mustParse(t *testing.T, s string) symmetrize.Method {
	t.Helper()
	m, err := symmetrize.ParseMethod(s)
	require.NoError(t, err)

	return m
}

func TestSymmetrize_None(t *testing.T) {
	c := mustCSR(t, [][]float64{{1, 2}, {0, 3}})

	res, err := symmetrize.Symmetrize(c, symmetrize.None)
	require.NoError(t, err)
	ok, err := matrix.AllClose(res.Counts, c, 0, 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotSame(t, c, res.Counts)
	assert.Nil(t, res.Populations)
}

func TestSymmetrize_Transpose(t *testing.T) {
	c := mustCSR(t, [][]float64{{1, 2}, {0, 3}})

	res, err := symmetrize.Symmetrize(c, symmetrize.Transpose)
	require.NoError(t, err)
	want := mustCSR(t, [][]float64{{2, 2}, {2, 6}})
	ok, err := matrix.AllClose(res.Counts, want, 0, 0)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, matrix.ValidateSymmetric(res.Counts, 0))
}

func TestSymmetrize_MLE_SymmetricInputIsFixedPoint(t *testing.T) {
	c := mustCSR(t, [][]float64{
		{4, 1, 0},
		{1, 2, 3},
		{0, 3, 5},
	})

	res, err := symmetrize.Symmetrize(c, symmetrize.MLE)
	require.NoError(t, err)
	assert.Equal(t, symmetrize.Converged, res.State)
	assert.Equal(t, 1, res.Iterations)
	ok, err := matrix.AllClose(res.Counts, c, 0, 0)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSymmetrize_MLE_TwoStatesMatchesEmpiricalRows(t *testing.T) {
	// Every two-state chain is reversible, so the MLE transition matrix is
	// the row-normalized count matrix.
	c := mustCSR(t, [][]float64{{6, 2}, {1, 3}})

	res, err := symmetrize.Symmetrize(c, symmetrize.MLE)
	require.NoError(t, err)
	require.NoError(t, matrix.ValidateSymmetric(res.Counts, 1e-12))

	tm, _, err := matrix.NormalizeRowsL1(res.Counts)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, at(t, tm, 0, 0), 1e-8)
	assert.InDelta(t, 0.25, at(t, tm, 0, 1), 1e-8)
	assert.InDelta(t, 0.25, at(t, tm, 1, 0), 1e-8)
	assert.InDelta(t, 0.75, at(t, tm, 1, 1), 1e-8)

	// π ∝ (1/p01, 1/p10)⁻¹ → π0/π1 = p10/p01 = 1.
	require.Len(t, res.Populations, 2)
	assert.InDelta(t, 0.5, res.Populations[0], 1e-8)
	assert.InDelta(t, 0.5, res.Populations[1], 1e-8)
}

func TestSymmetrize_MLE_DetailedBalanceAndRowCounts(t *testing.T) {
	c := mustCSR(t, [][]float64{
		{10, 3, 0, 1},
		{1, 8, 4, 0},
		{0, 2, 6, 5},
		{3, 0, 1, 9},
	})

	res, err := symmetrize.Symmetrize(c, symmetrize.MLE)
	require.NoError(t, err)
	assert.Equal(t, symmetrize.Converged, res.State)
	require.NoError(t, matrix.ValidateSymmetric(res.Counts, 1e-9))

	// At the fixed point Σ_j X_ij = x_i and populations equal x/Σx.
	xs := matrix.RowSums(res.Counts)
	var total float64
	for _, v := range xs {
		total += v
	}
	for i, v := range xs {
		assert.InDelta(t, v/total, res.Populations[i], 1e-12)
	}

	// X satisfies its own update rule: X_ij = (C_ij+C_ji)/(c_i/x_i + c_j/x_j).
	cs := matrix.RowSums(c)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			num := at(t, c, i, j) + at(t, c, j, i)
			want := num / (cs[i]/xs[i] + cs[j]/xs[j])
			assert.InDelta(t, want, at(t, res.Counts, i, j), 1e-6, "cell (%d,%d)", i, j)
		}
	}
}

func TestSymmetrize_MLE_Deterministic(t *testing.T) {
	c := mustCSR(t, [][]float64{{5, 1, 0}, {2, 0, 7}, {1, 4, 3}})

	a, err := symmetrize.Symmetrize(c, symmetrize.MLE)
	require.NoError(t, err)
	b, err := symmetrize.Symmetrize(c, symmetrize.MLE)
	require.NoError(t, err)
	assert.Equal(t, a.Iterations, b.Iterations)
	ok, err := matrix.AllClose(a.Counts, b.Counts, 0, 0)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSymmetrize_MLE_Prior(t *testing.T) {
	// One-way transition 0→1; prior fills 1→0 and both diagonals.
	c := mustCSR(t, [][]float64{{0, 2}, {0, 0}})

	res, err := symmetrize.Symmetrize(c, symmetrize.MLE, symmetrize.WithPrior(1))
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			assert.Greater(t, at(t, res.Counts, i, j), 0.0, "cell (%d,%d)", i, j)
		}
	}
	require.NoError(t, matrix.ValidateSymmetric(res.Counts, 1e-9))
}

func TestSymmetrize_MLE_NonConvergenceReturnsLastIterate(t *testing.T) {
	c := mustCSR(t, [][]float64{{1, 9, 0}, {1, 1, 9}, {9, 1, 1}})

	res, err := symmetrize.Symmetrize(c, symmetrize.MLE, symmetrize.WithMaxIter(1))
	require.ErrorIs(t, err, symmetrize.ErrNonConvergence)
	require.NotNil(t, res)
	assert.Equal(t, symmetrize.NonConverged, res.State)
	assert.Equal(t, 1, res.Iterations)
	assert.NotNil(t, res.Counts)
}

func TestSymmetrize_EmptyMatrix(t *testing.T) {
	c, err := matrix.NewCSR(3, 3)
	require.NoError(t, err)

	res, err := symmetrize.Symmetrize(c, symmetrize.MLE)
	require.NoError(t, err)
	assert.Equal(t, symmetrize.Converged, res.State)
	assert.Equal(t, 0, res.Iterations)
	assert.Equal(t, []float64{0, 0, 0}, res.Populations)
}

func TestSymmetrize_Errors(t *testing.T) {
	c := mustCSR(t, [][]float64{{1, 0}, {0, 1}})

	_, err := symmetrize.Symmetrize(c, symmetrize.MLE, symmetrize.WithPrior(-1))
	require.ErrorIs(t, err, symmetrize.ErrNegativePrior)
	_, err = symmetrize.Symmetrize(c, symmetrize.MLE, symmetrize.WithPrior(math.NaN()))
	require.ErrorIs(t, err, symmetrize.ErrNegativePrior)
	_, err = symmetrize.Symmetrize(c, symmetrize.Method(7))
	require.ErrorIs(t, err, symmetrize.ErrUnknownMethod)
	_, err = symmetrize.Symmetrize(mustCSR(t, [][]float64{{1, 2}}), symmetrize.None)
	require.ErrorIs(t, err, matrix.ErrNonSquare)
	_, err = symmetrize.Symmetrize(mustCSR(t, [][]float64{{1, -2}, {0, 0}}), symmetrize.None)
	require.ErrorIs(t, err, matrix.ErrNegative)
	_, err = symmetrize.Symmetrize(nil, symmetrize.None)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestOptionPanics(t *testing.T) {
	assert.Panics(t, func() { symmetrize.WithTolerance(0) })
	assert.Panics(t, func() { symmetrize.WithMaxIter(0) })
}

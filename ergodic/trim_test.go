package ergodic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stephenliu1989/msmbuilder-legacy/assignments"
	"github.com/stephenliu1989/msmbuilder-legacy/ergodic"
	"github.com/stephenliu1989/msmbuilder-legacy/matrix"
)

func mustCSR(t testing.TB, rows [][]float64) *matrix.CSR {
	t.Helper()
	m, err := matrix.FromDense(rows)
	require.NoError(t, err)

	return m
}

func requireSame(t testing.TB, want, got *matrix.CSR) {
	t.Helper()
	ok, err := matrix.AllClose(got, want, 0, 0)
	require.NoError(t, err)
	require.True(t, ok, "want %v, got %v", want, got)
}

func TestTrim_IsolatedState(t *testing.T) {
	c := mustCSR(t, [][]float64{
		{0, 1, 0},
		{1, 0, 0},
		{0, 0, 0},
	})

	res, err := ergodic.Trim(c)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, res.Kept)
	assert.Equal(t, assignments.Mapping{0, 1, -1}, res.Mapping)
	assert.InDelta(t, 1.0/3.0, res.DiscardedFraction, 1e-15)
	requireSame(t, mustCSR(t, [][]float64{{0, 1}, {1, 0}}), res.Counts)
}

func TestTrim_OneWaySink(t *testing.T) {
	// 0 ⇄ 1 → 2 ↺ : state 2 is entered but never left.
	c := mustCSR(t, [][]float64{
		{3, 2, 0},
		{2, 3, 1},
		{0, 0, 9},
	})

	res, err := ergodic.Trim(c)
	require.NoError(t, err)
	assert.Equal(t, assignments.Mapping{0, 1, -1}, res.Mapping)
}

func TestTrim_MappingPreservesOrder(t *testing.T) {
	// States 1 and 3 are unvisited; survivors keep their relative order.
	c := mustCSR(t, [][]float64{
		{0, 0, 2, 0, 1},
		{0, 0, 0, 0, 0},
		{1, 0, 0, 0, 1},
		{0, 0, 0, 0, 0},
		{1, 0, 1, 0, 0},
	})

	res, err := ergodic.Trim(c)
	require.NoError(t, err)
	assert.Equal(t, assignments.Mapping{0, -1, 1, -1, 2}, res.Mapping)
	assert.Equal(t, []int{0, 2, 4}, res.Kept)
	requireSame(t, mustCSR(t, [][]float64{
		{0, 2, 1},
		{1, 0, 1},
		{1, 1, 0},
	}), res.Counts)
}

func TestTrim_TieBreaks(t *testing.T) {
	t.Run("larger mass wins", func(t *testing.T) {
		c := mustCSR(t, [][]float64{
			{0, 1, 0, 0},
			{1, 0, 0, 0},
			{0, 0, 0, 5},
			{0, 0, 5, 0},
		})
		res, err := ergodic.Trim(c)
		require.NoError(t, err)
		assert.Equal(t, []int{2, 3}, res.Kept)
	})
	t.Run("equal mass keeps smallest index", func(t *testing.T) {
		c := mustCSR(t, [][]float64{
			{0, 2, 0, 0},
			{2, 0, 0, 0},
			{0, 0, 0, 2},
			{0, 0, 2, 0},
		})
		res, err := ergodic.Trim(c)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1}, res.Kept)
	})
}

func TestTrim_IteratesUntilStable(t *testing.T) {
	// Cycle 0→1→2→0 (5 counts each), 0 ⇄ 3 (1 each), 4 → 3 (1).
	// Round 1 drops 4 (support 1); round 2 then sees state 3 with support 2.
	c := mustCSR(t, [][]float64{
		{0, 5, 0, 1, 0},
		{0, 0, 5, 0, 0},
		{5, 0, 0, 0, 0},
		{1, 0, 0, 0, 0},
		{0, 0, 0, 1, 0},
	})

	res, err := ergodic.Trim(c, ergodic.WithMinSupport(3))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, res.Kept)
	assert.Equal(t, 3, res.Rounds)
	assert.InDelta(t, 0.4, res.DiscardedFraction, 1e-15)
}

func TestTrim_Idempotent(t *testing.T) {
	c := mustCSR(t, [][]float64{
		{1, 4, 0, 0, 0},
		{2, 0, 3, 0, 0},
		{0, 1, 0, 0, 2},
		{0, 0, 0, 7, 0},
		{0, 0, 0, 0, 0},
	})

	first, err := ergodic.Trim(c)
	require.NoError(t, err)
	second, err := ergodic.Trim(first.Counts)
	require.NoError(t, err)

	assert.Equal(t, assignments.IdentityMapping(len(first.Kept)), second.Mapping)
	assert.Zero(t, second.DiscardedFraction)
	requireSame(t, first.Counts, second.Counts)
}

func TestTrim_ZeroMinSupportKeepsSingleton(t *testing.T) {
	c := mustCSR(t, [][]float64{{0}})

	res, err := ergodic.Trim(c, ergodic.WithMinSupport(0))
	require.NoError(t, err)
	assert.Equal(t, []int{0}, res.Kept)
}

func TestTrim_NoErgodicComponent(t *testing.T) {
	c, err := matrix.NewCSR(3, 3)
	require.NoError(t, err)

	_, err = ergodic.Trim(c)
	require.ErrorIs(t, err, ergodic.ErrNoErgodicComponent)

	empty, err := matrix.NewCSR(0, 0)
	require.NoError(t, err)
	_, err = ergodic.Trim(empty)
	require.ErrorIs(t, err, ergodic.ErrNoErgodicComponent)
}

func TestTrim_InvalidInput(t *testing.T) {
	_, err := ergodic.Trim(nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
	_, err = ergodic.Trim(mustCSR(t, [][]float64{{1, 1}}))
	require.ErrorIs(t, err, matrix.ErrNonSquare)
	assert.Panics(t, func() { ergodic.WithMinSupport(-1) })
}

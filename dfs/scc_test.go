package dfs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stephenliu1989/msmbuilder-legacy/dfs"
	"github.com/stephenliu1989/msmbuilder-legacy/matrix"
)

func TestStronglyConnected_Classic(t *testing.T) {
	// {0,1,2} cycle → {3,4} cycle → 5 (sink), plus isolated 6.
	g := buildGraph(t, 7, [][2]int{
		{0, 1}, {1, 2}, {2, 0},
		{2, 3},
		{3, 4}, {4, 3},
		{4, 5},
	})

	comps, err := dfs.StronglyConnected(g)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 1, 2}, {3, 4}, {5}, {6}}, comps)
}

func TestStronglyConnected_Filtered(t *testing.T) {
	// Ring 0→1→2→3→0; removing 2 breaks it into singletons.
	g := buildGraph(t, 4, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}})

	comps, err := dfs.StronglyConnected(g)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 1, 2, 3}}, comps)

	comps, err = dfs.StronglyConnected(g, dfs.WithVertexFilter(func(v int) bool { return v != 2 }))
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0}, {1}, {3}}, comps)
}

func TestStronglyConnected_EmptyAndNil(t *testing.T) {
	_, err := dfs.StronglyConnected(nil)
	require.ErrorIs(t, err, dfs.ErrGraphNil)

	g := buildChain(t, 3)
	comps, err := dfs.StronglyConnected(g, dfs.WithVertexFilter(func(int) bool { return false }))
	require.NoError(t, err)
	assert.Empty(t, comps)
}

func TestClosedClasses(t *testing.T) {
	// {0,1} → {2,3} ; {2,3} is closed. Vertex 4 is a separate closed singleton.
	g := buildGraph(t, 5, [][2]int{{0, 1}, {1, 0}, {1, 2}, {2, 3}, {3, 2}})

	comps, err := dfs.StronglyConnected(g)
	require.NoError(t, err)
	require.Equal(t, [][]int{{0, 1}, {2, 3}, {4}}, comps)
	assert.Equal(t, []int{1, 2}, dfs.ClosedClasses(g, comps))

	// Restricting to the first two components ignores vertex 4.
	assert.Equal(t, []int{1}, dfs.ClosedClasses(g, comps[:2]))
}

func TestReverse_RoundTrip(t *testing.T) {
	g := buildGraph(t, 2, [][2]int{{0, 1}})

	r := dfs.Reverse(g)
	assert.Equal(t, []int{0}, r.Successors(1))
	assert.Empty(t, r.Successors(0))
	assert.Equal(t, []int{1}, dfs.Reverse(r).Successors(0))
}

func TestFromCSR_NonSquare(t *testing.T) {
	m, err := matrix.FromDense([][]float64{{1, 2}})
	require.NoError(t, err)

	_, err = dfs.FromCSR(m)
	require.ErrorIs(t, err, matrix.ErrNonSquare)
}

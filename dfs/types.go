// Package dfs defines the graph contract, options and result types for
// depth-first traversal and component analysis.
package dfs

import "errors"

var (
	// ErrGraphNil is returned when a nil Graph is passed to DFS or
	// StronglyConnected.
	ErrGraphNil = errors.New("dfs: graph is nil")

	// ErrStartVertexNotFound indicates that the start vertex is outside
	// [0, Order()) or rejected by the vertex filter.
	ErrStartVertexNotFound = errors.New("dfs: start vertex not found")
)

// Graph is a directed graph over vertices 0..Order()-1.
type Graph interface {
	// Order returns the number of vertices.
	Order() int

	// Successors returns the heads of the edges leaving u. The slice may alias
	// internal storage and is never modified by this package.
	Successors(u int) []int
}

// Reversible is a Graph that can also enumerate incoming edges.
type Reversible interface {
	Graph

	// Predecessors returns the tails of the edges entering u.
	Predecessors(u int) []int
}

// Option configures optional behavior of DFS traversal.
type Option func(*Options)

// Options holds configurable parameters for DFS traversal.
type Options struct {
	// FullTraversal, if true, restarts from every unvisited vertex (forest
	// traversal). The start argument of DFS is then ignored.
	FullTraversal bool

	// RootOrder, if non-nil in full traversal, lists the candidate roots in
	// the order they are tried. Vertices absent from RootOrder are reached
	// only through edges.
	RootOrder []int

	// VertexFilter, if non-nil, restricts traversal to vertices for which it
	// returns true (the induced subgraph). Filtered vertices are never visited.
	VertexFilter func(v int) bool

	// SkippedNeighbors counts neighbor edges skipped because of VertexFilter.
	SkippedNeighbors int
}

// DefaultOptions returns single-source traversal with no filter.
func DefaultOptions() Options {
	return Options{
		FullTraversal:    false,
		RootOrder:        nil,
		VertexFilter:     nil,
		SkippedNeighbors: 0,
	}
}

// WithFullTraversal returns an Option that enables forest traversal.
func WithFullTraversal() Option {
	return func(o *Options) {
		o.FullTraversal = true
	}
}

// WithRootOrder returns an Option that fixes the root order of a forest
// traversal. It implies WithFullTraversal.
func WithRootOrder(order []int) Option {
	return func(o *Options) {
		o.FullTraversal = true
		o.RootOrder = order
	}
}

// WithVertexFilter returns an Option that restricts traversal to vertices
// accepted by fn. A nil fn keeps every vertex.
func WithVertexFilter(fn func(v int) bool) Option {
	return func(o *Options) {
		o.VertexFilter = fn
	}
}

// Result captures the outcome of a depth-first traversal. Slices are indexed
// by vertex; unvisited vertices carry -1.
type Result struct {
	// Order records vertices in the sequence they finished (post-order).
	Order []int

	// Parent holds the vertex from which each vertex was discovered
	// (-1 for roots and unvisited vertices).
	Parent []int

	// Depth holds the tree depth of each visited vertex.
	Depth []int

	// Tree holds the ordinal of the DFS tree (0, 1, …) containing each vertex.
	Tree []int

	// Roots lists the root of every DFS tree, in traversal order.
	Roots []int

	// SkippedNeighbors reports how many neighbor edges were skipped by the
	// vertex filter, aggregated across all trees.
	SkippedNeighbors int
}

// Visited reports whether v was reached.
func (r *Result) Visited(v int) bool {
	return v >= 0 && v < len(r.Tree) && r.Tree[v] >= 0
}

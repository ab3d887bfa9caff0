package dfs

import "sort"

// reversed presents the transpose of a Reversible graph.
type reversed struct{ g Reversible }

func (r reversed) Order() int               { return r.g.Order() }
func (r reversed) Successors(u int) []int   { return r.g.Predecessors(u) }
func (r reversed) Predecessors(u int) []int { return r.g.Successors(u) }

// Reverse returns a view of g with every edge flipped. No copy is made.
func Reverse(g Reversible) Reversible {
	if rv, ok := g.(reversed); ok {
		return rv.g
	}

	return reversed{g: g}
}

// StronglyConnected returns the strongly connected components of g (restricted
// to vertices accepted by WithVertexFilter, if given) using Kosaraju's
// algorithm:
//
//  1. forest DFS on g, recording post-order;
//  2. forest DFS on gᵀ with roots taken in reverse post-order; every tree of
//     this second pass is exactly one component.
//
// Each component is sorted ascending and components are ordered by their
// smallest vertex, so the output does not depend on traversal details.
// Options other than WithVertexFilter are ignored.
//
// Complexity: O(V + E) time, O(V) memory.
func StronglyConnected(g Reversible, opts ...Option) ([][]int, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	dopts := DefaultOptions()
	for _, fn := range opts {
		fn(&dopts)
	}
	filter := WithVertexFilter(dopts.VertexFilter)

	// Pass 1: finishing order on g.
	first, err := DFS(g, 0, WithFullTraversal(), filter)
	if err != nil {
		return nil, err
	}
	order := make([]int, len(first.Order))
	for i, v := range first.Order {
		order[len(order)-1-i] = v
	}

	// Pass 2: trees of gᵀ in reverse post-order.
	second, err := DFS(Reverse(g), 0, WithRootOrder(order), filter)
	if err != nil {
		return nil, err
	}
	comps := make([][]int, len(second.Roots))
	for v, tree := range second.Tree {
		if tree >= 0 {
			comps[tree] = append(comps[tree], v) // v ascending ⇒ members sorted
		}
	}
	sort.Slice(comps, func(a, b int) bool { return comps[a][0] < comps[b][0] })

	return comps, nil
}

// ClosedClasses returns the indices (into comps) of components that no edge
// leaves. Successors outside every component are ignored, which lets callers
// analyze an induced subgraph. comps must be disjoint.
//
// Complexity: O(V + E).
func ClosedClasses(g Graph, comps [][]int) []int {
	member := fill(g.Order(), -1)
	for c, comp := range comps {
		for _, v := range comp {
			member[v] = c
		}
	}

	var closed []int
	var open bool
	for c, comp := range comps {
		open = false
		for _, v := range comp {
			for _, u := range g.Successors(v) {
				if member[u] >= 0 && member[u] != c {
					open = true
					break
				}
			}
			if open {
				break
			}
		}
		if !open {
			closed = append(closed, c)
		}
	}

	return closed
}

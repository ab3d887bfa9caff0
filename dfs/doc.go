// Package dfs implements depth‑first search and strongly-connected-component
// analysis on integer-indexed directed graphs such as the transition graph of
// a count matrix (edge i→j whenever C[i,j] > 0).
//
// What:
//
//   - DFS: iterative depth-first traversal (no recursion, so chains of 10⁶
//     states do not grow the goroutine stack). Supports:
//   - single-source or full-forest traversal (WithFullTraversal)
//   - explicit root order for the forest (WithRootOrder)
//   - vertex filtering to traverse an induced subgraph (WithVertexFilter)
//   - StronglyConnected: Kosaraju's two-pass algorithm built on DFS
//     (post-order on G, then forest traversal of Gᵀ in reverse post-order).
//   - ClosedClasses: the SCCs with no edge leaving them; a Markov chain has a
//     unique stationary distribution iff exactly one class is closed.
//
// Key Types:
//
//   - Graph: Order() and Successors(u); Reversible adds Predecessors(u).
//   - Option / Options: functional options for DFS behavior.
//   - Result: post-order, parents, depths and DFS-tree membership.
//
// Complexity:
//
//   - DFS:               Time O(V+E), Memory O(V)
//   - StronglyConnected: Time O(V+E), Memory O(V)
//   - ClosedClasses:     Time O(V+E), Memory O(V)
//
// Errors:
//
//   - ErrGraphNil             graph is nil
//   - ErrStartVertexNotFound  start vertex out of range or filtered out
//
// Determinism: neighbors are visited in the order Successors returns them and
// roots in ascending (or the given) order; components are reported sorted.
package dfs

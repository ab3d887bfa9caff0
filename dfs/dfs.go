// Package dfs implements iterative depth‑first search (single‑source and forest)
// on Graph.
//
// Complexity:
//
//   - Time:   O(V + E) for traversal, plus the cost of the vertex filter.
//   - Memory: O(V) for the explicit stack and per-vertex metadata.
//
// Errors:
//
//   - ErrGraphNil               if g is nil.
//   - ErrStartVertexNotFound    if start is out of range or filtered out.
package dfs

// frame is one explicit-stack entry: the vertex and the position of the next
// successor to examine.
type frame struct {
	v    int
	next int
}

// dfsWalker encapsulates state during DFS.
type dfsWalker struct {
	graph Graph    // underlying graph
	opts  *Options // traversal options
	res   *Result  // result collector
	stack []frame  // explicit recursion stack, reused across trees
}

// DFS performs depth‑first search on g. If opts include WithFullTraversal or
// WithRootOrder it covers all reachable components; otherwise it starts only
// from start. Returns the Result or an error for invalid input.
func DFS(g Graph, start int, opts ...Option) (*Result, error) {
	// 1. Validate input graph
	if g == nil {
		return nil, ErrGraphNil
	}

	// 2. Apply options
	dopts := DefaultOptions()
	for _, fn := range opts {
		fn(&dopts)
	}

	// 3. Single‑source mode: verify start
	n := g.Order()
	if !dopts.FullTraversal && (start < 0 || start >= n || !accept(&dopts, start)) {
		return nil, ErrStartVertexNotFound
	}

	// 4. Initialize result
	res := &Result{
		Order:  make([]int, 0, n),
		Parent: fill(n, -1),
		Depth:  fill(n, -1),
		Tree:   fill(n, -1),
	}
	walker := &dfsWalker{graph: g, opts: &dopts, res: res}

	// 5. Traverse: forest or single tree
	switch {
	case dopts.FullTraversal && dopts.RootOrder != nil:
		for _, v := range dopts.RootOrder {
			walker.tryRoot(v)
		}
	case dopts.FullTraversal:
		for v := 0; v < n; v++ {
			walker.tryRoot(v)
		}
	default:
		walker.traverse(start)
	}

	// 6. Expose diagnostics
	res.SkippedNeighbors = dopts.SkippedNeighbors

	return res, nil
}

// tryRoot starts a new tree at v unless it is out of range, filtered, or
// already visited.
func (w *dfsWalker) tryRoot(v int) {
	if v < 0 || v >= w.graph.Order() || w.res.Tree[v] >= 0 || !accept(w.opts, v) {
		return
	}
	w.traverse(v)
}

// traverse runs one DFS tree rooted at root using an explicit stack.
func (w *dfsWalker) traverse(root int) {
	tree := len(w.res.Roots)
	w.res.Roots = append(w.res.Roots, root)
	w.discover(root, -1, 0, tree)

	var top *frame
	var succ []int
	var u int
	var descended bool
	for len(w.stack) > 0 {
		top = &w.stack[len(w.stack)-1]
		succ = w.graph.Successors(top.v)

		// Advance to the next unvisited, accepted successor.
		descended = false
		for top.next < len(succ) {
			u = succ[top.next]
			top.next++
			if !accept(w.opts, u) {
				w.opts.SkippedNeighbors++
				continue
			}
			if w.res.Tree[u] < 0 {
				// discover may grow (and move) the stack; top is refreshed next round.
				w.discover(u, top.v, w.res.Depth[top.v]+1, tree)
				descended = true
				break
			}
		}
		if descended {
			continue
		}

		// All successors explored: finish (post-order) and pop.
		w.res.Order = append(w.res.Order, top.v)
		w.stack = w.stack[:len(w.stack)-1]
	}
}

// discover marks v visited and pushes it on the stack.
func (w *dfsWalker) discover(v, parent, depth, tree int) {
	w.res.Tree[v] = tree
	w.res.Parent[v] = parent
	w.res.Depth[v] = depth
	w.stack = append(w.stack, frame{v: v})
}

func accept(o *Options, v int) bool {
	return o.VertexFilter == nil || o.VertexFilter(v)
}

func fill(n, v int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}

	return out
}

package dfs

import "github.com/stephenliu1989/msmbuilder-legacy/matrix"

// csrGraph views a square sparse matrix as a directed graph: edge i→j for
// every stored entry (i, j). Stored entries are never zero, so the edge set is
// exactly the support of the matrix.
type csrGraph struct {
	fwd, bwd *matrix.CSR
}

// FromCSR returns the Reversible graph of m's support. Predecessor lists come
// from a one-time transpose (O(n + nnz)).
func FromCSR(m *matrix.CSR) (Reversible, error) {
	if err := matrix.ValidateSquare(m); err != nil {
		return nil, err
	}
	mt, err := matrix.Transpose(m)
	if err != nil {
		return nil, err
	}

	return csrGraph{fwd: m, bwd: mt}, nil
}

func (g csrGraph) Order() int { return g.fwd.Rows() }

func (g csrGraph) Successors(u int) []int {
	cols, _ := g.fwd.Row(u)
	return cols
}

func (g csrGraph) Predecessors(u int) []int {
	cols, _ := g.bwd.Row(u)
	return cols
}

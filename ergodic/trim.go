package ergodic

import (
	"fmt"

	"github.com/stephenliu1989/msmbuilder-legacy/assignments"
	"github.com/stephenliu1989/msmbuilder-legacy/dfs"
	"github.com/stephenliu1989/msmbuilder-legacy/matrix"
)

// Trim returns the maximal ergodic subset of the square count matrix c.
// c is not modified.
//
// Errors:
//   - matrix.ErrNilMatrix, matrix.ErrNonSquare, matrix.ErrNegative, matrix.ErrNaNInf.
//   - ErrNoErgodicComponent.
//
// Complexity: O(R·(n + nnz)) for R rounds; R is small in practice.
func Trim(c *matrix.CSR, opts ...Option) (*Result, error) {
	if err := matrix.ValidateSquare(c); err != nil {
		return nil, fmt.Errorf("ergodic: %w", err)
	}
	if err := matrix.ValidateNonNegative(c); err != nil {
		return nil, fmt.Errorf("ergodic: %w", err)
	}
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	g, err := dfs.FromCSR(c)
	if err != nil {
		return nil, fmt.Errorf("ergodic: %w", err)
	}

	n := c.Rows()
	active := make([]bool, n)
	for i := range active {
		active[i] = true
	}
	size := n
	rounds := 0
	for {
		rounds++
		dropUnsupported(c, active, o.MinSupport)

		comps, err := dfs.StronglyConnected(g, dfs.WithVertexFilter(func(v int) bool { return active[v] }))
		if err != nil {
			return nil, fmt.Errorf("ergodic: %w", err)
		}
		if len(comps) == 0 {
			return nil, fmt.Errorf("ergodic: %d states: %w", n, ErrNoErgodicComponent)
		}
		best := largest(c, comps)

		for i := range active {
			active[i] = false
		}
		for _, v := range best {
			active[v] = true
		}
		if len(best) == size {
			break
		}
		size = len(best)
	}

	kept := make([]int, 0, size)
	mapping := make(assignments.Mapping, n)
	for i := range mapping {
		mapping[i] = assignments.Sentinel
		if active[i] {
			mapping[i] = len(kept)
			kept = append(kept, i)
		}
	}
	sub, err := matrix.Submatrix(c, kept)
	if err != nil {
		return nil, fmt.Errorf("ergodic: %w", err)
	}

	return &Result{
		Counts:            sub,
		Mapping:           mapping,
		Kept:              kept,
		DiscardedFraction: 1 - float64(len(kept))/float64(n),
		Rounds:            rounds,
	}, nil
}

// dropUnsupported clears active[i] when row sum + column sum of i, taken over
// active states only, is below minSupport. Supports are computed from the
// active set at entry, so the result does not depend on state order.
func dropUnsupported(c *matrix.CSR, active []bool, minSupport float64) {
	support := make([]float64, len(active))
	c.DoNonZero(func(i, j int, v float64) {
		if active[i] && active[j] {
			support[i] += v
			support[j] += v
		}
	})
	for i, s := range support {
		if s < minSupport {
			active[i] = false
		}
	}
}

// largest picks the component with most states, then largest internal count
// mass, then smallest first member. comps arrive ordered by first member.
func largest(c *matrix.CSR, comps [][]int) []int {
	member := make([]int, c.Rows())
	for i := range member {
		member[i] = -1
	}
	for k, comp := range comps {
		for _, v := range comp {
			member[v] = k
		}
	}
	mass := make([]float64, len(comps))
	c.DoNonZero(func(i, j int, v float64) {
		if member[i] >= 0 && member[i] == member[j] {
			mass[member[i]] += v
		}
	})

	best := 0
	for k := 1; k < len(comps); k++ {
		switch {
		case len(comps[k]) > len(comps[best]):
			best = k
		case len(comps[k]) == len(comps[best]) && mass[k] > mass[best]:
			best = k
		}
	}

	return comps[best]
}

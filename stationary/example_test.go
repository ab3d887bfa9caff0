package stationary_test

import (
	"fmt"

	"github.com/stephenliu1989/msmbuilder-legacy/matrix"
	"github.com/stephenliu1989/msmbuilder-legacy/stationary"
)

// ExampleSolve computes equilibrium populations of a symmetric count matrix.
func ExampleSolve() {
	s, _ := matrix.FromDense([][]float64{
		{6, 2},
		{2, 2},
	})

	res, err := stationary.Solve(s)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("%s: [%.3f %.3f]\n", res.Path, res.Populations[0], res.Populations[1])
	// Output:
	// dense: [0.667 0.333]
}

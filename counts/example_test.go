package counts_test

import (
	"fmt"

	"github.com/stephenliu1989/msmbuilder-legacy/assignments"
	"github.com/stephenliu1989/msmbuilder-legacy/counts"
)

// ExampleBuild counts lag-1 transitions of a short two-state trajectory.
func ExampleBuild() {
	a := assignments.Matrix{{0, 1, 0, 1, 0, 1, 0, 1}}

	res, err := counts.Build(a, 1, 2)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	c01, _ := res.Counts.At(0, 1)
	c10, _ := res.Counts.At(1, 0)
	fmt.Println(res.Counts, c01, c10)
	// Output:
	// CSR(2×2, nnz=2) 4 3
}

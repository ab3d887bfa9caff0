package symmetrize

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/stephenliu1989/msmbuilder-legacy/matrix"
)

// Symmetrize applies method to the square, non-negative count matrix c.
// c is never modified; Result.Counts is always a fresh matrix.
//
// Errors:
//   - matrix.ErrNilMatrix, matrix.ErrNonSquare, matrix.ErrNegative, matrix.ErrNaNInf.
//   - ErrNegativePrior, ErrUnknownMethod.
//   - ErrNonConvergence (MLE only, returned together with a non-nil Result).
func Symmetrize(c *matrix.CSR, method Method, opts ...Option) (*Result, error) {
	if err := matrix.ValidateSquare(c); err != nil {
		return nil, fmt.Errorf("symmetrize: %w", err)
	}
	if err := matrix.ValidateNonNegative(c); err != nil {
		return nil, fmt.Errorf("symmetrize: %w", err)
	}
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if o.Prior < 0 || math.IsNaN(o.Prior) || math.IsInf(o.Prior, 0) {
		return nil, fmt.Errorf("symmetrize: prior %v: %w", o.Prior, ErrNegativePrior)
	}

	switch method {
	case None:
		return &Result{Counts: c.Clone(), State: Converged}, nil
	case Transpose:
		s, err := plusTranspose(c)
		if err != nil {
			return nil, err
		}

		return &Result{Counts: s, State: Converged}, nil
	case MLE:
		return mle(c, o)
	default:
		return nil, fmt.Errorf("symmetrize: %v: %w", method, ErrUnknownMethod)
	}
}

// plusTranspose returns c + cᵀ.
func plusTranspose(c *matrix.CSR) (*matrix.CSR, error) {
	ct, err := matrix.Transpose(c)
	if err != nil {
		return nil, err
	}

	return matrix.Add(c, ct)
}

// withPrior returns C' = C + prior on every cell of pattern(C + Cᵀ) ∪ diag.
// A zero prior returns c itself.
func withPrior(c *matrix.CSR, prior float64) (*matrix.CSR, error) {
	if prior == 0 {
		return c, nil
	}
	pattern, err := plusTranspose(c)
	if err != nil {
		return nil, err
	}
	n := c.Rows()
	b, err := matrix.NewBuilder(n, n)
	if err != nil {
		return nil, err
	}
	var addErr error
	add := func(i, j int, v float64) {
		if addErr == nil {
			addErr = b.Add(i, j, v)
		}
	}
	c.DoNonZero(add)
	pattern.DoNonZero(func(i, j int, _ float64) { add(i, j, prior) })
	var d float64
	for i := 0; i < n; i++ {
		if d, _ = pattern.At(i, i); d == 0 {
			add(i, i, prior)
		}
	}
	if addErr != nil {
		return nil, addErr
	}

	return b.CSR(), nil
}

// mle runs the reversible maximum-likelihood fixed point.
// Implementation:
//   - Stage 1 (Initializing): C' = withPrior(C); c = rowsums(C');
//     X⁽⁰⁾ = (C'+C'ᵀ)/2, whose pattern is fixed for the whole run.
//   - Stage 2 (Iterating): x = rowsums(X); every stored X_ij becomes
//     2·X⁽⁰⁾_ij / (c_i/x_i + c_j/x_j). Stop when ‖ΔX‖₁ < tol·‖X‖₁.
//   - Stage 3: Converged, or NonConverged at the cap.
//
// Every stored (i, j) has C'_ij + C'_ji > 0, so c_i or c_j is positive and
// both x_i, x_j are positive: the denominator never vanishes.
func mle(c *matrix.CSR, o Options) (*Result, error) {
	res := &Result{State: Initializing}

	cp, err := withPrior(c, o.Prior)
	if err != nil {
		return nil, err
	}
	rowCounts := matrix.RowSums(cp)
	x0, err := matrix.Symmetrize(cp)
	if err != nil {
		return nil, err
	}

	nnz := x0.NNZ()
	rows := make([]int, 0, nnz)
	cols := make([]int, 0, nnz)
	num := make([]float64, 0, nnz)
	cur := make([]float64, 0, nnz)
	x0.DoNonZero(func(i, j int, v float64) {
		rows = append(rows, i)
		cols = append(cols, j)
		num = append(num, 2*v)
		cur = append(cur, v)
	})
	next := make([]float64, nnz)
	xs := make([]float64, x0.Rows())

	res.State = Iterating
	if nnz == 0 {
		res.State = Converged
	}
	var i, j int
	var delta float64
	for res.State == Iterating && res.Iterations < o.MaxIter {
		for k := range xs {
			xs[k] = 0
		}
		for k, v := range cur {
			xs[rows[k]] += v
		}
		for k := range num {
			i, j = rows[k], cols[k]
			next[k] = num[k] / (rowCounts[i]/xs[i] + rowCounts[j]/xs[j])
		}
		res.Iterations++

		delta = floats.Distance(next, cur, 1)
		if delta < o.Tolerance*floats.Norm(cur, 1) {
			res.State = Converged
		}
		cur, next = next, cur
	}
	if res.State != Converged {
		res.State = NonConverged
	}

	x, err := x0.WithValues(cur)
	if err != nil {
		return nil, err
	}
	res.Counts = x
	res.Populations = matrix.RowSums(x)
	if total := floats.Sum(res.Populations); total > 0 {
		floats.Scale(1/total, res.Populations)
	}

	if res.State == NonConverged {
		return res, fmt.Errorf("symmetrize: %d iterations, last relative change %.3g: %w",
			res.Iterations, delta/floats.Norm(cur, 1), ErrNonConvergence)
	}

	return res, nil
}

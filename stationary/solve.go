package stationary

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/stephenliu1989/msmbuilder-legacy/dfs"
	"github.com/stephenliu1989/msmbuilder-legacy/matrix"
)

// Solve row-normalizes the square, non-negative matrix s into T and computes
// its stationary populations.
// Implementation:
//   - Stage 1: T = NormalizeRowsL1(s); collect zero rows; apply ZeroRowPolicy.
//   - Stage 2: π from supplied populations, dense eigen or sparse power
//     iteration (see package doc).
//   - Stage 3: clamp tiny negatives, renormalize, record ‖πT − π‖₁.
//
// Errors:
//   - matrix.ErrNilMatrix, matrix.ErrNonSquare, matrix.ErrNegative, matrix.ErrNaNInf.
//   - matrix.ErrDimensionMismatch for supplied populations of the wrong length.
//   - ErrIllPosedModel.
func Solve(s *matrix.CSR, opts ...Option) (*Result, error) {
	if err := matrix.ValidateSquare(s); err != nil {
		return nil, fmt.Errorf("stationary: %w", err)
	}
	if err := matrix.ValidateNonNegative(s); err != nil {
		return nil, fmt.Errorf("stationary: %w", err)
	}
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	n := s.Rows()
	if n == 0 {
		return nil, fmt.Errorf("stationary: empty model: %w", ErrIllPosedModel)
	}

	t, degenerate, err := transitionMatrix(s, o.ZeroRowPolicy)
	if err != nil {
		return nil, err
	}
	res := &Result{T: t, DegenerateRows: degenerate}

	var pi []float64
	switch {
	case o.Populations != nil:
		res.Path = PathSupplied
		pi, err = supplied(o.Populations, n)
	case n <= o.DenseLimit:
		res.Path = PathDense
		pi, err = denseSolve(t, o.Tolerance)
	default:
		res.Path = PathSparse
		pi, err = sparseSolve(t, degenerate, o)
	}
	if err != nil {
		return nil, err
	}

	res.Populations = pi
	res.Residual = residual(t, pi)

	return res, nil
}

// transitionMatrix returns row-normalized s and the indices of its zero rows.
func transitionMatrix(s *matrix.CSR, policy ZeroRowPolicy) (*matrix.CSR, []int, error) {
	t, norms, err := matrix.NormalizeRowsL1(s)
	if err != nil {
		return nil, nil, fmt.Errorf("stationary: %w", err)
	}
	var degenerate []int
	for i, v := range norms {
		if v == 0 {
			degenerate = append(degenerate, i)
		}
	}
	if len(degenerate) == 0 || policy != ZeroRowSelfLoop {
		return t, degenerate, nil
	}

	n := s.Rows()
	loops, err := matrix.NewBuilder(n, n)
	if err != nil {
		return nil, nil, err
	}
	for _, i := range degenerate {
		if err = loops.Add(i, i, 1); err != nil {
			return nil, nil, err
		}
	}
	t, err = matrix.Add(t, loops.CSR())
	if err != nil {
		return nil, nil, fmt.Errorf("stationary: %w", err)
	}

	return t, degenerate, nil
}

// supplied validates and normalizes externally computed populations.
func supplied(p []float64, n int) ([]float64, error) {
	if len(p) != n {
		return nil, fmt.Errorf("stationary: populations length %d for %d states: %w",
			len(p), n, matrix.ErrDimensionMismatch)
	}
	for i, v := range p {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("stationary: population[%d]=%v: %w", i, v, ErrIllPosedModel)
		}
	}
	pi := append([]float64(nil), p...)
	total := floats.Sum(pi)
	if total == 0 {
		return nil, fmt.Errorf("stationary: populations sum to zero: %w", ErrIllPosedModel)
	}
	floats.Scale(1/total, pi)

	return pi, nil
}

// denseSolve finds the left eigenvector of t for eigenvalue 1.
// Implementation:
//   - Stage 1: right eigen decomposition of Tᵀ.
//   - Stage 2: exactly one eigenvalue must satisfy |λ−1| ≤ tol.
//   - Stage 3: real part of its eigenvector, sign-fixed so Σ > 0; any
//     component below −tol·max|v| means mixed signs.
func denseSolve(t *matrix.CSR, tol float64) ([]float64, error) {
	var tt mat.Dense
	tt.CloneFrom(t.ToDense().T())

	var eig mat.Eigen
	if ok := eig.Factorize(&tt, mat.EigenRight); !ok {
		return nil, fmt.Errorf("stationary: eigen decomposition failed: %w", ErrIllPosedModel)
	}
	values := eig.Values(nil)

	best, near := -1, 0
	bestDist := math.Inf(1)
	var d float64
	for k, lambda := range values {
		d = cmplx.Abs(lambda - 1)
		if d <= tol {
			near++
		}
		if d < bestDist {
			best, bestDist = k, d
		}
	}
	switch {
	case near == 0:
		return nil, fmt.Errorf("stationary: no eigenvalue within %g of 1 (closest %v): %w",
			tol, values[best], ErrIllPosedModel)
	case near > 1:
		return nil, fmt.Errorf("stationary: %d eigenvalues within %g of 1: %w", near, tol, ErrIllPosedModel)
	}

	var vecs mat.CDense
	eig.VectorsTo(&vecs)
	n := len(values)
	pi := make([]float64, n)
	for i := 0; i < n; i++ {
		pi[i] = real(vecs.At(i, best))
	}
	if floats.Sum(pi) < 0 {
		floats.Scale(-1, pi)
	}

	return clampNormalize(pi, tol)
}

// sparseSolve requires a single closed class, then runs lazy power iteration.
func sparseSolve(t *matrix.CSR, degenerate []int, o Options) ([]float64, error) {
	g, err := dfs.FromCSR(t)
	if err != nil {
		return nil, fmt.Errorf("stationary: %w", err)
	}
	comps, err := dfs.StronglyConnected(g)
	if err != nil {
		return nil, fmt.Errorf("stationary: %w", err)
	}

	// Kept zero rows are singleton sinks that hold no mass; a class with an
	// edge into one is not closed.
	zero := make(map[int]bool, len(degenerate))
	if o.ZeroRowPolicy == ZeroRowKeep {
		for _, i := range degenerate {
			zero[i] = true
		}
	}
	closed, recurrent := 0, -1
	for _, k := range dfs.ClosedClasses(g, comps) {
		if len(comps[k]) == 1 && zero[comps[k][0]] {
			continue
		}
		closed++
		recurrent = k
	}
	if closed != 1 {
		return nil, fmt.Errorf("stationary: %d closed classes: %w", closed, ErrIllPosedModel)
	}

	n := t.Rows()
	pi := make([]float64, n)
	for i := range pi {
		pi[i] = 1 / float64(n)
	}
	next := make([]float64, n)
	for iter := 0; iter < o.MaxIter; iter++ {
		lazyStep(t, pi, next)
		if total := floats.Sum(next); total > 0 {
			floats.Scale(1/total, next)
		}
		if floats.Distance(next, pi, 1) < o.Tolerance {
			return recurrentOnly(next, comps[recurrent], o.Tolerance)
		}
		pi, next = next, pi
	}

	return nil, fmt.Errorf("stationary: power iteration did not converge in %d steps: %w",
		o.MaxIter, ErrIllPosedModel)
}

// recurrentOnly keeps the mass of the recurrent class members and zeroes
// every transient state, whose stationary mass is exactly zero.
func recurrentOnly(pi []float64, members []int, tol float64) ([]float64, error) {
	out := make([]float64, len(pi))
	for _, i := range members {
		out[i] = pi[i]
	}

	return clampNormalize(out, tol)
}

// lazyStep writes (π + πT)/2 into dst.
func lazyStep(t *matrix.CSR, pi, dst []float64) {
	for j := range dst {
		dst[j] = pi[j] / 2
	}
	t.DoNonZero(func(i, j int, v float64) {
		dst[j] += pi[i] * v / 2
	})
}

// clampNormalize zeroes entries in [−tol·max|π|, 0], rejects larger
// negatives and scales π to sum 1.
func clampNormalize(pi []float64, tol float64) ([]float64, error) {
	scale := math.Max(floats.Max(pi), -floats.Min(pi))
	if scale == 0 {
		return nil, fmt.Errorf("stationary: zero eigenvector: %w", ErrIllPosedModel)
	}
	for i, v := range pi {
		if v > 0 {
			continue
		}
		if v < -tol*scale {
			return nil, fmt.Errorf("stationary: mixed-sign eigenvector (π[%d]=%g): %w", i, v, ErrIllPosedModel)
		}
		// Also turns −0 into +0.
		pi[i] = 0
	}
	floats.Scale(1/floats.Sum(pi), pi)

	return pi, nil
}

// residual returns ‖πT − π‖₁.
func residual(t *matrix.CSR, pi []float64) float64 {
	pt := make([]float64, len(pi))
	t.DoNonZero(func(i, j int, v float64) {
		pt[j] += pi[i] * v
	})

	return floats.Distance(pt, pi, 1)
}

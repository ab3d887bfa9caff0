package msm

import (
	"errors"
	"fmt"
	"math"

	"github.com/stephenliu1989/msmbuilder-legacy/assignments"
	"github.com/stephenliu1989/msmbuilder-legacy/counts"
	"github.com/stephenliu1989/msmbuilder-legacy/diagnostics"
	"github.com/stephenliu1989/msmbuilder-legacy/ergodic"
	"github.com/stephenliu1989/msmbuilder-legacy/matrix"
	"github.com/stephenliu1989/msmbuilder-legacy/stationary"
	"github.com/stephenliu1989/msmbuilder-legacy/symmetrize"
)

const opBuild = "msm.Build"

// Build estimates an MSM from a at the given lag time over nStates states.
// Implementation:
//   - Stage 1: validate assignments, lag time, nStates and prior.
//   - Stage 2: count transitions on the raw trajectories.
//   - Stage 3: trim the raw counts to their largest ergodic subset
//     (identity mapping when trimming is off).
//   - Stage 4: symmetrize the trimmed counts; on MLE non-convergence either
//     fail or fall back to Transpose. Transpose and MLE output must be
//     symmetric.
//   - Stage 5: row-normalize and solve for π (MLE populations are reused).
//   - Stage 6: remap assignments (copy, or in place when requested).
//
// Errors:
//   - ErrValidation wrapping assignments.ErrEmpty, assignments.ErrInvalidLabel,
//     counts.ErrInvalidLagTime, counts.ErrLabelOutOfRange,
//     counts.ErrInvalidStates, symmetrize.ErrNegativePrior.
//   - ergodic.ErrNoErgodicComponent, symmetrize.ErrNonConvergence,
//     symmetrize.ErrUnknownMethod, stationary.ErrIllPosedModel.
//   - matrix.ErrAsymmetry if symmetrized counts are not symmetric.
//
// On error no Model is returned and the caller's assignments are unchanged.
func Build(a assignments.Matrix, lagTime, nStates int, opts ...Option) (*Model, error) {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if err := validate(a, lagTime, nStates, o); err != nil {
		return nil, err
	}
	sink := o.Diagnostics

	cres, err := counts.Build(a, lagTime, nStates, counts.WithSlidingWindow(o.SlidingWindow))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opBuild, err)
	}
	sink.Report(diagnostics.CountsTransitions, float64(cres.Transitions))

	trimmed, mapping, discarded, err := trim(cres.Counts, o)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opBuild, err)
	}
	sink.Report(diagnostics.TrimStatesKept, float64(trimmed.Rows()))
	sink.Report(diagnostics.TrimDiscardedFraction, discarded)

	sres, method, fellBack, err := symmetrizeCounts(trimmed, o)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opBuild, err)
	}
	if o.Method == symmetrize.MLE {
		sink.Report(diagnostics.MLEIterations, float64(sres.Iterations))
		sink.Report(diagnostics.MLEFallback, boolValue(fellBack))
	}
	if method != symmetrize.None {
		// Detailed balance needs S = Sᵀ; allow rounding relative to the total count.
		if err = matrix.ValidateSymmetric(sres.Counts, o.MLETolerance*sres.Counts.Sum()); err != nil {
			return nil, fmt.Errorf("%s: %w", opBuild, err)
		}
	}

	solveOpts := []stationary.Option{
		stationary.WithZeroRowPolicy(o.ZeroRowPolicy),
		stationary.WithDenseLimit(o.DenseLimit),
	}
	if method == symmetrize.MLE {
		solveOpts = append(solveOpts, stationary.WithPopulations(sres.Populations))
	}
	st, err := stationary.Solve(sres.Counts, solveOpts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opBuild, err)
	}
	n := st.T.Rows()
	sink.Report(diagnostics.StationaryDegenerateRows, float64(len(st.DegenerateRows)))
	sink.Report(diagnostics.StationaryDegenerateFrac, float64(len(st.DegenerateRows))/float64(n))
	sink.Report(diagnostics.StationaryResidual, st.Residual)

	var remapped assignments.Matrix
	if o.InPlaceRemap {
		err = assignments.ApplyMapping(a, mapping)
		remapped = a
	} else {
		remapped, err = assignments.Remapped(a, mapping)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opBuild, err)
	}

	return &Model{
		LagTime:           lagTime,
		NStates:           nStates,
		Method:            method,
		CountsAfterTrim:   trimmed,
		SymCounts:         sres.Counts,
		TMatrix:           st.T,
		Populations:       st.Populations,
		Mapping:           mapping,
		Assignments:       remapped,
		Transitions:       cres.Transitions,
		DiscardedFraction: discarded,
		DegenerateRows:    st.DegenerateRows,
		MLEIterations:     sres.Iterations,
		MLEFallback:       fellBack,
	}, nil
}

func validate(a assignments.Matrix, lagTime, nStates int, o Options) error {
	if err := assignments.Validate(a); err != nil {
		return fmt.Errorf("%s: %w: %w", opBuild, ErrValidation, err)
	}
	if lagTime <= 0 {
		return fmt.Errorf("%s: lag time %d: %w: %w", opBuild, lagTime, ErrValidation, counts.ErrInvalidLagTime)
	}
	if nStates <= 0 {
		return fmt.Errorf("%s: nStates %d: %w: %w", opBuild, nStates, ErrValidation, counts.ErrInvalidStates)
	}
	if maxLabel := assignments.MaxLabel(a); nStates <= maxLabel {
		return fmt.Errorf("%s: nStates %d ≤ max label %d: %w: %w",
			opBuild, nStates, maxLabel, ErrValidation, counts.ErrLabelOutOfRange)
	}
	if o.Prior < 0 || math.IsNaN(o.Prior) || math.IsInf(o.Prior, 0) {
		return fmt.Errorf("%s: prior %v: %w: %w", opBuild, o.Prior, ErrValidation, symmetrize.ErrNegativePrior)
	}

	return nil
}

// trim returns the trimmed counts, the mapping and the discarded fraction.
func trim(c *matrix.CSR, o Options) (*matrix.CSR, assignments.Mapping, float64, error) {
	if !o.Trimming {
		return c, assignments.IdentityMapping(c.Rows()), 0, nil
	}
	res, err := ergodic.Trim(c, ergodic.WithMinSupport(o.MinSupport))
	if err != nil {
		return nil, nil, 0, err
	}

	return res.Counts, res.Mapping, res.DiscardedFraction, nil
}

// symmetrizeCounts applies o.Method, falling back to Transpose on MLE
// non-convergence when allowed. It returns the method actually used.
func symmetrizeCounts(c *matrix.CSR, o Options) (*symmetrize.Result, symmetrize.Method, bool, error) {
	res, err := symmetrize.Symmetrize(c, o.Method,
		symmetrize.WithPrior(o.Prior),
		symmetrize.WithTolerance(o.MLETolerance),
		symmetrize.WithMaxIter(o.MLEMaxIter),
	)
	if err == nil {
		return res, o.Method, false, nil
	}
	if !errors.Is(err, symmetrize.ErrNonConvergence) || !o.MLEFallback {
		return nil, o.Method, false, err
	}

	fb, err := symmetrize.Symmetrize(c, symmetrize.Transpose)
	if err != nil {
		return nil, symmetrize.Transpose, true, err
	}
	fb.Iterations = res.Iterations

	return fb, symmetrize.Transpose, true, nil
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}

	return 0
}

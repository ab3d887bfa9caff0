package msm_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stephenliu1989/msmbuilder-legacy/assignments"
	"github.com/stephenliu1989/msmbuilder-legacy/counts"
	"github.com/stephenliu1989/msmbuilder-legacy/diagnostics"
	"github.com/stephenliu1989/msmbuilder-legacy/ergodic"
	"github.com/stephenliu1989/msmbuilder-legacy/matrix"
	"github.com/stephenliu1989/msmbuilder-legacy/msm"
	"github.com/stephenliu1989/msmbuilder-legacy/stationary"
	"github.com/stephenliu1989/msmbuilder-legacy/symmetrize"
)

func at(t testing.TB, m *matrix.CSR, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	require.NoError(t, err)

	return v
}

func sameMatrix(t testing.TB, want, got *matrix.CSR, tol float64) {
	t.Helper()
	ok, err := matrix.AllClose(got, want, 0, tol)
	require.NoError(t, err)
	require.True(t, ok, "want %v, got %v", want, got)
}

func TestBuild_TwoStateAlternating(t *testing.T) {
	a := assignments.Matrix{{0, 1, 0, 1, 0, 1, 0, 1}}

	for _, method := range []symmetrize.Method{symmetrize.None, symmetrize.Transpose, symmetrize.MLE} {
		t.Run(method.String(), func(t *testing.T) {
			model, err := msm.Build(a, 1, 2, msm.WithSymmetrize(method))
			require.NoError(t, err)

			assert.Equal(t, 4.0, at(t, model.CountsAfterTrim, 0, 1))
			assert.Equal(t, 3.0, at(t, model.CountsAfterTrim, 1, 0))
			assert.Equal(t, 1.0, at(t, model.TMatrix, 0, 1))
			assert.Equal(t, 1.0, at(t, model.TMatrix, 1, 0))
			assert.InDeltaSlice(t, []float64{0.5, 0.5}, model.Populations, 1e-9)
			assert.Equal(t, assignments.Mapping{0, 1}, model.Mapping)
			assert.Equal(t, method, model.Method)
			assert.Equal(t, 7, model.Transitions)
		})
	}
}

func TestBuild_TrimsOneWayState(t *testing.T) {
	// State 2 is entered once at the end and never left.
	a := assignments.Matrix{{0, 1, 0, 1, 0, 1, 2}}

	model, err := msm.Build(a, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, assignments.Mapping{0, 1, -1}, model.Mapping)
	assert.Equal(t, assignments.Matrix{{0, 1, 0, 1, 0, 1, -1}}, model.Assignments)
	assert.InDelta(t, 1.0/3.0, model.DiscardedFraction, 1e-15)
	assert.Equal(t, 2, model.TMatrix.Rows())
}

func TestBuild_UnvisitedStateIsTrimmed(t *testing.T) {
	a := assignments.Matrix{{0, 2, 0, 2, 2, 0}}

	model, err := msm.Build(a, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, assignments.Mapping{0, -1, 1, -1}, model.Mapping)
	assert.InDelta(t, 0.5, model.DiscardedFraction, 1e-15)
}

func TestBuild_PathGraphPopulations(t *testing.T) {
	// Transitions only along 0–1–2, where every chain is reversible and π is
	// known in closed form from the MLE counts: (3, 8, 20)/31.
	a := assignments.Matrix{{0, 1, 2, 2, 1, 1, 0, 0, 1, 2, 2, 2, 2}}

	model, err := msm.Build(a, 1, 3)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{3.0 / 31, 8.0 / 31, 20.0 / 31}, model.Populations, 1e-7)
	assert.Greater(t, model.MLEIterations, 1)
}

func TestBuild_StationarityOfResult(t *testing.T) {
	a := assignments.Matrix{
		{0, 0, 1, 1, 1, 2, 0, 1, 2, 2, 2},
		{2, 1, 0, 0, 2, 2, 1},
	}

	for _, method := range []symmetrize.Method{symmetrize.Transpose, symmetrize.MLE} {
		model, err := msm.Build(a, 1, 3, msm.WithSymmetrize(method))
		require.NoError(t, err)

		pt := make([]float64, len(model.Populations))
		model.TMatrix.DoNonZero(func(i, j int, v float64) {
			pt[j] += model.Populations[i] * v
		})
		assert.InDeltaSlice(t, model.Populations, pt, 1e-8, method.String())
		require.NoError(t, matrix.ValidateSymmetric(model.SymCounts, 1e-9), method.String())
	}
}

func TestBuild_Idempotent(t *testing.T) {
	a := assignments.Matrix{{0, 1, 3, 1, 0, 3, 0, 1, 2}}

	first, err := msm.Build(a, 1, 4)
	require.NoError(t, err)
	second, err := msm.Build(first.Assignments, 1, first.TMatrix.Rows())
	require.NoError(t, err)

	assert.Equal(t, assignments.IdentityMapping(first.TMatrix.Rows()), second.Mapping)
	assert.Equal(t, first.Assignments, second.Assignments)
	sameMatrix(t, first.CountsAfterTrim, second.CountsAfterTrim, 0)
	sameMatrix(t, first.TMatrix, second.TMatrix, 1e-12)
	assert.InDeltaSlice(t, first.Populations, second.Populations, 1e-12)
}

func TestBuild_RemapOwnership(t *testing.T) {
	orig := assignments.Matrix{{0, 1, 0, 1, 2}}

	a := assignments.Clone(orig)
	model, err := msm.Build(a, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, orig, a, "default build must not touch the input")
	assert.Equal(t, assignments.Matrix{{0, 1, 0, 1, -1}}, model.Assignments)

	model, err = msm.Build(a, 1, 3, msm.WithInPlaceRemap())
	require.NoError(t, err)
	assert.Equal(t, assignments.Matrix{{0, 1, 0, 1, -1}}, a)
	assert.Equal(t, a, model.Assignments)
}

func TestBuild_FailureLeavesInputUntouched(t *testing.T) {
	a := assignments.Matrix{{0, 1, 2, 0, 1, 2, 1}}
	before := assignments.Clone(a)

	_, err := msm.Build(a, 1, 3, msm.WithInPlaceRemap(), msm.WithMLEMaxIter(1))
	require.ErrorIs(t, err, symmetrize.ErrNonConvergence)
	assert.Equal(t, before, a)
}

func TestBuild_NoTrimming(t *testing.T) {
	a := assignments.Matrix{{0, 1, 0, 1, 0, 1, 0}}

	model, err := msm.Build(a, 1, 3,
		msm.WithTrimming(false),
		msm.WithSymmetrize(symmetrize.Transpose),
	)
	require.NoError(t, err)
	assert.Equal(t, assignments.IdentityMapping(3), model.Mapping)
	assert.Zero(t, model.DiscardedFraction)
	assert.Equal(t, []int{2}, model.DegenerateRows)
	assert.InDeltaSlice(t, []float64{0.5, 0.5, 0}, model.Populations, 1e-9)

	model, err = msm.Build(a, 1, 3,
		msm.WithTrimming(false),
		msm.WithSymmetrize(symmetrize.Transpose),
		msm.WithZeroRowPolicy(stationary.ZeroRowSelfLoop),
	)
	require.ErrorIs(t, err, stationary.ErrIllPosedModel, "absorbing unvisited state makes π non-unique")
	assert.Nil(t, model)
}

func TestBuild_MLEFallback(t *testing.T) {
	a := assignments.Matrix{{0, 0, 1, 1, 1, 2, 0, 1, 2, 2, 2}}

	_, err := msm.Build(a, 1, 3, msm.WithMLEMaxIter(1))
	require.ErrorIs(t, err, symmetrize.ErrNonConvergence)

	rec := diagnostics.NewRecorder()
	model, err := msm.Build(a, 1, 3,
		msm.WithMLEMaxIter(1),
		msm.WithMLEFallback(true),
		msm.WithDiagnostics(rec),
	)
	require.NoError(t, err)
	assert.True(t, model.MLEFallback)
	assert.Equal(t, symmetrize.Transpose, model.Method)

	transposed, err := msm.Build(a, 1, 3, msm.WithSymmetrize(symmetrize.Transpose))
	require.NoError(t, err)
	sameMatrix(t, transposed.SymCounts, model.SymCounts, 0)

	v, ok := rec.Get(diagnostics.MLEFallback)
	require.True(t, ok)
	assert.Equal(t, 1.0, v)
}

func TestBuild_Diagnostics(t *testing.T) {
	a := assignments.Matrix{{0, 1, 0, 1, 0, 1, 2}}
	rec := diagnostics.NewRecorder()

	_, err := msm.Build(a, 1, 3, msm.WithDiagnostics(rec))
	require.NoError(t, err)

	want := map[string]float64{
		diagnostics.CountsTransitions:        6,
		diagnostics.TrimStatesKept:           2,
		diagnostics.MLEFallback:              0,
		diagnostics.StationaryDegenerateRows: 0,
		diagnostics.StationaryDegenerateFrac: 0,
	}
	for name, v := range want {
		got, ok := rec.Get(name)
		require.True(t, ok, name)
		assert.Equal(t, v, got, name)
	}
	frac, _ := rec.Get(diagnostics.TrimDiscardedFraction)
	assert.InDelta(t, 1.0/3.0, frac, 1e-15)
	iters, _ := rec.Get(diagnostics.MLEIterations)
	assert.GreaterOrEqual(t, iters, 1.0)
}

func TestBuild_Validation(t *testing.T) {
	good := assignments.Matrix{{0, 1, 0, 1}}

	tests := []struct {
		name  string
		a     assignments.Matrix
		lag   int
		n     int
		opts  []msm.Option
		cause error
	}{
		{"empty", assignments.Matrix{}, 1, 2, nil, assignments.ErrEmpty},
		{"bad label", assignments.Matrix{{0, -5}}, 1, 2, nil, assignments.ErrInvalidLabel},
		{"zero lag", good, 0, 2, nil, counts.ErrInvalidLagTime},
		{"no states", good, 1, 0, nil, counts.ErrInvalidStates},
		{"too few states", good, 1, 1, nil, counts.ErrLabelOutOfRange},
		{"negative prior", good, 1, 2, []msm.Option{msm.WithPrior(-0.5)}, symmetrize.ErrNegativePrior},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			model, err := msm.Build(tc.a, tc.lag, tc.n, tc.opts...)
			require.ErrorIs(t, err, msm.ErrValidation)
			require.ErrorIs(t, err, tc.cause)
			assert.Nil(t, model)
		})
	}
}

func TestBuild_NoErgodicComponent(t *testing.T) {
	// Every trajectory is shorter than the lag: no transitions at all.
	_, err := msm.Build(assignments.Matrix{{0, 1}, {1}}, 5, 2)
	require.ErrorIs(t, err, ergodic.ErrNoErgodicComponent)
}

func TestBuild_UnknownMethod(t *testing.T) {
	_, err := msm.Build(assignments.Matrix{{0, 1, 0}}, 1, 2, msm.WithSymmetrize(symmetrize.Method(9)))
	require.ErrorIs(t, err, symmetrize.ErrUnknownMethod)
}

func TestWithMinSupport_PanicsOnNonFinite(t *testing.T) {
	assert.Panics(t, func() { msm.WithMinSupport(math.NaN()) })
	assert.Panics(t, func() { msm.WithMinSupport(math.Inf(1)) })
	assert.Panics(t, func() { msm.WithMinSupport(-1) })
	assert.NotPanics(t, func() { msm.WithMinSupport(0) })
}

func TestBuild_SymmetrizedCountsAreSymmetric(t *testing.T) {
	a := assignments.Matrix{{0, 0, 1, 1, 1, 2, 0, 1, 2, 2, 2}}

	for _, tc := range []struct {
		name string
		opts []msm.Option
	}{
		{"Transpose", []msm.Option{msm.WithSymmetrize(symmetrize.Transpose)}},
		{"MLE", []msm.Option{msm.WithSymmetrize(symmetrize.MLE)}},
		{"MLE with prior", []msm.Option{msm.WithSymmetrize(symmetrize.MLE), msm.WithPrior(0.5)}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			model, err := msm.Build(a, 1, 3, tc.opts...)
			require.NoError(t, err)
			require.NoError(t, matrix.ValidateSymmetric(model.SymCounts, 0))
		})
	}
}

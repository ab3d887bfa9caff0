package msm

import (
	"errors"
	"math"

	"github.com/stephenliu1989/msmbuilder-legacy/assignments"
	"github.com/stephenliu1989/msmbuilder-legacy/diagnostics"
	"github.com/stephenliu1989/msmbuilder-legacy/ergodic"
	"github.com/stephenliu1989/msmbuilder-legacy/matrix"
	"github.com/stephenliu1989/msmbuilder-legacy/stationary"
	"github.com/stephenliu1989/msmbuilder-legacy/symmetrize"
)

// ErrValidation wraps every input-validation failure of Build. The specific
// cause (counts.ErrInvalidLagTime, assignments.ErrEmpty, …) stays matchable
// with errors.Is.
var ErrValidation = errors.New("msm: invalid input")

// Model is the estimated MSM. Every matrix is freshly allocated per Build.
type Model struct {
	// LagTime and NStates echo the inputs.
	LagTime int
	NStates int

	// Method is the symmetrization actually applied (Transpose after an MLE
	// fallback).
	Method symmetrize.Method

	// CountsAfterTrim is the raw count matrix restricted to the kept states.
	CountsAfterTrim *matrix.CSR

	// SymCounts is the symmetrized (reversible) count matrix.
	SymCounts *matrix.CSR

	// TMatrix is the row-stochastic transition matrix.
	TMatrix *matrix.CSR

	// Populations is the equilibrium distribution over kept states.
	Populations []float64

	// Mapping sends original states to kept indices or Sentinel.
	Mapping assignments.Mapping

	// Assignments are the remapped trajectories.
	Assignments assignments.Matrix

	// Transitions is the number of counted pairs before trimming.
	Transitions int

	// DiscardedFraction is the fraction of states removed by trimming.
	DiscardedFraction float64

	// DegenerateRows lists kept states whose symmetrized row was empty.
	DegenerateRows []int

	// MLEIterations is the number of MLE sweeps (0 for other methods).
	MLEIterations int

	// MLEFallback is true when MLE failed to converge and Transpose was used.
	MLEFallback bool
}

// Option configures Build.
type Option func(*Options)

// Options holds Build parameters.
type Options struct {
	Method        symmetrize.Method
	Prior         float64
	SlidingWindow bool
	Trimming      bool
	MinSupport    float64
	MLETolerance  float64
	MLEMaxIter    int
	ZeroRowPolicy stationary.ZeroRowPolicy
	DenseLimit    int
	MLEFallback   bool
	InPlaceRemap  bool
	Diagnostics   diagnostics.Sink
}

// DefaultOptions returns MLE symmetrization without prior, sliding-window
// counting, trimming with ergodic.DefaultMinSupport, ZeroRowKeep, no MLE
// fallback, copy-on-remap and a no-op diagnostics sink.
func DefaultOptions() Options {
	return Options{
		Method:        symmetrize.MLE,
		Prior:         0,
		SlidingWindow: true,
		Trimming:      true,
		MinSupport:    ergodic.DefaultMinSupport,
		MLETolerance:  symmetrize.DefaultTolerance,
		MLEMaxIter:    symmetrize.DefaultMaxIter,
		ZeroRowPolicy: stationary.ZeroRowKeep,
		DenseLimit:    stationary.DefaultDenseLimit,
		MLEFallback:   false,
		InPlaceRemap:  false,
		Diagnostics:   diagnostics.Nop{},
	}
}

// WithSymmetrize selects the symmetrization method.
func WithSymmetrize(m symmetrize.Method) Option {
	return func(o *Options) { o.Method = m }
}

// WithPrior sets the MLE pseudo-count prior. Negative values are rejected
// by Build as ErrValidation.
func WithPrior(p float64) Option {
	return func(o *Options) { o.Prior = p }
}

// WithSlidingWindow selects sliding-window (true) or strided counting.
func WithSlidingWindow(on bool) Option {
	return func(o *Options) { o.SlidingWindow = on }
}

// WithTrimming enables or disables ergodic trimming.
func WithTrimming(on bool) Option {
	return func(o *Options) { o.Trimming = on }
}

// WithMinSupport sets the trimming support threshold.
// Panics if v is negative, NaN or infinite (programmer error).
func WithMinSupport(v float64) Option {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		panic("msm: WithMinSupport(v): v must be finite and ≥ 0")
	}

	return func(o *Options) { o.MinSupport = v }
}

// WithMLETolerance sets the MLE convergence threshold.
// Panics if tol ≤ 0 (programmer error).
func WithMLETolerance(tol float64) Option {
	if !(tol > 0) {
		panic("msm: WithMLETolerance(tol): tol must be > 0")
	}

	return func(o *Options) { o.MLETolerance = tol }
}

// WithMLEMaxIter caps MLE sweeps.
// Panics if n < 1 (programmer error).
func WithMLEMaxIter(n int) Option {
	if n < 1 {
		panic("msm: WithMLEMaxIter(n): n must be ≥ 1")
	}

	return func(o *Options) { o.MLEMaxIter = n }
}

// WithZeroRowPolicy selects how empty rows enter the transition matrix.
func WithZeroRowPolicy(p stationary.ZeroRowPolicy) Option {
	return func(o *Options) { o.ZeroRowPolicy = p }
}

// WithDenseLimit sets the largest model solved with dense eigen decomposition.
// Panics if n < 0 (programmer error).
func WithDenseLimit(n int) Option {
	if n < 0 {
		panic("msm: WithDenseLimit(n): n must be ≥ 0")
	}

	return func(o *Options) { o.DenseLimit = n }
}

// WithMLEFallback makes a non-converged MLE fall back to Transpose instead
// of failing the build.
func WithMLEFallback(on bool) Option {
	return func(o *Options) { o.MLEFallback = on }
}

// WithDiagnostics sets the diagnostics sink. nil restores the no-op sink.
func WithDiagnostics(s diagnostics.Sink) Option {
	return func(o *Options) {
		if s == nil {
			s = diagnostics.Nop{}
		}
		o.Diagnostics = s
	}
}

// WithInPlaceRemap rewrites the caller's assignments instead of returning a
// remapped copy. The caller must hold exclusive ownership of the matrix for
// the duration of Build.
func WithInPlaceRemap() Option {
	return func(o *Options) { o.InPlaceRemap = true }
}

package symmetrize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stephenliu1989/msmbuilder-legacy/matrix"
)

var (
	// ErrNonConvergence is returned when MLE hits the iteration cap before the
	// relative change drops below tolerance. The last iterate is still returned.
	ErrNonConvergence = errors.New("symmetrize: MLE did not converge")

	// ErrNegativePrior is returned for prior < 0 or a non-finite prior.
	ErrNegativePrior = errors.New("symmetrize: prior must be a finite value ≥ 0")

	// ErrUnknownMethod is returned for an unrecognized Method.
	ErrUnknownMethod = errors.New("symmetrize: unknown method")
)

// Method selects the symmetrization estimator.
type Method int

const (
	// None keeps the raw counts.
	None Method = iota
	// Transpose adds the transpose: C + Cᵀ.
	Transpose
	// MLE computes the maximum-likelihood reversible counts.
	MLE
)

// String returns the canonical name used on the command line.
func (m Method) String() string {
	switch m {
	case None:
		return "None"
	case Transpose:
		return "Transpose"
	case MLE:
		return "MLE"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod maps "None", "Transpose" or "MLE" (case-insensitive) to a Method.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return None, nil
	case "transpose":
		return Transpose, nil
	case "mle":
		return MLE, nil
	}

	return None, fmt.Errorf("ParseMethod(%q): %w", s, ErrUnknownMethod)
}

// State is the MLE iteration state.
type State int

const (
	// Initializing: C' and X⁽⁰⁾ are being formed.
	Initializing State = iota
	// Iterating: fixed-point sweeps are running.
	Iterating
	// Converged: relative change fell below tolerance.
	Converged
	// NonConverged: the iteration cap was reached first.
	NonConverged
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "Initializing"
	case Iterating:
		return "Iterating"
	case Converged:
		return "Converged"
	case NonConverged:
		return "NonConverged"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

const (
	// DefaultTolerance is the MLE relative L1 convergence threshold.
	DefaultTolerance = 1e-10
	// DefaultMaxIter caps MLE sweeps.
	DefaultMaxIter = 100000
)

// Option configures Symmetrize.
type Option func(*Options)

// Options holds Symmetrize parameters. Prior, Tolerance and MaxIter only
// affect MLE.
type Options struct {
	Prior     float64
	Tolerance float64
	MaxIter   int
}

// DefaultOptions returns prior 0, DefaultTolerance and DefaultMaxIter.
func DefaultOptions() Options {
	return Options{
		Prior:     0,
		Tolerance: DefaultTolerance,
		MaxIter:   DefaultMaxIter,
	}
}

// WithPrior sets the symmetric pseudo-count added before MLE. Validation
// happens in Symmetrize (user input).
func WithPrior(p float64) Option {
	return func(o *Options) {
		o.Prior = p
	}
}

// WithTolerance sets the MLE convergence threshold.
// Panics if tol ≤ 0 (programmer error).
func WithTolerance(tol float64) Option {
	if !(tol > 0) {
		panic("symmetrize: WithTolerance(tol): tol must be > 0")
	}

	return func(o *Options) {
		o.Tolerance = tol
	}
}

// WithMaxIter sets the MLE iteration cap.
// Panics if n < 1 (programmer error).
func WithMaxIter(n int) Option {
	if n < 1 {
		panic("symmetrize: WithMaxIter(n): n must be ≥ 1")
	}

	return func(o *Options) {
		o.MaxIter = n
	}
}

// Result is the output of Symmetrize.
type Result struct {
	// Counts is the symmetrized count matrix S.
	Counts *matrix.CSR

	// Populations is x/Σx for MLE (nil for other methods).
	Populations []float64

	// Iterations is the number of MLE sweeps performed.
	Iterations int

	// State is the final MLE state (Converged for non-MLE methods).
	State State
}

package stationary

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stephenliu1989/msmbuilder-legacy/matrix"
)

// ErrIllPosedModel is returned when π is not unique or cannot be found.
var ErrIllPosedModel = errors.New("stationary: ill-posed model (stationary distribution not unique)")

// ZeroRowPolicy decides how rows of S with zero total count enter T.
type ZeroRowPolicy int

const (
	// ZeroRowKeep leaves the row all-zero (T is substochastic there).
	ZeroRowKeep ZeroRowPolicy = iota
	// ZeroRowSelfLoop sets T[i,i] = 1, making state i absorbing.
	ZeroRowSelfLoop
)

func (p ZeroRowPolicy) String() string {
	switch p {
	case ZeroRowKeep:
		return "keep"
	case ZeroRowSelfLoop:
		return "self-loop"
	default:
		return fmt.Sprintf("ZeroRowPolicy(%d)", int(p))
	}
}

// ParseZeroRowPolicy maps "keep" or "self-loop" (also "selfloop") to a policy.
func ParseZeroRowPolicy(s string) (ZeroRowPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "keep", "":
		return ZeroRowKeep, nil
	case "self-loop", "selfloop":
		return ZeroRowSelfLoop, nil
	}

	return ZeroRowKeep, fmt.Errorf("stationary: unknown zero-row policy %q", s)
}

// Path reports how Populations was obtained.
type Path string

const (
	PathSupplied Path = "supplied"
	PathDense    Path = "dense"
	PathSparse   Path = "sparse"
)

const (
	// DefaultDenseLimit is the largest n solved with a dense eigen decomposition.
	DefaultDenseLimit = 2000
	// DefaultTolerance bounds |λ−1|, eigenvector sign noise and the power
	// iteration L1 step.
	DefaultTolerance = 1e-10
	// DefaultMaxIter caps power-iteration steps.
	DefaultMaxIter = 1000000
)

// Option configures Solve.
type Option func(*Options)

// Options holds Solve parameters.
type Options struct {
	ZeroRowPolicy ZeroRowPolicy
	Populations   []float64
	DenseLimit    int
	Tolerance     float64
	MaxIter       int
}

// DefaultOptions returns ZeroRowKeep, DefaultDenseLimit, DefaultTolerance and
// DefaultMaxIter with no supplied populations.
func DefaultOptions() Options {
	return Options{
		ZeroRowPolicy: ZeroRowKeep,
		Populations:   nil,
		DenseLimit:    DefaultDenseLimit,
		Tolerance:     DefaultTolerance,
		MaxIter:       DefaultMaxIter,
	}
}

// WithZeroRowPolicy selects the zero-row handling.
func WithZeroRowPolicy(p ZeroRowPolicy) Option {
	return func(o *Options) {
		o.ZeroRowPolicy = p
	}
}

// WithPopulations supplies π directly (e.g. from MLE symmetrization).
// The slice is copied when Solve normalizes it.
func WithPopulations(p []float64) Option {
	return func(o *Options) {
		o.Populations = p
	}
}

// WithDenseLimit sets the largest n solved densely. 0 forces the sparse path.
// Panics if n < 0 (programmer error).
func WithDenseLimit(n int) Option {
	if n < 0 {
		panic("stationary: WithDenseLimit(n): n must be ≥ 0")
	}

	return func(o *Options) {
		o.DenseLimit = n
	}
}

// WithTolerance sets the numerical tolerance.
// Panics if tol ≤ 0 (programmer error).
func WithTolerance(tol float64) Option {
	if !(tol > 0) {
		panic("stationary: WithTolerance(tol): tol must be > 0")
	}

	return func(o *Options) {
		o.Tolerance = tol
	}
}

// WithMaxIter caps power-iteration steps.
// Panics if n < 1 (programmer error).
func WithMaxIter(n int) Option {
	if n < 1 {
		panic("stationary: WithMaxIter(n): n must be ≥ 1")
	}

	return func(o *Options) {
		o.MaxIter = n
	}
}

// Result is the output of Solve.
type Result struct {
	// T is the row-stochastic transition matrix (up to kept zero rows).
	T *matrix.CSR

	// Populations is π, non-negative and summing to 1.
	Populations []float64

	// DegenerateRows lists rows of S whose total count was zero.
	DegenerateRows []int

	// Residual is ‖πT − π‖₁.
	Residual float64

	// Path records which solver produced Populations.
	Path Path
}

package counts

import (
	"errors"

	"github.com/stephenliu1989/msmbuilder-legacy/matrix"
)

var (
	// ErrInvalidLagTime is returned when lagTime ≤ 0.
	ErrInvalidLagTime = errors.New("counts: lag time must be positive")

	// ErrInvalidStates is returned when nStates ≤ 0.
	ErrInvalidStates = errors.New("counts: number of states must be positive")

	// ErrLabelOutOfRange is returned when a label is ≥ nStates.
	ErrLabelOutOfRange = errors.New("counts: label exceeds number of states")

	// ErrInvalidLabel is returned when a label is below the sentinel -1.
	ErrInvalidLabel = errors.New("counts: label below -1")
)

// Option configures Build.
type Option func(*Options)

// Options holds Build parameters.
type Options struct {
	// SlidingWindow steps the start frame by 1 when true, by lagTime when false.
	SlidingWindow bool
}

// DefaultOptions returns sliding-window sampling.
func DefaultOptions() Options {
	return Options{SlidingWindow: true}
}

// WithSlidingWindow selects sliding-window (true) or strided (false) sampling.
func WithSlidingWindow(on bool) Option {
	return func(o *Options) {
		o.SlidingWindow = on
	}
}

// Result is the output of Build.
type Result struct {
	// Counts is the nStates×nStates raw count matrix.
	Counts *matrix.CSR

	// Transitions is the number of pairs counted (equals Counts.Sum()).
	Transitions int
}

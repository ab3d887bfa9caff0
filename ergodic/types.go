package ergodic

import (
	"errors"
	"math"

	"github.com/stephenliu1989/msmbuilder-legacy/assignments"
	"github.com/stephenliu1989/msmbuilder-legacy/matrix"
)

// ErrNoErgodicComponent is returned when no state survives trimming.
var ErrNoErgodicComponent = errors.New("ergodic: no ergodic component")

// DefaultMinSupport drops states that were never observed.
const DefaultMinSupport = 1.0

// Option configures Trim.
type Option func(*Options)

// Options holds Trim parameters.
type Options struct {
	// MinSupport is the smallest in+out count a state needs to survive.
	MinSupport float64
}

// DefaultOptions returns MinSupport = DefaultMinSupport.
func DefaultOptions() Options {
	return Options{MinSupport: DefaultMinSupport}
}

// WithMinSupport sets the support threshold.
// Panics if v is negative or not finite (programmer error).
func WithMinSupport(v float64) Option {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		panic("ergodic: WithMinSupport(v): v must be finite and ≥ 0")
	}

	return func(o *Options) {
		o.MinSupport = v
	}
}

// Result is the output of Trim.
type Result struct {
	// Counts is C restricted to Kept and renumbered.
	Counts *matrix.CSR

	// Mapping sends each original state to its new index or Sentinel.
	Mapping assignments.Mapping

	// Kept lists the surviving original states in ascending order.
	Kept []int

	// DiscardedFraction is 1 − len(Kept)/n.
	DiscardedFraction float64

	// Rounds is the number of support/SCC rounds performed.
	Rounds int
}

package diagnostics

import (
	"context"
	"log/slog"
	"sort"
	"sync"
)

// Metric names reported by the engine.
const (
	CountsTransitions        = "counts.transitions"
	TrimStatesKept           = "trim.states_kept"
	TrimDiscardedFraction    = "trim.discarded_fraction"
	MLEIterations            = "mle.iterations"
	MLEFallback              = "mle.fallback"
	StationaryDegenerateRows = "stationary.degenerate_rows"
	StationaryDegenerateFrac = "stationary.degenerate_fraction"
	StationaryResidual       = "stationary.residual"
)

// Sink receives diagnostics. Implementations must tolerate repeated names
// (last value wins).
type Sink interface {
	Report(name string, value float64)
}

// Nop discards every value.
type Nop struct{}

// Report implements Sink.
func (Nop) Report(string, float64) {}

// Recorder keeps the last value per name. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	values map[string]float64
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{values: make(map[string]float64)}
}

// Report implements Sink.
func (r *Recorder) Report(name string, value float64) {
	r.mu.Lock()
	r.values[name] = value
	r.mu.Unlock()
}

// Get returns the last value reported under name.
func (r *Recorder) Get(name string) (float64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.values[name]

	return v, ok
}

// Names returns the reported names in sorted order.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.values))
	for n := range r.values {
		names = append(names, n)
	}
	sort.Strings(names)

	return names
}

// Snapshot returns a copy of all values.
func (r *Recorder) Snapshot() map[string]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]float64, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}

	return out
}

// Logger forwards each value to a slog.Logger at the given level.
type Logger struct {
	logger *slog.Logger
	level  slog.Level
}

// NewLogger returns a Logger sink. A nil logger uses slog.Default().
func NewLogger(logger *slog.Logger, level slog.Level) *Logger {
	if logger == nil {
		logger = slog.Default()
	}

	return &Logger{
		logger: logger.With(slog.String("component", "diagnostics")),
		level:  level,
	}
}

// Report implements Sink.
func (l *Logger) Report(name string, value float64) {
	l.logger.LogAttrs(context.Background(), l.level, "diagnostic",
		slog.String("metric", name),
		slog.Float64("value", value),
	)
}

// multi fans out to several sinks.
type multi []Sink

func (m multi) Report(name string, value float64) {
	for _, s := range m {
		s.Report(name, value)
	}
}

// Multi returns a Sink that reports to every non-nil sink in order.
func Multi(sinks ...Sink) Sink {
	out := make(multi, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}

	return out
}

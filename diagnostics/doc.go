// Package diagnostics carries numeric run diagnostics out of the MSM engine.
//
// The engine is pure and never logs; it reports named values to a Sink.
// Names are dotted, stage first:
//
//	counts.transitions           number of counted transition pairs
//	trim.states_kept             states in the ergodic subset
//	trim.discarded_fraction      1 − kept/total
//	mle.iterations               MLE fixed-point sweeps
//	mle.fallback                 1 when MLE failed and Transpose was used
//	stationary.degenerate_rows   rows of S with zero total count
//	stationary.degenerate_fraction
//	stationary.residual          ‖πT − π‖₁
//
// Sinks: Nop, Recorder (in-memory, for tests and manifests), Logger (slog),
// Prometheus (gauges on a private registry, exportable as a textfile) and
// Multi (fan-out).
package diagnostics

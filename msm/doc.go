// Package msm estimates a Markov State Model from labeled trajectories.
//
// Build runs the full pipeline:
//
//	validate → counts.Build → ergodic.Trim (raw C) → symmetrize.Symmetrize
//	         → stationary.Solve → remap assignments
//
// and returns a Model holding the trimmed raw counts, the symmetrized counts,
// the transition matrix, the equilibrium populations and the state mapping.
//
// Build is synchronous and single-threaded. It is safe to call concurrently
// on distinct inputs. The caller's assignments are left untouched unless
// WithInPlaceRemap is given, in which case they are rewritten only after
// every fallible stage has succeeded.
//
// Progress and quality numbers (trimmed fraction, MLE sweeps, degenerate
// rows) go to a diagnostics.Sink; the engine itself never logs.
package msm

// Package counts builds the lag-τ transition-count matrix of an MSM.
//
// For each trajectory and each start frame t with t+τ inside the trajectory,
// the pair (a[t], a[t+τ]) adds one count to C. Pairs touching an unassigned
// frame (assignments.Sentinel) are skipped.
//
// Sampling:
//
//   - Sliding window (default): every start frame t = 0, 1, 2, …
//   - Strided: only t = 0, τ, 2τ, … (statistically independent pairs).
//
// Build is a pure function: it never modifies its input and returns a fresh
// matrix. Memory is proportional to the number of distinct observed
// transitions, not to nStates².
package counts

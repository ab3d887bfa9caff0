// Package msmbuilder estimates Markov state models from discretized
// molecular-dynamics trajectories.
//
// What is a Markov state model here?
//
//	Given per-frame state labels (assignments), the engine counts transitions
//	at a lag time, restricts the model to its maximal ergodic subset,
//	symmetrizes the counts and row-normalizes them into a transition
//	probability matrix with its equilibrium populations.
//
// Pipeline:
//
//	assignments ─► counts ─► ergodic.Trim ─► symmetrize ─► stationary.Solve
//	                                                            │
//	                         remapped assignments ◄─ mapping ◄──┘
//
// Packages:
//
//	assignments/  label matrix, sentinel handling, state mappings
//	matrix/       immutable CSR storage and structural kernels
//	dfs/          depth-first traversal, strongly connected components, closed classes
//	counts/       lagged transition counting (sliding or strided windows)
//	ergodic/      support filtering and largest strongly connected subset
//	symmetrize/   None, Transpose and reversible MLE estimators
//	stationary/   transition matrix, equilibrium populations, zero-row policy
//	diagnostics/  metric sinks (recorder, slog, Prometheus)
//	msm/          one-call Build orchestrating the stages above
//	msmio/        assignments, Matrix Market, vectors and the run manifest
//
// The buildmsm command (cmd/buildmsm) wraps msm.Build with layered
// configuration (flags, MSMBUILD_* environment, TOML file) and writes the
// model outputs into a directory:
//
//	go run ./cmd/buildmsm Assignments.txt -o Data -l 10 -s MLE
package msmbuilder

// Package assignments models the input of MSM estimation: trajectories of
// integer state labels, one row per trajectory, with -1 (Sentinel) marking
// frames that belong to no state.
//
// Trajectories are ragged; a Matrix is simply [][]int. Helpers cover
// validation, label statistics and the remapping that ergodic trimming
// requires. Remapped returns a fresh copy; ApplyMapping rewrites in place and
// requires exclusive ownership of the matrix.
package assignments

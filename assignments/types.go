package assignments

import "errors"

// Sentinel marks an unassigned or trimmed frame.
const Sentinel = -1

var (
	// ErrEmpty is returned when the matrix holds no trajectories or no frames.
	ErrEmpty = errors.New("assignments: empty assignment matrix")

	// ErrInvalidLabel is returned for a label below Sentinel.
	ErrInvalidLabel = errors.New("assignments: label below -1")

	// ErrMappingRange is returned when a label has no entry in the mapping.
	ErrMappingRange = errors.New("assignments: label outside mapping")
)

// Matrix holds one trajectory per row. Rows may differ in length.
type Matrix [][]int

// Mapping sends an original state index to its compacted index, or to
// Sentinel when the state was discarded.
type Mapping []int

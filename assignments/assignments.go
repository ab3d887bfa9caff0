package assignments

import "fmt"

// Validate checks that a has at least one frame and that every label is
// ≥ Sentinel.
//
// Errors:
//   - ErrEmpty, ErrInvalidLabel (wrapped with trajectory/frame position).
func Validate(a Matrix) error {
	frames := 0
	for t, traj := range a {
		frames += len(traj)
		for f, s := range traj {
			if s < Sentinel {
				return fmt.Errorf("Validate: traj %d frame %d (%d): %w", t, f, s, ErrInvalidLabel)
			}
		}
	}
	if frames == 0 {
		return ErrEmpty
	}

	return nil
}

// MaxLabel returns the largest label in a, or Sentinel if no frame is assigned.
func MaxLabel(a Matrix) int {
	maxLabel := Sentinel
	for _, traj := range a {
		for _, s := range traj {
			if s > maxLabel {
				maxLabel = s
			}
		}
	}

	return maxLabel
}

// Frames returns the total number of frames, sentinels included.
func Frames(a Matrix) int {
	n := 0
	for _, traj := range a {
		n += len(traj)
	}

	return n
}

// CountAssigned returns the number of frames carrying a state label.
func CountAssigned(a Matrix) int {
	n := 0
	for _, traj := range a {
		for _, s := range traj {
			if s != Sentinel {
				n++
			}
		}
	}

	return n
}

// Flatten concatenates all trajectories into one slice.
func Flatten(a Matrix) []int {
	out := make([]int, 0, Frames(a))
	for _, traj := range a {
		out = append(out, traj...)
	}

	return out
}

// Clone returns a deep copy of a.
func Clone(a Matrix) Matrix {
	if a == nil {
		return nil
	}
	out := make(Matrix, len(a))
	for t, traj := range a {
		out[t] = append([]int(nil), traj...)
	}

	return out
}

// IdentityMapping returns the mapping i → i over n states.
func IdentityMapping(n int) Mapping {
	m := make(Mapping, n)
	for i := range m {
		m[i] = i
	}

	return m
}

// Kept returns the number of states the mapping retains.
func (m Mapping) Kept() int {
	n := 0
	for _, v := range m {
		if v != Sentinel {
			n++
		}
	}

	return n
}

// ApplyMapping rewrites every label s of a to mapping[s] in place. Sentinel
// frames stay Sentinel. On error a is left untouched.
//
// Errors:
//   - ErrMappingRange when a label is ≥ len(mapping).
//   - ErrInvalidLabel when a label is < Sentinel.
func ApplyMapping(a Matrix, mapping Mapping) error {
	if err := checkMappable(a, mapping); err != nil {
		return err
	}
	for _, traj := range a {
		for f, s := range traj {
			if s != Sentinel {
				traj[f] = mapping[s]
			}
		}
	}

	return nil
}

// Remapped returns a copy of a with mapping applied; a is not modified.
func Remapped(a Matrix, mapping Mapping) (Matrix, error) {
	if err := checkMappable(a, mapping); err != nil {
		return nil, err
	}
	out := make(Matrix, len(a))
	for t, traj := range a {
		row := make([]int, len(traj))
		for f, s := range traj {
			if s == Sentinel {
				row[f] = Sentinel
				continue
			}
			row[f] = mapping[s]
		}
		out[t] = row
	}

	return out, nil
}

func checkMappable(a Matrix, mapping Mapping) error {
	for t, traj := range a {
		for f, s := range traj {
			switch {
			case s < Sentinel:
				return fmt.Errorf("remap: traj %d frame %d (%d): %w", t, f, s, ErrInvalidLabel)
			case s >= len(mapping):
				return fmt.Errorf("remap: traj %d frame %d (%d): %w", t, f, s, ErrMappingRange)
			}
		}
	}

	return nil
}

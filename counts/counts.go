package counts

import (
	"fmt"

	"github.com/stephenliu1989/msmbuilder-legacy/assignments"
	"github.com/stephenliu1989/msmbuilder-legacy/matrix"
)

// Build counts lag-τ transitions in a.
// Implementation:
//   - Stage 1: validate lagTime, nStates and every label.
//   - Stage 2: walk each trajectory, accumulating (a[t], a[t+τ]) into a
//     matrix.Builder; step is 1 (sliding) or τ (strided).
//   - Stage 3: freeze the builder into CSR.
//
// Errors:
//   - ErrInvalidLagTime, ErrInvalidStates, ErrInvalidLabel, ErrLabelOutOfRange.
//
// Complexity: O(F) time for F frames, O(distinct transitions) memory.
func Build(a assignments.Matrix, lagTime, nStates int, opts ...Option) (*Result, error) {
	if lagTime <= 0 {
		return nil, fmt.Errorf("counts.Build: lag %d: %w", lagTime, ErrInvalidLagTime)
	}
	if nStates <= 0 {
		return nil, fmt.Errorf("counts.Build: nStates %d: %w", nStates, ErrInvalidStates)
	}
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if err := checkLabels(a, nStates); err != nil {
		return nil, err
	}

	b, err := matrix.NewBuilder(nStates, nStates)
	if err != nil {
		return nil, err
	}
	step := 1
	if !o.SlidingWindow {
		step = lagTime
	}

	transitions := 0
	var from, to int
	for _, traj := range a {
		for t := 0; t+lagTime < len(traj); t += step {
			from, to = traj[t], traj[t+lagTime]
			if from == assignments.Sentinel || to == assignments.Sentinel {
				continue
			}
			// Labels were range-checked above; Add cannot fail here.
			_ = b.Add(from, to, 1)
			transitions++
		}
	}

	return &Result{Counts: b.CSR(), Transitions: transitions}, nil
}

func checkLabels(a assignments.Matrix, nStates int) error {
	for t, traj := range a {
		for f, s := range traj {
			switch {
			case s < assignments.Sentinel:
				return fmt.Errorf("counts.Build: traj %d frame %d (%d): %w", t, f, s, ErrInvalidLabel)
			case s >= nStates:
				return fmt.Errorf("counts.Build: traj %d frame %d (%d ≥ %d): %w", t, f, s, nStates, ErrLabelOutOfRange)
			}
		}
	}

	return nil
}

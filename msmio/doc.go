// Package msmio reads and writes the files of an MSM build.
//
// Formats:
//
//   - Assignments (.txt): one trajectory per line, whitespace-separated
//     integer labels, -1 for unassigned frames. Blank lines and lines
//     starting with '#' are ignored.
//   - Populations.dat: one float per line.
//   - Mapping.dat: one integer per line, -1 for discarded states.
//   - *.mtx: Matrix Market coordinate format (real general on write;
//     real/integer/pattern, general/symmetric on read), 1-based indices.
//   - Model.toml: run manifest (parameters, outputs, diagnostics).
//
// Output files are never overwritten silently: CheckNotExist reports every
// pre-existing path as ErrOutputExists.
package msmio

package msmio

import "errors"

var (
	// ErrOutputExists is returned when an output file is already present.
	ErrOutputExists = errors.New("msmio: output file already exists")

	// ErrFormat is returned for malformed input files.
	ErrFormat = errors.New("msmio: malformed file")

	// ErrReadBack is returned when a written matrix file does not read back
	// to the matrix it was written from.
	ErrReadBack = errors.New("msmio: written file does not match its source")
)

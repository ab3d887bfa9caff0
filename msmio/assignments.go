package msmio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/stephenliu1989/msmbuilder-legacy/assignments"
)

// ReadAssignments parses the assignments text format.
//
// Errors:
//   - ErrFormat (wrapped with the line number) for non-integer tokens.
func ReadAssignments(r io.Reader) (assignments.Matrix, error) {
	br := bufio.NewReader(r)
	var out assignments.Matrix
	lineNo := 0
	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if line != "" {
			lineNo++
			traj, perr := parseTrajectory(line)
			if perr != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, perr)
			}
			if traj != nil {
				out = append(out, traj)
			}
		}
		if errors.Is(err, io.EOF) {
			return out, nil
		}
	}
}

func parseTrajectory(line string) ([]int, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, nil
	}
	fields := strings.Fields(line)
	traj := make([]int, len(fields))
	for k, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("token %d (%q): %w", k+1, f, ErrFormat)
		}
		traj[k] = v
	}

	return traj, nil
}

// LoadAssignments reads an assignments file from disk.
func LoadAssignments(path string) (assignments.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	a, err := ReadAssignments(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return a, nil
}

// WriteAssignments writes a in the assignments text format.
func WriteAssignments(w io.Writer, a assignments.Matrix) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 16)
	for _, traj := range a {
		for f, s := range traj {
			if f > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendInt(buf, int64(s), 10)
			if _, err := bw.Write(buf); err != nil {
				return err
			}
			buf = buf[:0]
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}

	return bw.Flush()
}

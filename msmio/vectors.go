package msmio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/stephenliu1989/msmbuilder-legacy/assignments"
)

// WritePopulations writes one value per line in %.18e notation.
func WritePopulations(w io.Writer, p []float64) error {
	bw := bufio.NewWriter(w)
	for _, v := range p {
		if _, err := fmt.Fprintf(bw, "%.18e\n", v); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// ReadPopulations parses one float per line, skipping blank and '#' lines.
func ReadPopulations(r io.Reader) ([]float64, error) {
	var out []float64
	err := eachValue(r, func(tok string) error {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return err
		}
		out = append(out, v)

		return nil
	})

	return out, err
}

// WriteMapping writes one index per line.
func WriteMapping(w io.Writer, m assignments.Mapping) error {
	bw := bufio.NewWriter(w)
	for _, v := range m {
		if _, err := fmt.Fprintf(bw, "%d\n", v); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// ReadMapping parses one integer per line, skipping blank and '#' lines.
func ReadMapping(r io.Reader) (assignments.Mapping, error) {
	var out assignments.Mapping
	err := eachValue(r, func(tok string) error {
		v, err := strconv.Atoi(tok)
		if err != nil {
			return err
		}
		out = append(out, v)

		return nil
	})

	return out, err
}

// eachValue calls fn with the single token of every content line.
func eachValue(r io.Reader, fn func(tok string) error) error {
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := fn(line); err != nil {
			return fmt.Errorf("line %d (%q): %w", lineNo, line, ErrFormat)
		}
	}

	return sc.Err()
}

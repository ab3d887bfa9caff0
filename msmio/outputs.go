package msmio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/stephenliu1989/msmbuilder-legacy/matrix"
	"github.com/stephenliu1989/msmbuilder-legacy/msm"
)

// Output file names inside the output directory.
const (
	FileTProb        = "tProb.mtx"
	FileTCounts      = "tCounts.mtx"
	FileTCountsUnSym = "tCounts.UnSym.mtx"
	FileMapping      = "Mapping.dat"
	FileAssignments  = "Assignments.Fixed.txt"
	FilePopulations  = "Populations.dat"
	FileManifest     = "Model.toml"
)

// Paths holds the full output paths of one build.
type Paths struct {
	TProb        string
	TCounts      string
	TCountsUnSym string
	Mapping      string
	Assignments  string
	Populations  string
	Manifest     string
}

// OutputPaths returns the output paths under dir.
func OutputPaths(dir string) Paths {
	return Paths{
		TProb:        filepath.Join(dir, FileTProb),
		TCounts:      filepath.Join(dir, FileTCounts),
		TCountsUnSym: filepath.Join(dir, FileTCountsUnSym),
		Mapping:      filepath.Join(dir, FileMapping),
		Assignments:  filepath.Join(dir, FileAssignments),
		Populations:  filepath.Join(dir, FilePopulations),
		Manifest:     filepath.Join(dir, FileManifest),
	}
}

// All lists every path in write order, manifest last.
func (p Paths) All() []string {
	return []string{p.TProb, p.TCounts, p.TCountsUnSym, p.Mapping, p.Assignments, p.Populations, p.Manifest}
}

// CheckNotExist returns an error wrapping ErrOutputExists for every path
// that already exists, or the first stat failure other than "not found".
func CheckNotExist(paths ...string) error {
	var errs []error
	for _, p := range paths {
		_, err := os.Stat(p)
		switch {
		case err == nil:
			errs = append(errs, fmt.Errorf("%s: %w", p, ErrOutputExists))
		case !errors.Is(err, os.ErrNotExist):
			return err
		}
	}

	return errors.Join(errs...)
}

// WriteModel writes the model outputs (everything except the manifest)
// into p, creating the directory if needed. Every Matrix Market file is
// read back and compared with its source. It returns the paths written.
func WriteModel(p Paths, m *msm.Model) ([]string, error) {
	if err := os.MkdirAll(filepath.Dir(p.TProb), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	mtx := func(c *matrix.CSR, comment string) func(io.Writer) error {
		return func(w io.Writer) error { return WriteMatrixMarket(w, c, comment) }
	}
	jobs := []struct {
		path   string
		write  func(io.Writer) error
		source *matrix.CSR // nil for non-matrix outputs
	}{
		{p.TProb, mtx(m.TMatrix, " transition probability matrix"), m.TMatrix},
		{p.TCounts, mtx(m.SymCounts, " symmetrized count matrix ("+m.Method.String()+")"), m.SymCounts},
		{p.TCountsUnSym, mtx(m.CountsAfterTrim, " raw count matrix after trimming"), m.CountsAfterTrim},
		{p.Mapping, func(w io.Writer) error { return WriteMapping(w, m.Mapping) }, nil},
		{p.Assignments, func(w io.Writer) error { return WriteAssignments(w, m.Assignments) }, nil},
		{p.Populations, func(w io.Writer) error { return WritePopulations(w, m.Populations) }, nil},
	}

	written := make([]string, 0, len(jobs))
	for _, j := range jobs {
		if err := writeFile(j.path, j.write); err != nil {
			return written, err
		}
		written = append(written, j.path)
		if j.source == nil {
			continue
		}
		if err := VerifyMatrixMarket(j.path, j.source); err != nil {
			return written, err
		}
	}

	return written, nil
}

// VerifyMatrixMarket reads the Matrix Market file at path and checks that it
// holds exactly want. Values are written in shortest round-trip form, so no
// tolerance is allowed.
//
// Errors:
//   - ErrReadBack when the shapes or any value differ.
//   - ErrFormat or an I/O error when the file cannot be read.
func VerifyMatrixMarket(path string, want *matrix.CSR) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	got, err := ReadMatrixMarket(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if got.Rows() != want.Rows() || got.Cols() != want.Cols() {
		return fmt.Errorf("%s: shape %d×%d, want %d×%d: %w",
			path, got.Rows(), got.Cols(), want.Rows(), want.Cols(), ErrReadBack)
	}
	same, err := matrix.AllClose(got, want, 0, 0)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if !same {
		return fmt.Errorf("%s: %w", path, ErrReadBack)
	}

	return nil
}

// writeFile creates or truncates path and runs write on it.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	if err = write(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	return nil
}

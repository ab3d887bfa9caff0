package msmio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/stephenliu1989/msmbuilder-legacy/matrix"
)

const mmBanner = "%%MatrixMarket"

// WriteMatrixMarket writes m as "matrix coordinate real general" with
// 1-based indices. Each comment line is prefixed with '%'.
// Values use the shortest representation that round-trips, so integer
// counts print as integers.
func WriteMatrixMarket(w io.Writer, m *matrix.CSR, comments ...string) error {
	if m == nil {
		return matrix.ErrNilMatrix
	}
	// bufio.Writer errors are sticky and reported by Flush.
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s matrix coordinate real general\n", mmBanner)
	for _, c := range comments {
		fmt.Fprintf(bw, "%%%s\n", c)
	}
	fmt.Fprintf(bw, "%d %d %d\n", m.Rows(), m.Cols(), m.NNZ())

	buf := make([]byte, 0, 64)
	m.DoNonZero(func(i, j int, v float64) {
		buf = strconv.AppendInt(buf[:0], int64(i+1), 10)
		buf = append(buf, ' ')
		buf = strconv.AppendInt(buf, int64(j+1), 10)
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, v, 'g', -1, 64)
		buf = append(buf, '\n')
		_, _ = bw.Write(buf)
	})

	return bw.Flush()
}

// ReadMatrixMarket parses a coordinate Matrix Market file with field real,
// integer or pattern and symmetry general or symmetric. Duplicate entries
// are summed.
//
// Errors:
//   - ErrFormat for a bad banner, size line or entry.
func ReadMatrixMarket(r io.Reader) (*matrix.CSR, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	if !sc.Scan() {
		return nil, mmError(1, "missing banner")
	}
	field, symmetric, err := parseBanner(sc.Text())
	if err != nil {
		return nil, err
	}

	lineNo := 1
	var b *matrix.Builder
	var rows, cols, nnz, seen int
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		tok := strings.Fields(line)
		if b == nil {
			if len(tok) != 3 {
				return nil, mmError(lineNo, "size line needs rows cols nnz")
			}
			if rows, err = strconv.Atoi(tok[0]); err == nil {
				if cols, err = strconv.Atoi(tok[1]); err == nil {
					nnz, err = strconv.Atoi(tok[2])
				}
			}
			if err != nil || nnz < 0 {
				return nil, mmError(lineNo, "bad size line")
			}
			if b, err = matrix.NewBuilder(rows, cols); err != nil {
				return nil, mmError(lineNo, err.Error())
			}
			continue
		}

		i, j, v, perr := parseEntry(tok, field)
		if perr != nil {
			return nil, mmError(lineNo, perr.Error())
		}
		if err = b.Add(i, j, v); err != nil {
			return nil, mmError(lineNo, err.Error())
		}
		if symmetric && i != j {
			if err = b.Add(j, i, v); err != nil {
				return nil, mmError(lineNo, err.Error())
			}
		}
		seen++
	}
	if err = sc.Err(); err != nil {
		return nil, err
	}
	if b == nil {
		return nil, mmError(lineNo, "missing size line")
	}
	if seen != nnz {
		return nil, mmError(lineNo, fmt.Sprintf("expected %d entries, found %d", nnz, seen))
	}

	return b.CSR(), nil
}

func parseBanner(line string) (field string, symmetric bool, err error) {
	tok := strings.Fields(strings.ToLower(line))
	if len(tok) != 5 || tok[0] != strings.ToLower(mmBanner) || tok[1] != "matrix" || tok[2] != "coordinate" {
		return "", false, mmError(1, "expected '%%MatrixMarket matrix coordinate <field> <symmetry>'")
	}
	switch tok[3] {
	case "real", "integer", "pattern":
		field = tok[3]
	default:
		return "", false, mmError(1, "unsupported field "+tok[3])
	}
	switch tok[4] {
	case "general":
	case "symmetric":
		symmetric = true
	default:
		return "", false, mmError(1, "unsupported symmetry "+tok[4])
	}

	return field, symmetric, nil
}

func parseEntry(tok []string, field string) (int, int, float64, error) {
	want := 3
	if field == "pattern" {
		want = 2
	}
	if len(tok) != want {
		return 0, 0, 0, fmt.Errorf("entry needs %d fields", want)
	}
	i, err := strconv.Atoi(tok[0])
	if err != nil {
		return 0, 0, 0, err
	}
	j, err := strconv.Atoi(tok[1])
	if err != nil {
		return 0, 0, 0, err
	}
	if field == "pattern" {
		return i - 1, j - 1, 1, nil
	}
	v, err := strconv.ParseFloat(tok[2], 64)
	if err != nil {
		return 0, 0, 0, err
	}

	return i - 1, j - 1, v, nil
}

func mmError(line int, msg string) error {
	return fmt.Errorf("matrix market line %d: %s: %w", line, msg, ErrFormat)
}

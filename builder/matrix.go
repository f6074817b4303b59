package builder

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/npillmayer/keitai/dict"
	"github.com/npillmayer/keitai/errs"
)

// ParseMatrix reads a connection cost file. The first line gives the number
// of right and left context ids, each following line a cell:
//
//	1316 1316
//	0 0 -434
//	0 1 1
//
// where the first id is the right context id of the preceding word and the
// second one the left context id of the following word. Cells not listed
// cost 0.
func ParseMatrix(r io.Reader) (*dict.ConnectionMatrix, error) {
	scanner := bufio.NewScanner(r)
	var m *dict.ConnectionMatrix
	lineno := 0
	for scanner.Scan() {
		lineno++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if m == nil {
			if len(fields) != 2 {
				return nil, matrixError(lineno, fmt.Errorf("header needs 2 fields, has %d", len(fields)))
			}
			rs, err1 := strconv.Atoi(fields[0])
			ls, err2 := strconv.Atoi(fields[1])
			if err1 != nil || err2 != nil {
				return nil, matrixError(lineno, fmt.Errorf("invalid header %q", scanner.Text()))
			}
			var err error
			if m, err = dict.NewConnectionMatrix(rs, ls); err != nil {
				return nil, matrixError(lineno, err)
			}
			continue
		}
		if len(fields) != 3 {
			return nil, matrixError(lineno, fmt.Errorf("cell needs 3 fields, has %d", len(fields)))
		}
		right, err1 := strconv.ParseUint(fields[0], 10, 16)
		left, err2 := strconv.ParseUint(fields[1], 10, 16)
		cost, err3 := strconv.ParseInt(fields[2], 10, 16)
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, matrixError(lineno, fmt.Errorf("invalid cell %q", scanner.Text()))
		}
		if err := m.Set(uint16(right), uint16(left), int16(cost)); err != nil {
			return nil, matrixError(lineno, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.Resource(errs.IO, "matrix.def", err)
	}
	if m == nil {
		return nil, errs.Resource(errs.Deserialize, "matrix.def", fmt.Errorf("empty matrix"))
	}
	tracer().Infof("matrix.def: %dx%d", m.RightSize(), m.LeftSize())
	return m, nil
}

func matrixError(lineno int, err error) error {
	return errs.Resource(errs.Deserialize, "matrix.def", fmt.Errorf("line %d: %w", lineno, err))
}

package builder

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/npillmayer/keitai/dict"
	"github.com/npillmayer/keitai/errs"
)

// ReadUserWords reads a user dictionary CSV file. A row is either simple,
//
//	surface,part_of_speech,reading
//
// getting opts.SimpleWordCost and opts.SimpleContextID and details from the
// schema's simple template, or detailed, with the columns of a lexicon row.
func ReadUserWords(r io.Reader, name string, opts Options) ([]dict.Word, error) {
	c := csv.NewReader(r)
	c.FieldsPerRecord = -1
	c.LazyQuotes = true
	width := 4 + len(opts.Schema.Fields)
	var words []dict.Word
	for {
		row, err := c.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errs.Resource(errs.Deserialize, name, err)
		}
		line, _ := c.FieldPos(0)
		rowErr := func(format string, args ...any) error {
			return errs.Resource(errs.Deserialize, name, fmt.Errorf("line %d: %s", line, fmt.Sprintf(format, args...)))
		}
		if len(row) == 0 || row[0] == "" {
			return nil, rowErr("empty surface")
		}
		switch {
		case len(row) == 3:
			words = append(words, dict.Word{
				Surface: row[0],
				LeftID:  opts.SimpleContextID,
				RightID: opts.SimpleContextID,
				Cost:    opts.SimpleWordCost,
				Details: opts.Schema.SimpleDetails(row[0], row[1], row[2]),
			})
		case len(row) == width || opts.FlexibleUserCSV && len(row) > 4 && len(row) < width:
			left, err1 := strconv.ParseUint(row[1], 10, 16)
			right, err2 := strconv.ParseUint(row[2], 10, 16)
			cost, err3 := strconv.ParseInt(row[3], 10, 16)
			if err1 != nil || err2 != nil || err3 != nil {
				return nil, rowErr("invalid context id or cost")
			}
			details := make([]string, width-4)
			for i := range details {
				details[i] = dict.Wildcard
				if 4+i < len(row) && row[4+i] != "" {
					details[i] = row[4+i]
				}
			}
			words = append(words, dict.Word{
				Surface: row[0],
				LeftID:  uint16(left),
				RightID: uint16(right),
				Cost:    int16(cost),
				Details: details,
			})
		default:
			return nil, rowErr("row has %d fields, expected 3 or %d", len(row), width)
		}
	}
	tracer().Infof("%s: %d user words", name, len(words))
	return words, nil
}

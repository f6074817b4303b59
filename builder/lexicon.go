package builder

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/npillmayer/keitai/dict"
	"github.com/npillmayer/keitai/errs"
)

// errInvalidRow marks rows with unparsable context ids or costs.
var errInvalidRow = errors.New("invalid row")

// rowReader reads CSV rows of the form key,left_id,right_id,cost,details...
type rowReader struct {
	csv   *csv.Reader
	name  string // of the source, for error messages
	width int    // expected number of columns, 0 for any
	opts  *Options
}

func newRowReader(r io.Reader, name string, width int, opts *Options) *rowReader {
	c := csv.NewReader(r)
	c.FieldsPerRecord = -1
	c.LazyQuotes = true
	c.ReuseRecord = true
	return &rowReader{csv: c, name: name, width: width, opts: opts}
}

// next returns the next row as a word. Rows with invalid ids or costs yield
// an error wrapping errInvalidRow.
func (r *rowReader) next() (dict.Word, int, error) {
	row, err := r.csv.Read()
	if err == io.EOF {
		return dict.Word{}, 0, io.EOF
	}
	if err != nil {
		return dict.Word{}, 0, errs.Resource(errs.Deserialize, r.name, err)
	}
	line, _ := r.csv.FieldPos(0)
	if r.width > 0 && len(row) != r.width && !(r.opts.FlexibleCSV && len(row) < r.width) {
		return dict.Word{}, line, r.rowError(line, fmt.Errorf("row has %d fields, expected %d", len(row), r.width))
	}
	if len(row) < 4 {
		return dict.Word{}, line, r.rowError(line, fmt.Errorf("%w: row has %d fields", errInvalidRow, len(row)))
	}
	left, err1 := strconv.ParseUint(row[1], 10, 16)
	right, err2 := strconv.ParseUint(row[2], 10, 16)
	cost, err3 := strconv.ParseInt(row[3], 10, 16)
	if err := errors.Join(err1, err2, err3); err != nil {
		return dict.Word{}, line, r.rowError(line, fmt.Errorf("%w: %v", errInvalidRow, err))
	}
	n := len(row) - 4
	if r.width > 0 {
		n = r.width - 4
	}
	details := make([]string, n)
	for i := range details {
		details[i] = dict.Wildcard
		if 4+i < len(row) && (row[4+i] != "" || !r.opts.NormalizeDetails) {
			details[i] = row[4+i]
		}
	}
	return dict.Word{
		Surface: row[0],
		LeftID:  uint16(left),
		RightID: uint16(right),
		Cost:    int16(cost),
		Details: details,
	}, line, nil
}

func (r *rowReader) rowError(line int, err error) error {
	return errs.Resource(errs.Deserialize, r.name, fmt.Errorf("line %d: %w", line, err))
}

// LexiconReader streams the words of a lexicon CSV file.
type LexiconReader struct {
	rows    *rowReader
	opts    Options
	skipped int
}

// NewLexiconReader creates a reader for UTF-8 CSV input. name identifies the
// source in error messages.
func NewLexiconReader(r io.Reader, name string, opts Options) *LexiconReader {
	lr := &LexiconReader{opts: opts}
	lr.rows = newRowReader(r, name, 4+len(opts.Schema.Fields), &lr.opts)
	return lr
}

// Next returns the next word. It returns io.EOF when exhausted.
func (r *LexiconReader) Next() (dict.Word, error) {
	for {
		w, line, err := r.rows.next()
		if errors.Is(err, errInvalidRow) && r.opts.SkipInvalid {
			r.skipped++
			tracer().Debugf("%s: skipping invalid row at line %d", r.rows.name, line)
			continue
		}
		if err != nil {
			return w, err
		}
		if w.Surface == "" {
			return w, r.rows.rowError(line, fmt.Errorf("empty surface"))
		}
		w.Compound = r.opts.isCompound(&w)
		return w, nil
	}
}

// Skipped returns the number of invalid rows skipped so far.
func (r *LexiconReader) Skipped() int { return r.skipped }

// ReadLexicon reads all words of a lexicon.
func ReadLexicon(r io.Reader, name string, opts Options) ([]dict.Word, error) {
	lr := NewLexiconReader(r, name, opts)
	var words []dict.Word
	for {
		w, err := lr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	if lr.Skipped() > 0 {
		tracer().Infof("%s: skipped %d invalid rows", name, lr.Skipped())
	}
	return words, nil
}

// ParseUnknown reads unknown-word entries, rows of the form
// CATEGORY,left_id,right_id,cost,details..., for the categories of chardef.
func ParseUnknown(r io.Reader, chardef *dict.CharacterDefinitions, opts Options) (*dict.UnknownDictionary, error) {
	rows := newRowReader(r, "unk.def", 0, &opts)
	words := make(map[dict.CategoryID][]dict.Word)
	count := 0
	for {
		w, line, err := rows.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		id, ok := chardef.CategoryByName(w.Surface)
		if !ok {
			return nil, rows.rowError(line, fmt.Errorf("undefined category %s", w.Surface))
		}
		w.Surface = ""
		words[id] = append(words[id], w)
		count++
	}
	unk, err := dict.NewUnknownDictionary(chardef.NumCategories(), words)
	if err != nil {
		return nil, errs.Resource(errs.Deserialize, "unk.def", err)
	}
	tracer().Infof("unk.def: %d entries", count)
	return unk, nil
}

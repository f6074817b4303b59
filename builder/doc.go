/*
Package builder compiles MeCab-style dictionary sources into the binary
artifacts read by package dict.

A source directory holds

	char.def     character categories and code point ranges
	unk.def      unknown-word entries per category (CSV)
	matrix.def   connection costs: a "R L" header, then "r l cost" lines
	*.csv        the lexicon: surface,left_id,right_id,cost,details...

Sources may be encoded in UTF-8, EUC-JP, Shift_JIS or UTF-16 (with BOM).
User dictionaries are CSV files with either simple rows
(surface,part_of_speech,reading) or detailed rows of the same width as the
lexicon.

Parsers are streaming readers in the style of
	for { w, err := r.Next(); if err == io.EOF { break } ... }
*/
package builder

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'keitai.builder'
func tracer() tracing.Trace {
	return tracing.Select("keitai.builder")
}

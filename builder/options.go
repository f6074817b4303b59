package builder

import (
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/keitai/dict"
	"github.com/npillmayer/keitai/errs"
	"github.com/npillmayer/keitai/resource"
)

// Options control how sources are read and artifacts are written.
type Options struct {
	Schema      dict.Schema
	Encoding    string             // of the source files, see Decode
	Compression resource.Algorithm // of the artifacts
	// FlexibleCSV pads short lexicon rows with wildcards instead of rejecting them.
	FlexibleCSV bool
	// FlexibleUserCSV does the same for detailed user dictionary rows.
	FlexibleUserCSV bool
	// SkipInvalid drops rows with unparsable context ids or costs instead of
	// failing the build.
	SkipInvalid bool
	// NormalizeDetails replaces empty detail fields with a wildcard.
	NormalizeDetails bool
	// Compound decides which lexicon words may be decomposed. nil means
	// DefaultCompound.
	Compound func(w *dict.Word) bool
	// Decompose is the compound penalty policy stored with the dictionary.
	Decompose dict.DecomposePolicy
	// Simple user dictionary rows get this cost and context id.
	SimpleWordCost  int16
	SimpleContextID uint16
}

const (
	defaultSimpleWordCost  = -10000
	defaultSimpleContextID = 0
)

// DefaultOptions returns the options for a built-in dictionary kind.
func DefaultOptions(kind string) (Options, error) {
	schema, err := dict.SchemaFor(kind)
	if err != nil {
		return Options{}, err
	}
	o := Options{
		Schema:          schema,
		Encoding:        "UTF-8",
		Compression:     resource.Deflate,
		Decompose:       dict.DefaultDecomposePolicy,
		SimpleWordCost:  defaultSimpleWordCost,
		SimpleContextID: defaultSimpleContextID,
	}
	switch kind {
	case "ipadic":
		o.Encoding = "EUC-JP"
		o.NormalizeDetails = true
		o.FlexibleUserCSV = true
	case "unidic":
		o.NormalizeDetails = true
	case "ko-dic":
		o.FlexibleCSV = true
	case "cc-cedict":
		o.FlexibleCSV = true
		o.SkipInvalid = true
	}
	return o, nil
}

func (o *Options) validate() error {
	if err := o.Schema.Validate(); err != nil {
		return err
	}
	if _, err := decoderFor(o.Encoding); err != nil {
		return err
	}
	if o.Compression > resource.LZ4 {
		return errs.Newf(errs.Args, "unknown compression %s", o.Compression)
	}
	return nil
}

func (o *Options) isCompound(w *dict.Word) bool {
	if o.Compound != nil {
		return o.Compound(w)
	}
	return DefaultCompound(w)
}

// DefaultCompound flags surfaces consisting of more than two kanji, and any
// surface of more than seven code points.
func DefaultCompound(w *dict.Word) bool {
	n := utf8.RuneCountInString(w.Surface)
	if n > 7 {
		return true
	}
	if n <= 2 {
		return false
	}
	for _, r := range w.Surface {
		if !unicode.Is(unicode.Han, r) {
			return false
		}
	}
	return true
}

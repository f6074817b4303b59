package analysis

import (
	"unicode/utf8"

	"github.com/npillmayer/keitai"
	"github.com/npillmayer/keitai/dict"
	"github.com/npillmayer/keitai/errs"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// LowercaseTokenFilter lowercases token texts.
type LowercaseTokenFilter struct {
	tag language.Tag
}

// NewLowercaseTokenFilter creates a filter using the casing rules of a
// language; the empty string selects language independent rules.
func NewLowercaseTokenFilter(lang string) (*LowercaseTokenFilter, error) {
	tag := language.Und
	if lang != "" {
		var err error
		if tag, err = language.Parse(lang); err != nil {
			return nil, err
		}
	}
	return &LowercaseTokenFilter{tag: tag}, nil
}

func (f *LowercaseTokenFilter) Name() string { return "lowercase" }

func (f *LowercaseTokenFilter) Apply(tokens []keitai.Token) ([]keitai.Token, error) {
	caser := cases.Lower(f.tag) // a Caser must not be shared between goroutines
	for i := range tokens {
		tokens[i].Text = caser.String(tokens[i].Text)
	}
	return tokens, nil
}

// FieldFormTokenFilter replaces token texts by a detail field, such as the
// base form or the reading. Tokens where the field is missing or "*" keep
// their text.
type FieldFormTokenFilter struct {
	name  string
	index int
}

var formFields = map[string]map[string]string{
	"japanese_base_form": {
		"ipadic": "base_form",
		"unidic": "orthographic_base_form",
	},
	"japanese_reading_form": {
		"ipadic": "reading",
		"unidic": "reading",
		"ko-dic": "reading",
	},
}

func newFieldFormTokenFilter(name, kind string) (*FieldFormTokenFilter, error) {
	field, ok := formFields[name][kind]
	if !ok {
		return nil, errs.Newf(errs.Args, "%s does not support dictionary kind %q", name, kind)
	}
	schema, err := dict.SchemaFor(kind)
	if err != nil {
		return nil, err
	}
	return &FieldFormTokenFilter{name: name, index: schema.FieldIndex(field)}, nil
}

// NewBaseFormTokenFilter replaces token texts by their base form.
func NewBaseFormTokenFilter(kind string) (*FieldFormTokenFilter, error) {
	return newFieldFormTokenFilter("japanese_base_form", kind)
}

// NewReadingFormTokenFilter replaces token texts by their reading.
func NewReadingFormTokenFilter(kind string) (*FieldFormTokenFilter, error) {
	return newFieldFormTokenFilter("japanese_reading_form", kind)
}

func (f *FieldFormTokenFilter) Name() string { return f.name }

func (f *FieldFormTokenFilter) Apply(tokens []keitai.Token) ([]keitai.Token, error) {
	for i := range tokens {
		if d := tokens[i].Details; f.index < len(d) && d[f.index] != dict.Wildcard {
			tokens[i].Text = d[f.index]
		}
	}
	return tokens, nil
}

type kindArgs struct {
	Kind string `yaml:"kind" json:"kind"`
}

// LengthTokenFilter keeps tokens with a length in code points between Min
// and Max. Max 0 means no upper bound.
type LengthTokenFilter struct {
	Min, Max int
}

type lengthArgs struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// NewLengthTokenFilter creates a length filter.
func NewLengthTokenFilter(minLen, maxLen int) (*LengthTokenFilter, error) {
	if minLen < 0 || maxLen < 0 || maxLen > 0 && maxLen < minLen {
		return nil, errs.Newf(errs.Args, "invalid length range [%d,%d]", minLen, maxLen)
	}
	return &LengthTokenFilter{Min: minLen, Max: maxLen}, nil
}

func (f *LengthTokenFilter) Name() string { return "length" }

func (f *LengthTokenFilter) Apply(tokens []keitai.Token) ([]keitai.Token, error) {
	kept := tokens[:0]
	for _, t := range tokens {
		n := utf8.RuneCountInString(t.Text)
		if n >= f.Min && (f.Max == 0 || n <= f.Max) {
			kept = append(kept, t)
		}
	}
	return kept, nil
}

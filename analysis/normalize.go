package analysis

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// UnicodeNormalizeCharacterFilter brings text into a Unicode normal form.
type UnicodeNormalizeCharacterFilter struct {
	form norm.Form
}

var normalForms = map[string]norm.Form{
	"nfc":  norm.NFC,
	"nfd":  norm.NFD,
	"nfkc": norm.NFKC,
	"nfkd": norm.NFKD,
}

// NewUnicodeNormalizeCharacterFilter creates a filter for one of the forms
// nfc, nfd, nfkc or nfkd.
func NewUnicodeNormalizeCharacterFilter(form string) (*UnicodeNormalizeCharacterFilter, error) {
	f, ok := normalForms[strings.ToLower(form)]
	if !ok {
		return nil, fmt.Errorf("unknown normal form %q", form)
	}
	return &UnicodeNormalizeCharacterFilter{form: f}, nil
}

func (f *UnicodeNormalizeCharacterFilter) Name() string { return "unicode_normalize" }

// Apply normalizes text segment by segment, recording the offsets of
// segments which change length.
func (f *UnicodeNormalizeCharacterFilter) Apply(text string) (string, *OffsetMap, error) {
	offsets := &OffsetMap{}
	if f.form.IsNormalString(text) {
		return text, offsets, nil
	}
	var sb strings.Builder
	sb.Grow(len(text))
	var it norm.Iter
	it.InitString(f.form, text)
	for !it.Done() {
		start := it.Pos()
		seg := it.Next()
		if srcLen := it.Pos() - start; srcLen != len(seg) {
			offsets.replaced(sb.Len(), srcLen, len(seg))
		}
		sb.Write(seg)
	}
	return sb.String(), offsets, nil
}

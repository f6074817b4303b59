package keitai

import (
	"strings"

	"github.com/npillmayer/keitai/dict"
)

// Token is one segment of a tokenized text.
type Token struct {
	Text           string // the segment, a substring of the input
	ByteStart      int    // offset of the segment in the input
	ByteEnd        int
	Position       int // ordinal of the token
	PositionLength int // >1 on the first part of a decomposed compound: number of parts
	WordID         dict.WordID
	Details        []string
}

func (t Token) String() string {
	return t.Text + "\t" + strings.Join(t.Details, ",")
}

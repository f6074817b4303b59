package analysis

import (
	"github.com/npillmayer/keitai"
)

// CharacterFilter rewrites text before tokenization.
type CharacterFilter interface {
	Name() string
	// Apply returns the rewritten text and the map of its offsets back to text.
	Apply(text string) (string, *OffsetMap, error)
}

// TokenFilter rewrites a token sequence. It may modify tokens in place and
// return a shorter or reordered slice.
type TokenFilter interface {
	Name() string
	Apply(tokens []keitai.Token) ([]keitai.Token, error)
}

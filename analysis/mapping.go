package analysis

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/derekparker/trie"
	"github.com/npillmayer/keitai"
)

// mapper replaces, scanning left to right, the longest key of a mapping
// found at each position by its value.
type mapper struct {
	keys   *trie.Trie
	maxLen int // of keys, in runes
}

func newMapper(mapping map[string]string) (*mapper, error) {
	if len(mapping) == 0 {
		return nil, fmt.Errorf("mapping is empty")
	}
	m := &mapper{keys: trie.New()}
	for k, v := range mapping {
		if k == "" {
			return nil, fmt.Errorf("mapping has an empty key")
		}
		m.keys.Add(k, v)
		m.maxLen = max(m.maxLen, utf8.RuneCountInString(k))
	}
	return m, nil
}

// longest returns the length in bytes of the longest key which is a prefix
// of s, and its value.
func (m *mapper) longest(s string) (int, string) {
	n, value := 0, ""
	end := 0
	for i := 0; i < m.maxLen && end < len(s); i++ {
		_, size := utf8.DecodeRuneInString(s[end:])
		end += size
		prefix := s[:end]
		if node, ok := m.keys.Find(prefix); ok {
			n, value = end, node.Meta().(string)
		}
		if !m.keys.HasKeysWithPrefix(prefix) {
			break
		}
	}
	return n, value
}

// apply maps text; if offsets is not nil, replacements are recorded.
func (m *mapper) apply(text string, offsets *OffsetMap) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for pos := 0; pos < len(text); {
		n, value := m.longest(text[pos:])
		if n == 0 {
			_, size := utf8.DecodeRuneInString(text[pos:])
			sb.WriteString(text[pos : pos+size])
			pos += size
			continue
		}
		if offsets != nil {
			offsets.replaced(sb.Len(), n, len(value))
		}
		sb.WriteString(value)
		pos += n
	}
	return sb.String()
}

type mappingArgs struct {
	Mapping map[string]string `yaml:"mapping" json:"mapping"`
}

// MappingCharacterFilter replaces character sequences of the text, always
// taking the longest match.
type MappingCharacterFilter struct {
	m *mapper
}

// NewMappingCharacterFilter creates a mapping character filter.
func NewMappingCharacterFilter(mapping map[string]string) (*MappingCharacterFilter, error) {
	m, err := newMapper(mapping)
	if err != nil {
		return nil, err
	}
	return &MappingCharacterFilter{m: m}, nil
}

func (f *MappingCharacterFilter) Name() string { return "mapping" }

func (f *MappingCharacterFilter) Apply(text string) (string, *OffsetMap, error) {
	offsets := &OffsetMap{}
	return f.m.apply(text, offsets), offsets, nil
}

// MappingTokenFilter replaces character sequences of token texts, always
// taking the longest match. Offsets are left as they are.
type MappingTokenFilter struct {
	m *mapper
}

// NewMappingTokenFilter creates a mapping token filter.
func NewMappingTokenFilter(mapping map[string]string) (*MappingTokenFilter, error) {
	m, err := newMapper(mapping)
	if err != nil {
		return nil, err
	}
	return &MappingTokenFilter{m: m}, nil
}

func (f *MappingTokenFilter) Name() string { return "mapping" }

func (f *MappingTokenFilter) Apply(tokens []keitai.Token) ([]keitai.Token, error) {
	for i := range tokens {
		tokens[i].Text = f.m.apply(tokens[i].Text, nil)
	}
	return tokens, nil
}

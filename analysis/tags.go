package analysis

import (
	"strings"

	"github.com/npillmayer/keitai"
)

// tagDepth is the number of part-of-speech levels a tag is compared on.
const tagDepth = 4

// formatTag pads a comma-separated part-of-speech tag to tagDepth levels.
func formatTag(levels []string) string {
	var tag [tagDepth]string
	for i := range tag {
		tag[i] = "*"
		if i < len(levels) && levels[i] != "" {
			tag[i] = levels[i]
		}
	}
	return strings.Join(tag[:], ",")
}

func tagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[formatTag(strings.Split(t, ","))] = struct{}{}
	}
	return set
}

func tokenTag(t *keitai.Token) string {
	n := 1
	if len(t.Details) >= tagDepth {
		n = tagDepth
	}
	return formatTag(t.Details[:min(n, len(t.Details))])
}

type tagsArgs struct {
	Tags []string `yaml:"tags" json:"tags"`
}

// KeepTagsTokenFilter keeps only tokens whose part-of-speech tag is listed.
// Tags are compared on four levels, unspecified levels being "*".
type KeepTagsTokenFilter struct {
	tags map[string]struct{}
}

// NewKeepTagsTokenFilter creates a filter keeping the given tags,
// e.g. "名詞" or "名詞,固有名詞,地域".
func NewKeepTagsTokenFilter(tags []string) *KeepTagsTokenFilter {
	return &KeepTagsTokenFilter{tags: tagSet(tags)}
}

func (f *KeepTagsTokenFilter) Name() string { return "japanese_keep_tags" }

func (f *KeepTagsTokenFilter) Apply(tokens []keitai.Token) ([]keitai.Token, error) {
	kept := tokens[:0]
	for i := range tokens {
		if _, ok := f.tags[tokenTag(&tokens[i])]; ok {
			kept = append(kept, tokens[i])
		}
	}
	return kept, nil
}

// StopTagsTokenFilter drops tokens whose part-of-speech tag is listed.
type StopTagsTokenFilter struct {
	tags map[string]struct{}
}

// NewStopTagsTokenFilter creates a filter dropping the given tags.
func NewStopTagsTokenFilter(tags []string) *StopTagsTokenFilter {
	return &StopTagsTokenFilter{tags: tagSet(tags)}
}

func (f *StopTagsTokenFilter) Name() string { return "japanese_stop_tags" }

func (f *StopTagsTokenFilter) Apply(tokens []keitai.Token) ([]keitai.Token, error) {
	kept := tokens[:0]
	for i := range tokens {
		if _, ok := f.tags[tokenTag(&tokens[i])]; !ok {
			kept = append(kept, tokens[i])
		}
	}
	return kept, nil
}

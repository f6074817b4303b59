/*
Package analysis hosts filter pipelines around a keitai.Tokenizer.

Character filters rewrite the raw text before tokenization and report an
OffsetMap, so that token offsets can be mapped back to the original text.
Token filters rewrite, drop or reorder the tokens afterwards. An Analyzer
chains both; it works with zero filters as well.

Filters are created by name from a configuration payload (YAML or JSON):

	f, err := analysis.NewTokenFilter("japanese_keep_tags", args)
	f, err := analysis.TokenFilterFromFlag(`japanese_keep_tags:{"tags":["名詞,固有名詞"]}`)

New kinds of filters are added with RegisterCharacterFilter and
RegisterTokenFilter.
*/
package analysis

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'keitai.analysis'
func tracer() tracing.Trace {
	return tracing.Select("keitai.analysis")
}

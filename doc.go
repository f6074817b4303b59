/*
Package keitai is a morphological analyzer for languages written without
explicit word boundaries, such as Japanese, Chinese or Korean.

A Tokenizer segments text into tokens using a precompiled system dictionary
(package dict): a double-array trie (DAT) of known words, a bigram connection
cost matrix, a character category table and a table of unknown-word entries.
An optional user dictionary overlays the system dictionary. The segmentation
is the minimum-cost path through the lattice of candidate words (package
lattice).

	sys, err := dict.Load("ipadic")
	...
	tok, err := keitai.NewTokenizer(sys, keitai.WithMode(keitai.Decompose))
	tokens, err := tok.Tokenize("すもももももももものうち")

Dictionaries are loaded once and never changed afterwards; a Tokenizer may be
used by any number of goroutines without synchronization.

Further Reading

	https://taku910.github.io/mecab/            (MeCab, the dictionary format)
	https://en.wikipedia.org/wiki/Viterbi_algorithm

----------------------------------------------------------------------

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer@com>

All rights reserved.

License information is available in the LICENSE file.
*/
package keitai

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'keitai'
func tracer() tracing.Trace {
	return tracing.Select("keitai")
}

/*
Package dat implements a frozen double-array trie (DAT) over byte strings.

Keys are UTF-8 surfaces of dictionary words; every key carries a uint32 value.
The trie is built once with a Builder, frozen into flat Base/Check/Value arrays
and is read-only from then on, so a single DAT may be shared by any number of
goroutines without locking.

The query operation needed by a morphological analyzer is the common-prefix
search: given the remaining input, report every key that is a prefix of it.
Cost of a query is proportional to the length of the longest match and
independent of the number of keys.
*/
package dat

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'keitai.dat'
func tracer() tracing.Trace {
	return tracing.Select("keitai.dat")
}

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}

/*
Package dict holds the static resources of a morphological analyzer:

  - PrefixDictionary: a trie-indexed table of known words with their context
    ids, costs and detail records (system and user dictionaries),
  - ConnectionMatrix: bigram connection costs between context ids,
  - CharacterDefinitions: the character category table,
  - UnknownDictionary: per-category entries for unknown-word synthesis,
  - Schema: the field layout of detail records for a dictionary kind.

All resources are loaded once and are immutable afterwards. They are shared
by concurrent analyses without any synchronization; nothing in this package
mutates a resource after its constructor or loader has returned.
*/
package dict

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'keitai.dict'
func tracer() tracing.Trace {
	return tracing.Select("keitai.dict")
}

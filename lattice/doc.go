/*
Package lattice finds the minimum-cost segmentation of a text.

Candidate words are taken from a system dictionary, an optional user
dictionary and, where neither knows a word starting at a position, from
unknown-word synthesis over character categories. The search is a single
left-to-right dynamic program over byte positions. For every position it keeps
the best node per right context id, as the cost of a following word depends on
the context id of its predecessor.

Nodes live in an arena owned by one search; predecessors are arena indices.
A Lattice itself is read-only and may be used by concurrent goroutines.
*/
package lattice

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'keitai.lattice'
func tracer() tracing.Trace {
	return tracing.Select("keitai.lattice")
}

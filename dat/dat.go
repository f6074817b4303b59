package dat

import (
	"iter"
)

// DAT is a frozen double-array trie over byte strings.
//   - Nodes/states are indices into Base/Check (0 is unused; Root is 1).
//   - Transition: t := Base[s] + label(b); valid if Check[t] == s; next state is t.
//   - label(b) is b+1, so every byte maps into [1..256] and 0 never is a label.
//
// Values:
//   - If Value[s] != 0, node s is terminal, i.e. the path from Root to s spells a key.
//   - The stored value is Value[s]-1, so any uint32 below MaxValue can be stored.
type DAT struct {
	// Root state index (always 1 for tries built by this package).
	Root uint32

	// Base and Check are the classic double-array.
	Base  []int32 // len == N
	Check []int32 // len == N

	// Value holds value+1 for terminal nodes, 0 for inner nodes.
	Value []uint32 // len == N
}

// MaxValue is the largest value a key may carry.
const MaxValue = ^uint32(0) - 1

// Match is one key found by CommonPrefixSearch.
type Match struct {
	Length int    // number of bytes of the query covered by the key
	Value  uint32 // value stored with the key
}

func label(b byte) int32 { return int32(b) + 1 }

// NStates returns number of allocated slots/states in the arrays.
func (d *DAT) NStates() int { return len(d.Base) }

// Transition returns (nextState, ok) for one input byte.
func (d *DAT) Transition(state uint32, b byte) (uint32, bool) {
	if int(state) >= len(d.Base) {
		return 0, false
	}
	t := d.Base[state] + label(b)
	if t <= 0 || int(t) >= len(d.Check) {
		return 0, false
	}
	if d.Check[t] != int32(state) {
		return 0, false
	}
	return uint32(t), true
}

// valueAt returns the value stored at state s, if s is terminal.
func (d *DAT) valueAt(s uint32) (uint32, bool) {
	v := d.Value[s]
	if v == 0 {
		return 0, false
	}
	return v - 1, true
}

// Lookup returns the value stored for key, if key is present.
func (d *DAT) Lookup(key []byte) (uint32, bool) {
	if len(d.Base) == 0 || len(key) == 0 {
		return 0, false
	}
	state := d.Root
	for _, b := range key {
		next, ok := d.Transition(state, b)
		if !ok {
			return 0, false
		}
		state = next
	}
	return d.valueAt(state)
}

// PrefixMatches iterates over every key which is a prefix of input, shortest
// first, yielding (length of key, value). Iteration does not allocate.
func (d *DAT) PrefixMatches(input []byte) iter.Seq2[int, uint32] {
	return func(yield func(int, uint32) bool) {
		if len(d.Base) == 0 {
			return
		}
		state := d.Root
		for i, b := range input {
			next, ok := d.Transition(state, b)
			if !ok {
				return
			}
			state = next
			if v, ok := d.valueAt(state); ok {
				if !yield(i+1, v) {
					return
				}
			}
		}
	}
}

// CommonPrefixSearch returns every key which is a prefix of input.
// The result is empty if no key matches; this is not an error.
func (d *DAT) CommonPrefixSearch(input []byte) []Match {
	var matches []Match
	for n, v := range d.PrefixMatches(input) {
		matches = append(matches, Match{Length: n, Value: v})
	}
	return matches
}

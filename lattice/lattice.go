package lattice

import (
	"unicode/utf8"

	"github.com/npillmayer/keitai/dict"
)

// Source tells where the word of a node comes from.
type Source uint8

const (
	System   Source = iota // system dictionary
	User                   // user dictionary
	Unknown                // synthesized from a character category
	Fallback               // generic one-code-point word
	BOS                    // begin of span
	EOS                    // end of span
)

func (s Source) String() string {
	switch s {
	case System:
		return "system"
	case User:
		return "user"
	case Unknown:
		return "unknown"
	case Fallback:
		return "fallback"
	case BOS:
		return "BOS"
	case EOS:
		return "EOS"
	}
	return "?"
}

// FallbackCost is the word cost of the generic one-code-point word, used
// where no other candidate starts. Its context ids are 0.
const FallbackCost = 10000

// Node is a word span of the lattice.
type Node struct {
	Start, End int            // byte offsets into the input
	Entry      dict.WordEntry // word id, context ids, word cost, detail offset
	Source     Source
	Category   dict.CategoryID // for Unknown nodes
	Cost       int64           // best cumulative cost from the begin of the span
	prev       int32           // arena index of the best predecessor, -1 for none
}

// Surface returns the bytes of input covered by the node.
func (n *Node) Surface(input []byte) []byte {
	return input[n.Start:n.End]
}

// Lattice searches segmentations against a set of dictionaries.
type Lattice struct {
	sys  *dict.Dictionary
	user *dict.UserDictionary // may be nil
}

// New creates a Lattice. user may be nil. Context ids of the user dictionary
// must have been checked against the system matrix.
func New(sys *dict.Dictionary, user *dict.UserDictionary) *Lattice {
	return &Lattice{sys: sys, user: user}
}

// BestPath returns the minimum-cost sequence of nodes covering input, without
// the begin and end nodes. It returns nil for empty input.
func (l *Lattice) BestPath(input []byte) []Node {
	if len(input) == 0 {
		return nil
	}
	s := newSearch(l, input, 0, len(input))
	path, _, _ := s.run(0, 0, false)
	tracer().Debugf("best path over %d bytes: %d nodes", len(input), len(path))
	return path
}

// candidate is a word starting at the current position.
type candidate struct {
	end      int
	entry    dict.WordEntry
	source   Source
	category dict.CategoryID
}

// search is the per-call state of one span search. It is never shared.
type search struct {
	l        *Lattice
	input    []byte
	from, to int
	arena    []Node
	ends     [][]int32 // per position relative to from: arena indices of nodes ending there
	cands    []candidate
}

func newSearch(l *Lattice, input []byte, from, to int) *search {
	return &search{
		l:     l,
		input: input,
		from:  from,
		to:    to,
		arena: make([]Node, 0, 2*(to-from)+2),
		ends:  make([][]int32, to-from+1),
	}
}

// run searches input[from:to]. beginRight is the right context id of the
// begin node, endLeft the left context id of the end node. With excludeFull,
// candidates covering the whole span are ignored. run returns the best path
// and the cost of reaching the end node; ok is false if the end is unreachable.
func (s *search) run(beginRight, endLeft uint16, excludeFull bool) ([]Node, int64, bool) {
	s.arena = append(s.arena, Node{
		Start: s.from, End: s.from,
		Entry:  dict.WordEntry{RightID: beginRight},
		Source: BOS,
		prev:   -1,
	})
	s.ends[0] = append(s.ends[0], 0)
	matrix := s.l.sys.Matrix
	for pos := s.from; pos < s.to; pos++ {
		preds := s.ends[pos-s.from]
		if len(preds) == 0 {
			continue
		}
		s.collect(pos, excludeFull)
		for _, c := range s.cands {
			best, bestCost := int32(-1), int64(0)
			for _, p := range preds {
				pn := &s.arena[p]
				cost := pn.Cost + int64(matrix.Cost(pn.Entry.RightID, c.entry.LeftID)) + int64(c.entry.Cost)
				if best < 0 || cost < bestCost {
					best, bestCost = p, cost
				}
			}
			s.relax(pos, c, best, bestCost)
		}
	}
	preds := s.ends[s.to-s.from]
	if len(preds) == 0 {
		return nil, 0, false
	}
	best, bestCost := int32(-1), int64(0)
	for _, p := range preds {
		pn := &s.arena[p]
		cost := pn.Cost + int64(matrix.Cost(pn.Entry.RightID, endLeft))
		if best < 0 || cost < bestCost {
			best, bestCost = p, cost
		}
	}
	eos := Node{
		Start: s.to, End: s.to,
		Entry:  dict.WordEntry{LeftID: endLeft},
		Source: EOS,
		Cost:   bestCost,
		prev:   best,
	}
	return s.backtrack(eos), bestCost, true
}

// relax records c, reached from arena node pred with cumulative cost cost,
// as the best node ending at c.end for its right context id if it beats the
// current one. Ties go to the lower word id, else to the node found first.
func (s *search) relax(start int, c candidate, pred int32, cost int64) {
	slot := c.end - s.from
	for _, i := range s.ends[slot] {
		n := &s.arena[i]
		if n.Entry.RightID != c.entry.RightID {
			continue
		}
		if cost < n.Cost || cost == n.Cost && c.entry.ID.Less(n.Entry.ID) {
			*n = Node{Start: start, End: c.end, Entry: c.entry, Source: c.source,
				Category: c.category, Cost: cost, prev: pred}
		}
		return
	}
	s.arena = append(s.arena, Node{Start: start, End: c.end, Entry: c.entry, Source: c.source,
		Category: c.category, Cost: cost, prev: pred})
	s.ends[slot] = append(s.ends[slot], int32(len(s.arena)-1))
}

func (s *search) backtrack(eos Node) []Node {
	n := 0
	for i := eos.prev; s.arena[i].Source != BOS; i = s.arena[i].prev {
		n++
	}
	path := make([]Node, n)
	for i := eos.prev; s.arena[i].Source != BOS; i = s.arena[i].prev {
		n--
		path[n] = s.arena[i]
	}
	return path
}

// collect gathers the candidates starting at pos into s.cands: dictionary
// words first (system, then user); if there are none, unknown words; if there
// are still none, the generic fallback word.
func (s *search) collect(pos int, excludeFull bool) {
	s.cands = s.cands[:0]
	rest := s.input[pos:s.to]
	full := excludeFull && pos == s.from
	for n, entries := range s.l.sys.Words.Prefixes(rest) {
		if full && n == len(rest) {
			continue
		}
		for _, e := range entries {
			s.cands = append(s.cands, candidate{end: pos + n, entry: e, source: System})
		}
	}
	if s.l.user != nil {
		for n, entries := range s.l.user.Words.Prefixes(rest) {
			if full && n == len(rest) {
				continue
			}
			for _, e := range entries {
				s.cands = append(s.cands, candidate{end: pos + n, entry: e, source: User})
			}
		}
	}
	if len(s.cands) > 0 {
		return
	}
	s.collectUnknown(pos, full)
	if len(s.cands) > 0 {
		return
	}
	_, size := utf8.DecodeRune(rest)
	if full && size == len(rest) {
		return
	}
	s.cands = append(s.cands, candidate{
		end:    pos + size,
		entry:  dict.WordEntry{ID: dict.UnknownWordID, Cost: FallbackCost},
		source: Fallback,
	})
}

// collectUnknown synthesizes, for every category of the code point at pos
// which invokes unknown-word processing, a one-code-point word and, if the
// category groups, a word spanning the run of code points of that category.
func (s *search) collectUnknown(pos int, full bool) {
	chardef, unknown := s.l.sys.CharDef, s.l.sys.Unknown
	r, size := utf8.DecodeRune(s.input[pos:s.to])
	for _, cat := range chardef.Lookup(r) {
		cc := chardef.Category(cat)
		if !cc.Invoke {
			continue
		}
		entries := unknown.Entries(cat)
		if len(entries) == 0 {
			continue
		}
		var spans [2]int
		nspans := 0
		if !(full && pos+size == s.to) {
			spans[nspans] = pos + size
			nspans++
		}
		if cc.Group {
			end, count := pos+size, 1
			for end < s.to && (cc.Length == 0 || count < cc.Length) {
				r, sz := utf8.DecodeRune(s.input[end:s.to])
				if !chardef.Contains(r, cat) {
					break
				}
				end += sz
				count++
			}
			if end > pos+size && !(full && end == s.to) {
				spans[nspans] = end
				nspans++
			}
		}
		for _, end := range spans[:nspans] {
			for _, e := range entries {
				s.cands = append(s.cands, candidate{end: end, entry: e, source: Unknown, category: cat})
			}
		}
	}
}

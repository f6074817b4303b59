package dict

import (
	"fmt"
	"iter"
	"sort"

	"github.com/bits-and-blooms/bitset"
	"github.com/npillmayer/keitai/dat"
)

const maxEntriesPerSurface = 0xFF

// PrefixDictionary is a trie-indexed word table. All entries sharing a surface
// are stored contiguously, ordered by surface bytes; a trie value packs the
// index of the first entry and the number of entries:
//
//	value = first << 8 | count
type PrefixDictionary struct {
	trie    *dat.DAT
	entries []WordEntry
	details detailStore
	system  bool
}

// PrefixMatch is one result of CommonPrefixSearch.
type PrefixMatch struct {
	Length  int // bytes of the query covered by the surface
	WordIDs []WordID
}

// buildPrefixDictionary sorts words by surface, builds the trie and the
// detail blob, and returns the bitset of compound entries by final index.
func buildPrefixDictionary(words []Word, system bool) (*PrefixDictionary, *bitset.BitSet, error) {
	order := make([]int, len(words))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return words[order[i]].Surface < words[order[j]].Surface
	})
	pd := &PrefixDictionary{
		entries: make([]WordEntry, len(words)),
		system:  system,
	}
	compounds := bitset.New(uint(len(words)))
	builder := dat.NewBuilder()
	for i := 0; i < len(order); {
		surface := words[order[i]].Surface
		if surface == "" {
			return nil, nil, fmt.Errorf("entry %d has an empty surface", order[i])
		}
		j := i
		for ; j < len(order) && words[order[j]].Surface == surface; j++ {
			w := &words[order[j]]
			off, err := pd.details.appendDetails(w.Details)
			if err != nil {
				return nil, nil, err
			}
			pd.entries[j] = WordEntry{
				ID:           WordID{Index: uint32(j), IsSystem: system},
				LeftID:       w.LeftID,
				RightID:      w.RightID,
				Cost:         w.Cost,
				DetailOffset: off,
			}
			if w.Compound {
				compounds.Set(uint(j))
			}
		}
		if j-i > maxEntriesPerSurface {
			return nil, nil, fmt.Errorf("surface %q has %d entries, at most %d are supported",
				surface, j-i, maxEntriesPerSurface)
		}
		if uint64(i) > uint64(dat.MaxValue>>8) {
			return nil, nil, fmt.Errorf("too many entries: %d", len(words))
		}
		if err := builder.Insert([]byte(surface), uint32(i)<<8|uint32(j-i)); err != nil {
			return nil, nil, err
		}
		i = j
	}
	pd.trie = builder.Freeze()
	return pd, compounds, nil
}

// Len returns the number of entries.
func (pd *PrefixDictionary) Len() int { return len(pd.entries) }

// Entry returns the entry for id.
func (pd *PrefixDictionary) Entry(id WordID) (WordEntry, bool) {
	if id.IsSystem != pd.system || int64(id.Index) >= int64(len(pd.entries)) {
		return WordEntry{}, false
	}
	return pd.entries[id.Index], true
}

// Entries returns all entries in index order. The slice must not be modified.
func (pd *PrefixDictionary) Entries() []WordEntry { return pd.entries }

// Details decodes the detail vector of an entry of this table.
func (pd *PrefixDictionary) Details(e WordEntry) ([]string, error) {
	return pd.details.fields(e.DetailOffset)
}

// Prefixes yields every surface which is a prefix of input, with its length in
// bytes and its entries. The yielded slices alias the table and must not be
// modified. Iteration does not allocate.
func (pd *PrefixDictionary) Prefixes(input []byte) iter.Seq2[int, []WordEntry] {
	return func(yield func(int, []WordEntry) bool) {
		for n, v := range pd.trie.PrefixMatches(input) {
			first, count := v>>8, v&0xFF
			if !yield(n, pd.entries[first:first+count]) {
				return
			}
		}
	}
}

// CommonPrefixSearch returns every stored surface which is a byte prefix of
// input, each paired with its matched length and word ids. An empty result
// means no known word starts here; it is not an error.
func (pd *PrefixDictionary) CommonPrefixSearch(input []byte) []PrefixMatch {
	var matches []PrefixMatch
	for n, entries := range pd.Prefixes(input) {
		ids := make([]WordID, len(entries))
		for i, e := range entries {
			ids[i] = e.ID
		}
		matches = append(matches, PrefixMatch{Length: n, WordIDs: ids})
	}
	return matches
}

// Lookup returns the entries for an exact surface.
func (pd *PrefixDictionary) Lookup(surface string) []WordEntry {
	v, ok := pd.trie.Lookup([]byte(surface))
	if !ok {
		return nil
	}
	first, count := v>>8, v&0xFF
	return pd.entries[first : first+count]
}

// validate checks trie values and detail offsets against the tables.
func (pd *PrefixDictionary) validate() error {
	for s, v := range pd.trie.Value {
		if v == 0 {
			continue
		}
		v--
		first, count := uint64(v>>8), uint64(v&0xFF)
		if count == 0 || first+count > uint64(len(pd.entries)) {
			return fmt.Errorf("trie state %d refers to entries [%d,%d) of %d", s, first, first+count, len(pd.entries))
		}
	}
	for i := range pd.entries {
		if err := pd.details.checkOffset(pd.entries[i].DetailOffset); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return nil
}

// checkContextIDs verifies that every entry is addressable in m.
func checkContextIDs(entries []WordEntry, m *ConnectionMatrix) error {
	for i, e := range entries {
		if int(e.RightID) >= m.RightSize() || int(e.LeftID) >= m.LeftSize() {
			return fmt.Errorf("entry %d has context ids (left %d, right %d) outside the %dx%d matrix",
				i, e.LeftID, e.RightID, m.RightSize(), m.LeftSize())
		}
	}
	return nil
}

// --- Serialization ---------------------------------------------------------

const entrySize = 10

func encodeEntries(entries []WordEntry) []byte {
	buf := make([]byte, 0, 4+entrySize*len(entries))
	buf = bo.AppendUint32(buf, uint32(len(entries)))
	for _, e := range entries {
		buf = bo.AppendUint16(buf, e.LeftID)
		buf = bo.AppendUint16(buf, e.RightID)
		buf = bo.AppendUint16(buf, uint16(e.Cost))
		buf = bo.AppendUint32(buf, e.DetailOffset)
	}
	return buf
}

func decodeEntries(data []byte, system bool) ([]WordEntry, error) {
	r := binReader{data: data}
	n := r.u32()
	if r.err == nil && uint64(n)*entrySize != uint64(len(data)-4) {
		return nil, fmt.Errorf("entry table declares %d entries in %d bytes", n, len(data)-4)
	}
	entries := make([]WordEntry, n)
	for i := range entries {
		entries[i] = WordEntry{
			ID:           WordID{Index: uint32(i), IsSystem: system},
			LeftID:       r.u16(),
			RightID:      r.u16(),
			Cost:         int16(r.u16()),
			DetailOffset: r.u32(),
		}
	}
	return entries, r.done()
}

func encodeTrie(d *dat.DAT) ([]byte, error) {
	return d.MarshalBinary()
}

func decodeTrie(data []byte) (*dat.DAT, error) {
	d := &dat.DAT{}
	if err := d.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return d, nil
}

// newPrefixDictionary assembles a table from its decoded parts and validates it.
func newPrefixDictionary(trie *dat.DAT, entries []WordEntry, details []byte, system bool) (*PrefixDictionary, error) {
	pd := &PrefixDictionary{
		trie:    trie,
		entries: entries,
		details: detailStore{blob: details},
		system:  system,
	}
	if err := pd.validate(); err != nil {
		return nil, err
	}
	return pd, nil
}

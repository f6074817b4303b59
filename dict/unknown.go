package dict

import (
	"fmt"
)

// UnknownDictionary holds, per character category, the entries used to
// synthesize unknown words. All its entries carry UnknownWordID.
type UnknownDictionary struct {
	entries [][]WordEntry // by CategoryID
	details detailStore
}

// NewUnknownDictionary creates the table for a character table with
// numCategories categories. words maps category ids to their entries.
func NewUnknownDictionary(numCategories int, words map[CategoryID][]Word) (*UnknownDictionary, error) {
	ud := &UnknownDictionary{entries: make([][]WordEntry, numCategories)}
	for id := range words {
		if int(id) >= numCategories {
			return nil, fmt.Errorf("unknown-word entries for undefined category %d", id)
		}
	}
	for id := range ud.entries {
		for _, w := range words[CategoryID(id)] {
			off, err := ud.details.appendDetails(w.Details)
			if err != nil {
				return nil, err
			}
			ud.entries[id] = append(ud.entries[id], WordEntry{
				ID:           UnknownWordID,
				LeftID:       w.LeftID,
				RightID:      w.RightID,
				Cost:         w.Cost,
				DetailOffset: off,
			})
		}
	}
	return ud, nil
}

// Entries returns the entries of a category. The slice must not be modified.
func (ud *UnknownDictionary) Entries(id CategoryID) []WordEntry {
	if int(id) >= len(ud.entries) {
		return nil
	}
	return ud.entries[id]
}

// NumCategories returns the number of categories the table was built for.
func (ud *UnknownDictionary) NumCategories() int { return len(ud.entries) }

// Details decodes the detail vector of an unknown-word entry.
func (ud *UnknownDictionary) Details(e WordEntry) ([]string, error) {
	return ud.details.fields(e.DetailOffset)
}

func (ud *UnknownDictionary) validate(m *ConnectionMatrix) error {
	for id, entries := range ud.entries {
		if err := checkContextIDs(entries, m); err != nil {
			return fmt.Errorf("category %d: %w", id, err)
		}
		for _, e := range entries {
			if err := ud.details.checkOffset(e.DetailOffset); err != nil {
				return fmt.Errorf("category %d: %w", id, err)
			}
		}
	}
	return nil
}

// MarshalBinary encodes the table:
//
//	u32 #categories, per category: u32 #entries, entries (as in dict.vals)
//	u32 blob length, detail blob
func (ud *UnknownDictionary) MarshalBinary() ([]byte, error) {
	var buf []byte
	buf = bo.AppendUint32(buf, uint32(len(ud.entries)))
	for _, entries := range ud.entries {
		buf = append(buf, encodeEntries(entries)...)
	}
	buf = bo.AppendUint32(buf, uint32(len(ud.details.blob)))
	return append(buf, ud.details.blob...), nil
}

func decodeUnknownDictionary(data []byte) (*UnknownDictionary, error) {
	r := binReader{data: data}
	n := r.u32()
	if r.err == nil && uint64(n)*4 > uint64(len(data)) {
		return nil, fmt.Errorf("unknown-word table declares %d categories in %d bytes", n, len(data))
	}
	ud := &UnknownDictionary{entries: make([][]WordEntry, n)}
	for i := range ud.entries {
		count := r.u32()
		if r.err != nil {
			break
		}
		if uint64(count)*entrySize > uint64(len(data)-r.off) {
			return nil, fmt.Errorf("category %d declares %d entries", i, count)
		}
		for range count {
			ud.entries[i] = append(ud.entries[i], WordEntry{
				ID:           UnknownWordID,
				LeftID:       r.u16(),
				RightID:      r.u16(),
				Cost:         int16(r.u16()),
				DetailOffset: r.u32(),
			})
		}
	}
	blob := r.take(int(r.u32()))
	if err := r.done(); err != nil {
		return nil, err
	}
	ud.details.blob = blob
	return ud, nil
}

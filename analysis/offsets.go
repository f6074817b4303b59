package analysis

import "sort"

// OffsetMap maps byte offsets of a filtered text back to the text the filter
// was applied to. Entries are (offset in filtered text, cumulative difference);
// an offset is corrected by the difference of the last entry at or before it.
type OffsetMap struct {
	offsets []int
	diffs   []int
	cum     int
}

// Correct maps an offset of the filtered text to the source text.
func (m *OffsetMap) Correct(pos int) int {
	if m == nil || len(m.offsets) == 0 {
		return pos
	}
	i := sort.Search(len(m.offsets), func(i int) bool { return m.offsets[i] > pos })
	if i == 0 {
		return pos
	}
	return pos + m.diffs[i-1]
}

// Len returns the number of entries.
func (m *OffsetMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.offsets)
}

// replaced records that srcLen bytes of the source were replaced by dstLen
// bytes, written at offset out of the filtered text. Calls must come in
// increasing order of out.
func (m *OffsetMap) replaced(out, srcLen, dstLen int) {
	switch {
	case dstLen < srcLen:
		m.cum += srcLen - dstLen
		m.add(out+dstLen, m.cum)
	case dstLen > srcLen:
		// bytes beyond the source span map to its end
		for k := range dstLen - srcLen {
			m.cum--
			m.add(out+srcLen+k+1, m.cum)
		}
	}
}

func (m *OffsetMap) add(off, diff int) {
	if n := len(m.offsets); n > 0 && m.offsets[n-1] == off {
		m.diffs[n-1] = diff
		return
	}
	m.offsets = append(m.offsets, off)
	m.diffs = append(m.diffs, diff)
}

package dict

// pagedMapBMP maps BMP code points (0..65535) to small values (uint16).
// It's a two-level page table:
//   - top[hi] = page index (1..NumPages), or 0 meaning "page absent".
//   - pages is a flat array of NumPages*256 entries.
//
// Lookup is O(1) with two array reads and a couple of ops.
//
// Memory:
//   - top: 256 * 2 = 512 bytes
//   - Each populated page: 256 * 2 = 512 bytes
//
// A Japanese character table touches some 40 high-byte blocks, ~20 KB.
type pagedMapBMP struct {
	top   [256]uint16 // page index (1-based); 0 means none
	pages []uint16    // flat: NumPages*256
}

// get returns the value for a BMP code point, 0 if absent.
func (m *pagedMapBMP) get(cp uint16) uint16 {
	hi := cp >> 8
	pi := m.top[hi]
	if pi == 0 {
		return 0
	}
	base := int(pi-1) << 8 // *256
	return m.pages[base+int(cp&0xFF)]
}

// numPages returns the number of allocated pages.
func (m *pagedMapBMP) numPages() int { return len(m.pages) >> 8 }

// ensurePage ensures that the page for high byte hi exists.
// Returns the 1-based page index.
func (m *pagedMapBMP) ensurePage(hi uint16) uint16 {
	pi := m.top[hi]
	if pi != 0 {
		return pi
	}
	m.pages = append(m.pages, make([]uint16, 256)...)
	pi = uint16(len(m.pages) >> 8) // number of pages, 1-based index
	m.top[hi] = pi
	return pi
}

// set sets mapping cp -> v (v may be 0 to clear).
func (m *pagedMapBMP) set(cp uint16, v uint16) {
	hi := cp >> 8
	pi := m.top[hi]
	if pi == 0 {
		if v == 0 {
			return
		}
		pi = m.ensurePage(hi)
	}
	base := int(pi-1) << 8
	m.pages[base+int(cp&0xFF)] = v
}

package dict

import (
	"fmt"
	"math"
)

// WordID identifies one entry in either the system or the user word table.
type WordID struct {
	Index    uint32
	IsSystem bool
}

// UnknownWordID marks words synthesized from character categories.
var UnknownWordID = WordID{Index: math.MaxUint32, IsSystem: true}

// IsUnknown is true for synthesized words.
func (id WordID) IsUnknown() bool {
	return id.Index == math.MaxUint32
}

// Less orders word ids by index. It is the final tie-break between
// equal-cost lattice nodes.
func (id WordID) Less(other WordID) bool {
	return id.Index < other.Index
}

func (id WordID) String() string {
	switch {
	case id.IsUnknown():
		return "unk"
	case id.IsSystem:
		return fmt.Sprintf("sys:%d", id.Index)
	}
	return fmt.Sprintf("user:%d", id.Index)
}

// WordEntry is one row of a word table. Entries are owned by their
// dictionary and never change after load.
type WordEntry struct {
	ID           WordID
	LeftID       uint16 // how the word attaches to its predecessor
	RightID      uint16 // how the word attaches to its successor
	Cost         int16  // lower is more preferred
	DetailOffset uint32 // offset of the detail record in the owning table's blob
}

// Word is the source form of a dictionary entry, as produced by a builder.
type Word struct {
	Surface  string
	LeftID   uint16
	RightID  uint16
	Cost     int16
	Details  []string
	Compound bool // may be decomposed in Decompose mode
}

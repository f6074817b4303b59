package dict

import (
	"fmt"
	"strings"
)

// CategoryID indexes the categories of a CharacterDefinitions table.
type CategoryID uint8

// DefaultCategory is the name of the category used for undeclared code points.
const DefaultCategory = "DEFAULT"

// CharacterCategory carries the scanning hints for unknown-word synthesis.
type CharacterCategory struct {
	Name   string
	Invoke bool // synthesize unknown words for code points of this category
	Group  bool // group runs of code points of this category into one candidate
	Length int  // cap on grouped run length in code points, 0 = unbounded
}

// CharRange assigns categories to the code points Low..High (inclusive).
// The first category is the primary one.
type CharRange struct {
	Low, High  rune
	Categories []CategoryID
}

// CharacterDefinitions maps code points to category lists.
//
// Later range declarations override earlier ones. BMP code points are looked
// up in a two-level page table; the rare astral declarations are scanned.
type CharacterDefinitions struct {
	categories []CharacterCategory
	byName     map[string]CategoryID
	ranges     []CharRange    // in declaration order
	sets       [][]CategoryID // interned category lists; the page map stores index+1
	bmp        pagedMapBMP
	astral     []int // indices into ranges with High > 0xFFFF, declaration order
	deflt      []CategoryID
}

// NewCharacterDefinitions creates a category table. Category names must be
// unique, and every range must refer to existing categories.
func NewCharacterDefinitions(categories []CharacterCategory, ranges []CharRange) (*CharacterDefinitions, error) {
	if len(categories) > 0xFF {
		return nil, fmt.Errorf("too many character categories: %d", len(categories))
	}
	cd := &CharacterDefinitions{
		categories: categories,
		byName:     make(map[string]CategoryID, len(categories)),
		ranges:     ranges,
	}
	for i, c := range categories {
		if c.Name == "" {
			return nil, fmt.Errorf("character category %d has no name", i)
		}
		if _, dup := cd.byName[c.Name]; dup {
			return nil, fmt.Errorf("character category %s declared twice", c.Name)
		}
		if c.Length < 0 {
			return nil, fmt.Errorf("character category %s has negative length", c.Name)
		}
		cd.byName[c.Name] = CategoryID(i)
	}
	if id, ok := cd.byName[DefaultCategory]; ok {
		cd.deflt = []CategoryID{id}
	}
	interned := make(map[string]uint16)
	for i, r := range ranges {
		if r.Low < 0 || r.High > 0x10FFFF || r.Low > r.High {
			return nil, fmt.Errorf("invalid code point range %#x..%#x", r.Low, r.High)
		}
		if len(r.Categories) == 0 {
			return nil, fmt.Errorf("code point range %#x..%#x has no category", r.Low, r.High)
		}
		for _, id := range r.Categories {
			if int(id) >= len(categories) {
				return nil, fmt.Errorf("code point range %#x..%#x refers to unknown category %d", r.Low, r.High, id)
			}
		}
		key := setKey(r.Categories)
		v, ok := interned[key]
		if !ok {
			if len(cd.sets) >= 0xFFFF {
				return nil, fmt.Errorf("too many distinct category combinations")
			}
			cd.sets = append(cd.sets, r.Categories)
			v = uint16(len(cd.sets))
			interned[key] = v
		}
		for cp := r.Low; cp <= r.High && cp <= 0xFFFF; cp++ {
			cd.bmp.set(uint16(cp), v)
		}
		if r.High > 0xFFFF {
			cd.astral = append(cd.astral, i)
		}
	}
	tracer().Debugf("character table: %d categories, %d ranges, %d pages",
		len(categories), len(ranges), cd.bmp.numPages())
	return cd, nil
}

func setKey(ids []CategoryID) string {
	var sb strings.Builder
	for _, id := range ids {
		sb.WriteByte(byte(id))
	}
	return sb.String()
}

// Lookup returns the categories of r, primary first. Undeclared code points
// belong to DEFAULT if the table has such a category, else to none.
// The returned slice is shared and must not be modified.
func (cd *CharacterDefinitions) Lookup(r rune) []CategoryID {
	if r >= 0 && r <= 0xFFFF {
		if v := cd.bmp.get(uint16(r)); v != 0 {
			return cd.sets[v-1]
		}
		return cd.deflt
	}
	for i := len(cd.astral) - 1; i >= 0; i-- {
		rg := &cd.ranges[cd.astral[i]]
		if r >= rg.Low && r <= rg.High {
			return rg.Categories
		}
	}
	return cd.deflt
}

// Contains reports whether r belongs to category id.
func (cd *CharacterDefinitions) Contains(r rune, id CategoryID) bool {
	for _, c := range cd.Lookup(r) {
		if c == id {
			return true
		}
	}
	return false
}

// Category returns the category with the given id.
func (cd *CharacterDefinitions) Category(id CategoryID) CharacterCategory {
	return cd.categories[id]
}

// CategoryByName finds a category by name.
func (cd *CharacterDefinitions) CategoryByName(name string) (CategoryID, bool) {
	id, ok := cd.byName[name]
	return id, ok
}

// NumCategories returns the number of categories.
func (cd *CharacterDefinitions) NumCategories() int { return len(cd.categories) }

// Categories returns all categories in id order. The slice must not be modified.
func (cd *CharacterDefinitions) Categories() []CharacterCategory { return cd.categories }

// Ranges returns the range declarations. The slice must not be modified.
func (cd *CharacterDefinitions) Ranges() []CharRange { return cd.ranges }

// --- Serialization ---------------------------------------------------------

const (
	flagInvoke = 1 << iota
	flagGroup
)

// MarshalBinary encodes categories and ranges:
//
//	u8 #categories, per category: name, u8 flags, u32 length
//	u32 #ranges, per range: u32 low, u32 high, u8 #ids, ids
func (cd *CharacterDefinitions) MarshalBinary() ([]byte, error) {
	var buf []byte
	buf = append(buf, byte(len(cd.categories)))
	for _, c := range cd.categories {
		buf = appendString(buf, c.Name)
		var flags byte
		if c.Invoke {
			flags |= flagInvoke
		}
		if c.Group {
			flags |= flagGroup
		}
		buf = append(buf, flags)
		buf = bo.AppendUint32(buf, uint32(c.Length))
	}
	buf = bo.AppendUint32(buf, uint32(len(cd.ranges)))
	for _, r := range cd.ranges {
		if len(r.Categories) > 0xFF {
			return nil, fmt.Errorf("range %#x..%#x has too many categories", r.Low, r.High)
		}
		buf = bo.AppendUint32(buf, uint32(r.Low))
		buf = bo.AppendUint32(buf, uint32(r.High))
		buf = append(buf, byte(len(r.Categories)))
		for _, id := range r.Categories {
			buf = append(buf, byte(id))
		}
	}
	return buf, nil
}

func decodeCharacterDefinitions(data []byte) (*CharacterDefinitions, error) {
	r := binReader{data: data}
	categories := make([]CharacterCategory, r.u8())
	for i := range categories {
		categories[i].Name = r.str()
		flags := r.u8()
		categories[i].Invoke = flags&flagInvoke != 0
		categories[i].Group = flags&flagGroup != 0
		categories[i].Length = int(r.u32())
	}
	n := r.u32()
	if r.err == nil && uint64(n)*9 > uint64(len(data)) {
		return nil, fmt.Errorf("character table declares %d ranges in %d bytes", n, len(data))
	}
	var ranges []CharRange
	for i := uint32(0); i < n && r.err == nil; i++ {
		rg := CharRange{Low: rune(r.u32()), High: rune(r.u32())}
		ids := r.take(int(r.u8()))
		rg.Categories = make([]CategoryID, len(ids))
		for j, id := range ids {
			rg.Categories[j] = CategoryID(id)
		}
		ranges = append(ranges, rg)
	}
	if err := r.done(); err != nil {
		return nil, err
	}
	return NewCharacterDefinitions(categories, ranges)
}

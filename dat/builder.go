package dat

import (
	"fmt"
	"sort"
)

type buildNode struct {
	state    uint32
	value    uint32 // value+1, 0 for none
	children map[int32]*buildNode
}

// Builder collects keys and compiles them into a frozen DAT.
// A Builder is not safe for concurrent use.
type Builder struct {
	root   *buildNode
	keys   int
	frozen bool
}

// NewBuilder creates an empty trie builder.
func NewBuilder() *Builder {
	return &Builder{
		root: &buildNode{children: make(map[int32]*buildNode)},
	}
}

// Insert adds key with value. Inserting a key twice overwrites its value.
func (b *Builder) Insert(key []byte, value uint32) error {
	if b.frozen {
		return fmt.Errorf("cannot insert into frozen trie builder")
	}
	if len(key) == 0 {
		return fmt.Errorf("cannot insert empty key")
	}
	if value > MaxValue {
		return fmt.Errorf("value out of range: %d", value)
	}
	n := b.root
	for _, c := range key {
		l := label(c)
		child := n.children[l]
		if child == nil {
			child = &buildNode{children: make(map[int32]*buildNode)}
			n.children[l] = child
		}
		n = child
	}
	if n.value == 0 {
		b.keys++
	}
	n.value = value + 1
	return nil
}

// Len returns the number of distinct keys inserted.
func (b *Builder) Len() int { return b.keys }

// Freeze compiles the collected keys into a DAT. Children of each node are
// placed breadth-first at a base offset where all their slots are free.
// The builder cannot be used afterwards.
func (b *Builder) Freeze() *DAT {
	assert(!b.frozen, "trie builder frozen twice")
	d := &DAT{Root: 1}
	d.Base = make([]int32, int(d.Root)+1)
	d.Check = make([]int32, int(d.Root)+1)
	d.Value = make([]uint32, int(d.Root)+1)
	b.root.state = d.Root
	d.Value[d.Root] = b.root.value
	free := newFreeSlots(int(d.Root) + 1)
	queue := []*buildNode{b.root}
	for q := 0; q < len(queue); q++ {
		n := queue[q]
		queue[q] = nil
		if len(n.children) == 0 {
			continue
		}
		labels := sortedLabels(n.children)
		base := free.findBase(d.Check, labels)
		ensureIndex(d, base+int(labels[len(labels)-1]))
		free.grow(len(d.Check))
		d.Base[n.state] = int32(base)
		for _, l := range labels {
			t := base + int(l)
			child := n.children[l]
			child.state = uint32(t)
			d.Check[t] = int32(n.state)
			d.Value[t] = child.value
			free.remove(t)
			queue = append(queue, child)
		}
	}
	b.root = nil
	b.frozen = true
	tracer().Debugf("froze trie with %d keys into %d slots", b.keys, d.NStates())
	return d
}

// maxProbes is the number of failed placements after which a free slot is
// no longer offered as a base candidate. It stays free for other labels.
const maxProbes = 32

// freeSlots chains the free slots below len(check) in a doubly linked list,
// in increasing order. Slots at or beyond len(check) are free as well.
type freeSlots struct {
	next, prev []int32 // -1 terminates
	listed     []bool
	fails      []uint8
	head, tail int32
	size       int
}

func newFreeSlots(first int) *freeSlots {
	return &freeSlots{head: -1, tail: -1, size: first}
}

// grow appends slots [size, n) to the list.
func (f *freeSlots) grow(n int) {
	if n <= f.size {
		return
	}
	if len(f.next) < n {
		extra := n - len(f.next)
		f.next = append(f.next, make([]int32, extra)...)
		f.prev = append(f.prev, make([]int32, extra)...)
		f.listed = append(f.listed, make([]bool, extra)...)
		f.fails = append(f.fails, make([]uint8, extra)...)
	}
	for i := f.size; i < n; i++ {
		f.next[i], f.prev[i] = -1, f.tail
		f.listed[i] = true
		if f.tail >= 0 {
			f.next[f.tail] = int32(i)
		} else {
			f.head = int32(i)
		}
		f.tail = int32(i)
	}
	f.size = n
}

func (f *freeSlots) remove(t int) {
	if t >= f.size || !f.listed[t] {
		return
	}
	f.listed[t] = false
	p, n := f.prev[t], f.next[t]
	if p >= 0 {
		f.next[p] = n
	} else {
		f.head = n
	}
	if n >= 0 {
		f.prev[n] = p
	} else {
		f.tail = p
	}
}

// findBase returns a base such that base+l is a free slot for every label l.
// Candidates are the listed free slots, taken as the slot of the smallest
// label; if none fits, the base is placed past the end of check.
func (f *freeSlots) findBase(check []int32, labels []int32) int {
	first := int(labels[0])
	for t := f.head; t >= 0; {
		next := f.next[t]
		if base := int(t) - first; base >= 1 && fits(check, labels, base) {
			return base
		}
		if f.fails[t]++; f.fails[t] >= maxProbes {
			f.remove(int(t))
		}
		t = next
	}
	base := max(1, len(check)-first)
	for !fits(check, labels, base) {
		base++
	}
	return base
}

// fits is true if base+l is free for every label l. Slots at or beyond
// len(check) count as free.
func fits(check []int32, labels []int32, base int) bool {
	for _, l := range labels {
		t := base + int(l)
		if t < len(check) && check[t] != 0 {
			return false
		}
	}
	return true
}

func sortedLabels(children map[int32]*buildNode) []int32 {
	labels := make([]int32, 0, len(children))
	for l := range children {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		return labels[i] < labels[j]
	})
	return labels
}

func ensureIndex(d *DAT, idx int) {
	if idx < len(d.Base) {
		return
	}
	grow := idx + 1 - len(d.Base)
	d.Base = append(d.Base, make([]int32, grow)...)
	d.Check = append(d.Check, make([]int32, grow)...)
	d.Value = append(d.Value, make([]uint32, grow)...)
}

package lattice

// DictionaryPenalty asks Decompose to take the compound penalty from the
// decomposition policy of the system dictionary.
const DictionaryPenalty = -1

// Decompose re-examines the nodes of a best path whose system word is flagged
// as compound. Each such node is searched again over its own span, between the
// context ids of its neighbours on the output and without the compound itself.
// The node is replaced by the parts found if they cost strictly less than the
// compound in its context plus penalty. A negative penalty means
// DictionaryPenalty.
//
// The result has one group per node of path: the node itself, or its parts.
func (l *Lattice) Decompose(input []byte, path []Node, penalty int) [][]Node {
	groups := make([][]Node, len(path))
	matrix := l.sys.Matrix
	for i := range path {
		n := &path[i]
		groups[i] = path[i : i+1 : i+1]
		if n.Source != System || !l.sys.IsCompound(n.Entry.ID) {
			continue
		}
		var prevRight, nextLeft uint16 // BOS and EOS have context id 0
		if i > 0 {
			prev := groups[i-1]
			prevRight = prev[len(prev)-1].Entry.RightID
		}
		if i+1 < len(path) {
			nextLeft = path[i+1].Entry.LeftID
		}
		p := penalty
		if p < 0 {
			p = l.sys.Decompose.Penalty(n.Surface(input))
		}
		compound := int64(matrix.Cost(prevRight, n.Entry.LeftID)) + int64(n.Entry.Cost) +
			int64(matrix.Cost(n.Entry.RightID, nextLeft))
		s := newSearch(l, input, n.Start, n.End)
		parts, cost, ok := s.run(prevRight, nextLeft, true)
		if !ok || len(parts) < 2 {
			continue
		}
		if cost < compound+int64(p) {
			tracer().Debugf("decompose %q into %d parts: %d < %d+%d",
				n.Surface(input), len(parts), cost, compound, p)
			groups[i] = parts
		}
	}
	return groups
}

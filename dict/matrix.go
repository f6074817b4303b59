package dict

import (
	"fmt"
)

// ConnectionMatrix holds the bigram connection costs. Cell (r, l) is the cost
// of a word with right context id r followed by a word with left context id l.
// Only the relative order of costs matters; lower is better.
type ConnectionMatrix struct {
	rightSize int
	leftSize  int
	costs     []int16 // rightSize × leftSize, row major by right id
}

// NewConnectionMatrix creates a zero-cost matrix.
func NewConnectionMatrix(rightSize, leftSize int) (*ConnectionMatrix, error) {
	if rightSize <= 0 || leftSize <= 0 || rightSize > 0x10000 || leftSize > 0x10000 {
		return nil, fmt.Errorf("invalid matrix dimension %dx%d", rightSize, leftSize)
	}
	return &ConnectionMatrix{
		rightSize: rightSize,
		leftSize:  leftSize,
		costs:     make([]int16, rightSize*leftSize),
	}, nil
}

// RightSize is the number of right context ids (rows).
func (m *ConnectionMatrix) RightSize() int { return m.rightSize }

// LeftSize is the number of left context ids (columns).
func (m *ConnectionMatrix) LeftSize() int { return m.leftSize }

// Cost returns the cost of connecting right id r to left id l.
// Ids are validated at load time; Cost does not check bounds again.
func (m *ConnectionMatrix) Cost(r, l uint16) int16 {
	return m.costs[int(r)*m.leftSize+int(l)]
}

// Set stores a cost. It is meant for builders; a loaded matrix is never changed.
func (m *ConnectionMatrix) Set(r, l uint16, cost int16) error {
	if int(r) >= m.rightSize || int(l) >= m.leftSize {
		return fmt.Errorf("cell (%d,%d) outside %dx%d matrix", r, l, m.rightSize, m.leftSize)
	}
	m.costs[int(r)*m.leftSize+int(l)] = cost
	return nil
}

// MarshalBinary encodes the matrix: right-size u16-1 | left-size u16-1 | costs i16...
// Sizes are stored minus one so that 65536 context ids fit.
func (m *ConnectionMatrix) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, 4+2*len(m.costs))
	buf = bo.AppendUint16(buf, uint16(m.rightSize-1))
	buf = bo.AppendUint16(buf, uint16(m.leftSize-1))
	for _, c := range m.costs {
		buf = bo.AppendUint16(buf, uint16(c))
	}
	return buf, nil
}

// UnmarshalBinary decodes a matrix encoded by MarshalBinary.
func (m *ConnectionMatrix) UnmarshalBinary(data []byte) error {
	r := binReader{data: data}
	rs, ls := int(r.u16())+1, int(r.u16())+1
	if r.err != nil {
		return r.err
	}
	if len(data)-4 != 2*rs*ls {
		return fmt.Errorf("matrix %dx%d needs %d bytes, has %d", rs, ls, 2*rs*ls, len(data)-4)
	}
	costs := make([]int16, rs*ls)
	for i := range costs {
		costs[i] = int16(r.u16())
	}
	if err := r.done(); err != nil {
		return err
	}
	m.rightSize, m.leftSize, m.costs = rs, ls, costs
	return nil
}

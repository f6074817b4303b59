package dat

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	magic   = "KDAT"
	version = uint16(1)
)

// Serialization is always little endian.
var bo = binary.LittleEndian

// ErrFormat is returned for input that is not a serialized DAT.
var ErrFormat = errors.New("not a double-array trie")

type header struct {
	Magic   [4]byte
	Version uint16
	Root    uint32
	N       uint32
}

// WriteTo serializes the trie:
//
//	"KDAT" | version u16 | root u32 | n u32 | Base[n] i32 | Check[n] i32 | Value[n] u32
func (d *DAT) WriteTo(w io.Writer) (int64, error) {
	h := header{Version: version, Root: d.Root, N: uint32(len(d.Base))}
	copy(h.Magic[:], magic)
	cw := &countingWriter{w: w}
	for _, part := range []any{h, d.Base, d.Check, d.Value} {
		if err := binary.Write(cw, bo, part); err != nil {
			return cw.n, err
		}
	}
	return cw.n, nil
}

// MarshalBinary returns the serialized trie.
func (d *DAT) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(14 + 12*len(d.Base))
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary restores a trie serialized by WriteTo.
func (d *DAT) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	var h header
	if err := binary.Read(r, bo, &h); err != nil {
		return fmt.Errorf("%w: header: %v", ErrFormat, err)
	}
	if string(h.Magic[:]) != magic {
		return fmt.Errorf("%w: bad magic %q", ErrFormat, h.Magic[:])
	}
	if h.Version != version {
		return fmt.Errorf("%w: unsupported version %d", ErrFormat, h.Version)
	}
	if uint64(r.Len()) != 12*uint64(h.N) {
		return fmt.Errorf("%w: %d states need %d bytes, have %d", ErrFormat, h.N, 12*uint64(h.N), r.Len())
	}
	if h.N > 0 && h.Root >= h.N {
		return fmt.Errorf("%w: root %d out of range", ErrFormat, h.Root)
	}
	base := make([]int32, h.N)
	check := make([]int32, h.N)
	value := make([]uint32, h.N)
	for _, part := range []any{base, check, value} {
		if err := binary.Read(r, bo, part); err != nil {
			return fmt.Errorf("%w: %v", ErrFormat, err)
		}
	}
	d.Root, d.Base, d.Check, d.Value = h.Root, base, check, value
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

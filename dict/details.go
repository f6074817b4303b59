package dict

import (
	"encoding/binary"
	"fmt"
)

// detailStore keeps the detail records of a word table in one flat blob.
// Record format at offset off:
//   - uvarint N (number of fields),
//   - N times: uvarint length L, followed by L bytes of UTF-8.
type detailStore struct {
	blob []byte
}

// appendDetails encodes fields at the end of the blob and returns their offset.
func (s *detailStore) appendDetails(fields []string) (uint32, error) {
	off := len(s.blob)
	if uint64(off) > uint64(^uint32(0)) {
		return 0, fmt.Errorf("detail blob exceeds 4 GiB")
	}
	s.blob = binary.AppendUvarint(s.blob, uint64(len(fields)))
	for _, f := range fields {
		s.blob = appendString(s.blob, f)
	}
	return uint32(off), nil
}

// fields decodes the record at offset off.
func (s *detailStore) fields(off uint32) ([]string, error) {
	if int(off) >= len(s.blob) {
		return nil, fmt.Errorf("detail offset %d out of range (blob has %d bytes)", off, len(s.blob))
	}
	r := binReader{data: s.blob, off: int(off)}
	n := r.uvarint()
	if n > uint64(len(s.blob)) {
		return nil, fmt.Errorf("detail record at %d declares %d fields", off, n)
	}
	fields := make([]string, 0, n)
	for i := uint64(0); i < n && r.err == nil; i++ {
		fields = append(fields, r.str())
	}
	if r.err != nil {
		return nil, fmt.Errorf("detail record at %d: %w", off, r.err)
	}
	return fields, nil
}

// checkOffset verifies that off points into the blob.
func (s *detailStore) checkOffset(off uint32) error {
	if int(off) >= len(s.blob) {
		return fmt.Errorf("detail offset %d out of range (blob has %d bytes)", off, len(s.blob))
	}
	return nil
}

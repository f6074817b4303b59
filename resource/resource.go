// Package resource frames and compresses the binary artifacts of a dictionary.
//
// Every artifact file is a single frame:
//
//	[algorithm u8][raw length u32][stored length u32][stored bytes]
//
// The algorithm byte declares how the stored bytes have to be decompressed.
// A compressor that does not shrink the payload falls back to None, so a
// reader never has to guess.
package resource

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"
	"github.com/npillmayer/keitai/errs"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pierrec/lz4/v4"
)

// tracer writes to trace with key 'keitai.resource'
func tracer() tracing.Trace {
	return tracing.Select("keitai.resource")
}

// Algorithm identifies the compression codec of a frame.
type Algorithm uint8

const (
	None    Algorithm = 0
	Deflate Algorithm = 1
	Zstd    Algorithm = 2
	LZ4     Algorithm = 3
)

var algorithmNames = map[Algorithm]string{
	None:    "none",
	Deflate: "deflate",
	Zstd:    "zstd",
	LZ4:     "lz4",
}

func (a Algorithm) String() string {
	if s, ok := algorithmNames[a]; ok {
		return s
	}
	return fmt.Sprintf("algorithm(%d)", uint8(a))
}

// ParseAlgorithm maps a codec name to an Algorithm. The empty string means None.
func ParseAlgorithm(name string) (Algorithm, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "raw" {
		return None, nil
	}
	for a, s := range algorithmNames {
		if s == name {
			return a, nil
		}
	}
	return None, errs.Newf(errs.Args, "unknown compression algorithm %q", name)
}

// MarshalText lets an Algorithm appear in YAML metadata by name.
func (a Algorithm) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses an Algorithm by name.
func (a *Algorithm) UnmarshalText(text []byte) error {
	alg, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}
	*a = alg
	return nil
}

const headerSize = 9

// maxRatio bounds the raw size a frame may declare for its stored size, by
// the best compression ratio the algorithm can reach.
var maxRatio = map[Algorithm]uint64{
	Deflate: 1032,
	Zstd:    32 * 1024,
	LZ4:     255,
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil)
}

// Encode compresses data with algorithm a and returns the framed result.
func Encode(data []byte, a Algorithm) ([]byte, error) {
	if uint64(len(data)) > math.MaxUint32 {
		return nil, errs.Newf(errs.Serialize, "resource too large: %d bytes", len(data))
	}
	var stored []byte
	var err error
	switch a {
	case None:
		stored = data
	case Deflate:
		stored, err = compressDeflate(data)
	case Zstd:
		stored, err = compressZstd(data)
	case LZ4:
		stored, err = compressLZ4(data)
	default:
		return nil, errs.Newf(errs.Args, "unknown compression algorithm %d", a)
	}
	if err != nil {
		return nil, errs.New(errs.Compress, err)
	}
	if a != None && (stored == nil || len(stored) >= len(data)) {
		a, stored = None, data
	}
	frame := make([]byte, headerSize+len(stored))
	frame[0] = byte(a)
	binary.LittleEndian.PutUint32(frame[1:], uint32(len(data)))
	binary.LittleEndian.PutUint32(frame[5:], uint32(len(stored)))
	copy(frame[headerSize:], stored)
	return frame, nil
}

// Decode checks the framing of frame and returns the decompressed payload.
func Decode(frame []byte) ([]byte, error) {
	if len(frame) < headerSize {
		return nil, errs.Newf(errs.Deserialize, "frame too short: %d bytes", len(frame))
	}
	a := Algorithm(frame[0])
	rawSize := binary.LittleEndian.Uint32(frame[1:])
	storedSize := binary.LittleEndian.Uint32(frame[5:])
	if uint64(len(frame)-headerSize) != uint64(storedSize) {
		return nil, errs.Newf(errs.Deserialize, "frame declares %d stored bytes, has %d",
			storedSize, len(frame)-headerSize)
	}
	if r, ok := maxRatio[a]; ok && uint64(rawSize) > uint64(storedSize)*r+64 {
		return nil, errs.Newf(errs.Deserialize, "frame declares %d raw bytes for %d stored %s bytes",
			rawSize, storedSize, a)
	}
	stored := frame[headerSize:]
	var raw []byte
	var err error
	switch a {
	case None:
		raw = stored
	case Deflate:
		raw, err = decompressDeflate(stored, rawSize)
	case Zstd:
		raw, err = decompressZstd(stored, rawSize)
	case LZ4:
		raw, err = decompressLZ4(stored, rawSize)
	default:
		return nil, errs.Newf(errs.Deserialize, "unknown compression algorithm %d", a)
	}
	if err != nil {
		return nil, errs.New(errs.Compress, err)
	}
	if uint32(len(raw)) != rawSize {
		return nil, errs.Newf(errs.Compress, "decompressed size mismatch: want %d, got %d",
			rawSize, len(raw))
	}
	return raw, nil
}

func compressDeflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err = w.Write(data); err != nil {
		return nil, err
	}
	if err = w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompressDeflate(stored []byte, rawSize uint32) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(stored))
	defer r.Close()
	raw := make([]byte, 0, rawSize)
	buf := bytes.NewBuffer(raw)
	// one byte more than declared, to detect overlong payloads
	if _, err := io.Copy(buf, io.LimitReader(r, int64(rawSize)+1)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func compressZstd(data []byte) ([]byte, error) {
	enc, err := getZstdEncoder()
	if err != nil {
		return nil, err
	}
	defer zstdEncoderPool.Put(enc)
	return enc.EncodeAll(data, nil), nil
}

func decompressZstd(stored []byte, rawSize uint32) ([]byte, error) {
	dec, err := getZstdDecoder()
	if err != nil {
		return nil, err
	}
	defer zstdDecoderPool.Put(dec)
	return dec.DecodeAll(stored, make([]byte, 0, rawSize))
}

func compressLZ4(data []byte) ([]byte, error) {
	compressed := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, compressed, nil)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil // incompressible
	}
	return compressed[:n], nil
}

func decompressLZ4(stored []byte, rawSize uint32) ([]byte, error) {
	raw := make([]byte, rawSize)
	n, err := lz4.UncompressBlock(stored, raw)
	if err != nil {
		return nil, err
	}
	return raw[:n], nil
}

// WriteFile frames data and writes it to path. The file is written to a
// temporary name first and renamed, so readers never see a partial artifact.
func WriteFile(path string, data []byte, a Algorithm) error {
	name := filepath.Base(path)
	frame, err := Encode(data, a)
	if err != nil {
		return errs.Resource(errs.Serialize, name, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, frame, 0o644); err != nil {
		return errs.Resource(errs.IO, name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errs.Resource(errs.IO, name, err)
	}
	tracer().Debugf("wrote %s: %d bytes raw, %d bytes framed (%s)", name, len(data), len(frame),
		Algorithm(frame[0]))
	return nil
}

// ReadFile reads and decodes the framed artifact at path. Errors name the file.
func ReadFile(path string) ([]byte, error) {
	name := filepath.Base(path)
	frame, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Resource(errs.IO, name, err)
	}
	raw, err := Decode(frame)
	if err != nil {
		return nil, errs.Resource(errs.Deserialize, name, err)
	}
	tracer().Debugf("read %s: %d bytes (%s)", name, len(raw), Algorithm(frame[0]))
	return raw, nil
}

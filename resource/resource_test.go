package resource

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/keitai/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeAllAlgorithms(t *testing.T) {
	data := bytes.Repeat([]byte("すもももももももものうち,名詞,一般,*\n"), 200)
	for _, a := range []Algorithm{None, Deflate, Zstd, LZ4} {
		t.Run(a.String(), func(t *testing.T) {
			frame, err := Encode(data, a)
			require.NoError(t, err)
			if a != None {
				assert.Less(t, len(frame), len(data)/2, "repetitive data should compress")
			}
			assert.Equal(t, byte(a), frame[0])

			raw, err := Decode(frame)
			require.NoError(t, err)
			assert.Equal(t, data, raw)
		})
	}
}

func TestIncompressibleFallsBackToNone(t *testing.T) {
	data := make([]byte, 64)
	for i := range data {
		data[i] = byte(i * 131 % 251)
	}
	frame, err := Encode(data, LZ4)
	require.NoError(t, err)
	assert.Equal(t, byte(None), frame[0])

	raw, err := Decode(frame)
	require.NoError(t, err)
	assert.Equal(t, data, raw)
}

func TestDecodeRejectsTruncatedFrame(t *testing.T) {
	frame, err := Encode([]byte("hello hello hello hello"), None)
	require.NoError(t, err)

	_, err = Decode(frame[:4])
	assert.True(t, errors.Is(err, errs.Deserialize))

	_, err = Decode(frame[:len(frame)-1])
	assert.True(t, errors.Is(err, errs.Deserialize))
}

func TestDecodeReportsCorruptPayload(t *testing.T) {
	data := bytes.Repeat([]byte("abcabcabc"), 100)
	frame, err := Encode(data, Zstd)
	require.NoError(t, err)
	require.Equal(t, byte(Zstd), frame[0])

	for i := headerSize; i < len(frame); i++ {
		frame[i] ^= 0xFF
	}
	_, err = Decode(frame)
	assert.True(t, errors.Is(err, errs.Compress), "got %v", err)
}

func TestDecodeRejectsImplausibleRawSize(t *testing.T) {
	frame := []byte{byte(LZ4), 0xff, 0xff, 0xff, 0xff, 4, 0, 0, 0, 1, 2, 3, 4}
	_, err := Decode(frame)
	assert.True(t, errors.Is(err, errs.Deserialize), "got %v", err)
}

func TestDecodeStopsAtDeclaredSize(t *testing.T) {
	data := bytes.Repeat([]byte("もも"), 1000)
	frame, err := Encode(data, Deflate)
	require.NoError(t, err)
	require.Equal(t, byte(Deflate), frame[0])
	binary.LittleEndian.PutUint32(frame[1:], 100) // payload inflates to 6000 bytes
	_, err = Decode(frame)
	assert.True(t, errors.Is(err, errs.Compress), "got %v", err)
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		name    string
		want    Algorithm
		wantErr bool
	}{
		{"", None, false},
		{"raw", None, false},
		{"Deflate", Deflate, false},
		{"zstd", Zstd, false},
		{" lz4 ", LZ4, false},
		{"brotli", None, true},
	}
	for _, tt := range tests {
		got, err := ParseAlgorithm(tt.name)
		if tt.wantErr {
			assert.True(t, errors.Is(err, errs.Args))
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestReadFileNamesMissingResource(t *testing.T) {
	dir := t.TempDir()
	_, err := ReadFile(filepath.Join(dir, "matrix.mtx"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.IO))
	assert.Contains(t, err.Error(), "matrix.mtx")
}

func TestWriteFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dict.words")
	data := bytes.Repeat([]byte{1, 2, 3, 4}, 1000)
	require.NoError(t, WriteFile(path, data, Deflate))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file must be gone")

	raw, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, raw)
}

package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/keitai/internal/testdict"
	"github.com/npillmayer/keitai/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDict(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "dict")
	require.NoError(t, testdict.Must(t).Write(dir, resource.Zstd))
	return dir
}

func runCmd(input string, args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(input), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestTokenizeWakati(t *testing.T) {
	dir := writeDict(t)
	code, out, stderr := runCmd("すもももももももものうち\n東京のうち\n", "tokenize", "-d", dir, "-o", "wakati")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "すもも も もも も もも の うち\n東京 の うち\n", out)
}

func TestTokenizeMecab(t *testing.T) {
	dir := writeDict(t)
	code, out, stderr := runCmd("東京のうち", "tokenize", "-d", dir)
	require.Equal(t, 0, code, stderr)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "東京\t名詞,一般,"))
	assert.Equal(t, "EOS", lines[3])
}

func TestTokenizeJSONWithFilters(t *testing.T) {
	dir := writeDict(t)
	code, out, stderr := runCmd("すもももももももものうち", "tokenize", "-d", dir, "-o", "json",
		"-T", `japanese_keep_tags:{"tags":["名詞,一般"]}`, "-T", "japanese_reading_form")
	require.Equal(t, 0, code, stderr)
	var tokens []jsonToken
	require.NoError(t, json.Unmarshal([]byte(out), &tokens))
	require.Len(t, tokens, 4)
	assert.Equal(t, "スモモ", tokens[0].Text)
	assert.Equal(t, "モモ", tokens[1].Text)
	assert.Equal(t, 12, tokens[1].ByteStart)
	assert.True(t, strings.HasPrefix(tokens[1].WordID, "sys:"))
}

func TestTokenizeDecompose(t *testing.T) {
	dir := writeDict(t)
	code, out, _ := runCmd("関西国際空港", "tokenize", "-d", dir, "-o", "wakati")
	require.Equal(t, 0, code)
	assert.Equal(t, "関西国際空港\n", out)
	code, out, _ = runCmd("関西国際空港", "tokenize", "-d", dir, "-o", "wakati", "-m", "decompose")
	require.Equal(t, 0, code)
	assert.Equal(t, "関西 国際 空港\n", out)
}

func TestCommandErrors(t *testing.T) {
	code, _, stderr := runCmd("", "tokenize", "-d", filepath.Join(t.TempDir(), "nothing"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "io")

	code, _, stderr = runCmd("", "tokenize", "-d", writeDict(t), "-o", "xml")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "args")

	code, _, _ = runCmd("", "frobnicate")
	assert.Equal(t, 2, code)

	code, _, stderr = runCmd("", "build", "-t", "ipadic", "only-one-arg")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "args")
}

func TestList(t *testing.T) {
	code, out, _ := runCmd("", "list")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "ipadic")
	assert.Contains(t, out, "unicode_normalize")
	assert.Contains(t, out, "decompose")
}

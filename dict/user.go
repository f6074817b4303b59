package dict

import (
	"fmt"
	"path/filepath"

	"github.com/npillmayer/keitai/errs"
	"github.com/npillmayer/keitai/resource"
)

// UserDictionary is an overlay word table consulted together with the
// system dictionary. Its word ids carry IsSystem=false.
type UserDictionary struct {
	Words *PrefixDictionary
}

// NewUserDictionary builds a user dictionary from source words.
// Compound flags are ignored: user words are never decomposed.
func NewUserDictionary(words []Word) (*UserDictionary, error) {
	pd, _, err := buildPrefixDictionary(words, false)
	if err != nil {
		return nil, errs.New(errs.Content, err)
	}
	return &UserDictionary{Words: pd}, nil
}

// CheckAgainst verifies that all context ids of the user dictionary are
// addressable in the connection matrix of a system dictionary.
func (u *UserDictionary) CheckAgainst(m *ConnectionMatrix) error {
	if err := checkContextIDs(u.Words.entries, m); err != nil {
		return errs.New(errs.Deserialize, fmt.Errorf("user dictionary: %w", err))
	}
	return nil
}

// LoadUser reads a user dictionary file.
func LoadUser(path string) (*UserDictionary, error) {
	name := filepath.Base(path)
	data, err := resource.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r := binReader{data: data}
	trieData := r.take(int(r.u32()))
	entryData := r.take(int(r.u32()))
	details := r.take(int(r.u32()))
	if err := r.done(); err != nil {
		return nil, errs.Resource(errs.Deserialize, name, err)
	}
	trie, err := decodeTrie(trieData)
	if err != nil {
		return nil, errs.Resource(errs.Deserialize, name, err)
	}
	entries, err := decodeEntries(entryData, false)
	if err != nil {
		return nil, errs.Resource(errs.Deserialize, name, err)
	}
	pd, err := newPrefixDictionary(trie, entries, details, false)
	if err != nil {
		return nil, errs.Resource(errs.Deserialize, name, err)
	}
	tracer().Infof("loaded user dictionary %s: %d words", name, pd.Len())
	return &UserDictionary{Words: pd}, nil
}

// Write stores the user dictionary as a single framed file holding the trie,
// the entry table and the detail blob, each prefixed by its u32 length.
func (u *UserDictionary) Write(path string, a resource.Algorithm) error {
	trie, err := encodeTrie(u.Words.trie)
	if err != nil {
		return errs.Resource(errs.Serialize, filepath.Base(path), err)
	}
	var buf []byte
	for _, section := range [][]byte{trie, encodeEntries(u.Words.entries), u.Words.details.blob} {
		buf = bo.AppendUint32(buf, uint32(len(section)))
		buf = append(buf, section...)
	}
	return resource.WriteFile(path, buf, a)
}

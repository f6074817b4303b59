package dict

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unicode"
	"unicode/utf8"

	"github.com/bits-and-blooms/bitset"
	"github.com/npillmayer/keitai/errs"
	"github.com/npillmayer/keitai/resource"
	"golang.org/x/sync/errgroup"
)

// Resource file names of a system dictionary directory.
const (
	TrieFile     = "dict.da"
	EntriesFile  = "dict.vals"
	DetailsFile  = "dict.words"
	MatrixFile   = "matrix.mtx"
	CharDefFile  = "char_def.bin"
	UnknownFile  = "unk.bin"
	CompoundFile = "dict.cmp"     // optional
	MetadataFile = "metadata.yaml" // optional
)

// Dictionary bundles the static resources of a system dictionary.
type Dictionary struct {
	Schema    Schema
	Words     *PrefixDictionary
	Matrix    *ConnectionMatrix
	CharDef   *CharacterDefinitions
	Unknown   *UnknownDictionary
	Decompose DecomposePolicy
	compounds *bitset.BitSet // by word index; may be nil
}

// DecomposePolicy gives the penalty added to the cost of a compound word
// before it is compared with its decomposition. It is stored in the
// metadata of a dictionary.
type DecomposePolicy struct {
	KanjiPenalty int `yaml:"kanji_penalty"` // surfaces of kanji only
	OtherPenalty int `yaml:"other_penalty"`
}

// DefaultDecomposePolicy is used for dictionaries without a stored policy.
var DefaultDecomposePolicy = DecomposePolicy{KanjiPenalty: 3000, OtherPenalty: 1700}

// Penalty returns the penalty for a compound with the given surface.
func (p DecomposePolicy) Penalty(surface []byte) int {
	for len(surface) > 0 {
		r, size := utf8.DecodeRune(surface)
		if !unicode.Is(unicode.Han, r) {
			return p.OtherPenalty
		}
		surface = surface[size:]
	}
	return p.KanjiPenalty
}

func (p DecomposePolicy) validate() error {
	if p.KanjiPenalty < 0 || p.OtherPenalty < 0 {
		return fmt.Errorf("negative decomposition penalty in %+v", p)
	}
	return nil
}

// New assembles a system dictionary from source words. It is the entry point
// for builders and tests; at runtime, dictionaries are loaded with Load.
func New(schema Schema, words []Word, matrix *ConnectionMatrix,
	chardef *CharacterDefinitions, unknown *UnknownDictionary) (*Dictionary, error) {
	//
	if matrix == nil || chardef == nil || unknown == nil {
		return nil, errs.Newf(errs.Args, "dictionary needs a matrix, a character table and an unknown-word table")
	}
	pd, compounds, err := buildPrefixDictionary(words, true)
	if err != nil {
		return nil, errs.New(errs.Content, err)
	}
	d := &Dictionary{
		Schema:    schema,
		Words:     pd,
		Matrix:    matrix,
		CharDef:   chardef,
		Unknown:   unknown,
		Decompose: DefaultDecomposePolicy,
		compounds: compounds,
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dictionary) validate() error {
	if err := checkContextIDs(d.Words.entries, d.Matrix); err != nil {
		return errs.Resource(errs.Deserialize, EntriesFile, err)
	}
	if d.Unknown.NumCategories() != d.CharDef.NumCategories() {
		return errs.Resource(errs.Deserialize, UnknownFile,
			fmt.Errorf("table has %d categories, character table has %d",
				d.Unknown.NumCategories(), d.CharDef.NumCategories()))
	}
	if err := d.Unknown.validate(d.Matrix); err != nil {
		return errs.Resource(errs.Deserialize, UnknownFile, err)
	}
	if err := d.Decompose.validate(); err != nil {
		return errs.Resource(errs.Deserialize, MetadataFile, err)
	}
	return nil
}

// IsCompound reports whether a system word may be decomposed.
func (d *Dictionary) IsCompound(id WordID) bool {
	if d.compounds == nil || !id.IsSystem || id.IsUnknown() {
		return false
	}
	return d.compounds.Test(uint(id.Index))
}

// Load reads a system dictionary directory. Resources are read and decoded
// concurrently; any missing or corrupt resource fails the whole load, with an
// error naming the resource.
func Load(dir string) (*Dictionary, error) {
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		if err == nil {
			err = fmt.Errorf("%s is not a directory", dir)
		}
		return nil, errs.Resource(errs.IO, dir, err)
	}
	var (
		trie      []byte
		entries   []WordEntry
		details   []byte
		matrix    *ConnectionMatrix
		chardef   *CharacterDefinitions
		unknown   *UnknownDictionary
		compounds *bitset.BitSet
		md        Metadata
		hasMD     bool
	)
	var g errgroup.Group
	g.Go(func() (err error) {
		trie, err = resource.ReadFile(filepath.Join(dir, TrieFile))
		return err
	})
	g.Go(func() error {
		data, err := resource.ReadFile(filepath.Join(dir, EntriesFile))
		if err != nil {
			return err
		}
		entries, err = decodeEntries(data, true)
		return errs.Resource(errs.Deserialize, EntriesFile, err)
	})
	g.Go(func() (err error) {
		details, err = resource.ReadFile(filepath.Join(dir, DetailsFile))
		return err
	})
	g.Go(func() error {
		data, err := resource.ReadFile(filepath.Join(dir, MatrixFile))
		if err != nil {
			return err
		}
		matrix = &ConnectionMatrix{}
		return errs.Resource(errs.Deserialize, MatrixFile, matrix.UnmarshalBinary(data))
	})
	g.Go(func() error {
		data, err := resource.ReadFile(filepath.Join(dir, CharDefFile))
		if err != nil {
			return err
		}
		chardef, err = decodeCharacterDefinitions(data)
		return errs.Resource(errs.Deserialize, CharDefFile, err)
	})
	g.Go(func() error {
		data, err := resource.ReadFile(filepath.Join(dir, UnknownFile))
		if err != nil {
			return err
		}
		unknown, err = decodeUnknownDictionary(data)
		return errs.Resource(errs.Deserialize, UnknownFile, err)
	})
	g.Go(func() error {
		path := filepath.Join(dir, CompoundFile)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		data, err := resource.ReadFile(path)
		if err != nil {
			return err
		}
		compounds = &bitset.BitSet{}
		return errs.Resource(errs.Deserialize, CompoundFile, compounds.UnmarshalBinary(data))
	})
	g.Go(func() (err error) {
		path := filepath.Join(dir, MetadataFile)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		md, err = ReadMetadata(path)
		hasMD = err == nil
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	da, err := decodeTrie(trie)
	if err != nil {
		return nil, errs.Resource(errs.Deserialize, TrieFile, err)
	}
	pd, err := newPrefixDictionary(da, entries, details, true)
	if err != nil {
		return nil, errs.Resource(errs.Deserialize, TrieFile, err)
	}
	d := &Dictionary{
		Words:     pd,
		Matrix:    matrix,
		CharDef:   chardef,
		Unknown:   unknown,
		compounds: compounds,
	}
	d.Decompose = DefaultDecomposePolicy
	if hasMD {
		d.Schema = md.Schema
		if md.Decompose != nil {
			d.Decompose = *md.Decompose
		}
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	st := da.Stats()
	tracer().Infof("loaded dictionary %s: %d words, %dx%d matrix, %d categories, trie %s",
		dir, pd.Len(), matrix.RightSize(), matrix.LeftSize(), chardef.NumCategories(), st)
	return d, nil
}

// Write stores the dictionary in dir, one framed resource per file.
func (d *Dictionary) Write(dir string, a resource.Algorithm) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Resource(errs.IO, dir, err)
	}
	trie, err := encodeTrie(d.Words.trie)
	if err != nil {
		return errs.Resource(errs.Serialize, TrieFile, err)
	}
	matrix, _ := d.Matrix.MarshalBinary()
	chardef, err := d.CharDef.MarshalBinary()
	if err != nil {
		return errs.Resource(errs.Serialize, CharDefFile, err)
	}
	unknown, _ := d.Unknown.MarshalBinary()
	files := []struct {
		name string
		data []byte
	}{
		{TrieFile, trie},
		{EntriesFile, encodeEntries(d.Words.entries)},
		{DetailsFile, d.Words.details.blob},
		{MatrixFile, matrix},
		{CharDefFile, chardef},
		{UnknownFile, unknown},
	}
	if d.compounds != nil && d.compounds.Any() {
		cmp, err := d.compounds.MarshalBinary()
		if err != nil {
			return errs.Resource(errs.Serialize, CompoundFile, err)
		}
		files = append(files, struct {
			name string
			data []byte
		}{CompoundFile, cmp})
	}
	for _, f := range files {
		if err := resource.WriteFile(filepath.Join(dir, f.name), f.data, a); err != nil {
			return err
		}
	}
	if len(d.Schema.Fields) > 0 {
		policy := d.Decompose
		md := Metadata{Schema: d.Schema, Compression: a.String(), Words: d.Words.Len(), Decompose: &policy}
		if err := WriteMetadata(filepath.Join(dir, MetadataFile), md); err != nil {
			return err
		}
	}
	tracer().Infof("wrote dictionary %s: %d words (%s)", dir, d.Words.Len(), a)
	return nil
}

package builder

import (
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/npillmayer/keitai/dict"
	"github.com/npillmayer/keitai/errs"
)

// Source file names in a source directory.
const (
	CharDefSource = "char.def"
	UnknownSource = "unk.def"
	MatrixSource  = "matrix.def"
)

// Compile reads a source directory and assembles a system dictionary in memory.
func Compile(srcDir string, opts Options) (*dict.Dictionary, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	var chardef *dict.CharacterDefinitions
	err := withSource(srcDir, CharDefSource, opts.Encoding, func(r io.Reader) (err error) {
		chardef, err = ParseCharDef(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	var unknown *dict.UnknownDictionary
	err = withSource(srcDir, UnknownSource, opts.Encoding, func(r io.Reader) (err error) {
		unknown, err = ParseUnknown(r, chardef, opts)
		return err
	})
	if err != nil {
		return nil, err
	}
	var matrix *dict.ConnectionMatrix
	err = withSource(srcDir, MatrixSource, opts.Encoding, func(r io.Reader) (err error) {
		matrix, err = ParseMatrix(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	lexicons, err := filepath.Glob(filepath.Join(srcDir, "*.csv"))
	if err != nil {
		return nil, errs.New(errs.Args, err)
	}
	if len(lexicons) == 0 {
		return nil, errs.Resource(errs.IO, "*.csv", os.ErrNotExist)
	}
	sort.Strings(lexicons)
	var words []dict.Word
	for _, path := range lexicons {
		name := filepath.Base(path)
		err = withSource(srcDir, name, opts.Encoding, func(r io.Reader) error {
			w, err := ReadLexicon(r, name, opts)
			words = append(words, w...)
			return err
		})
		if err != nil {
			return nil, err
		}
	}
	tracer().Infof("compiled %d words from %d lexicon files", len(words), len(lexicons))
	d, err := dict.New(opts.Schema, words, matrix, chardef, unknown)
	if err != nil {
		return nil, err
	}
	d.Decompose = opts.Decompose
	return d, nil
}

// Build compiles the sources in srcDir and writes the dictionary to destDir.
func Build(srcDir, destDir string, opts Options) (*dict.Dictionary, error) {
	d, err := Compile(srcDir, opts)
	if err != nil {
		return nil, err
	}
	if err := d.Write(destDir, opts.Compression); err != nil {
		return nil, err
	}
	return d, nil
}

// BuildUser compiles a user dictionary CSV file and writes it to destFile.
// If sys is given, context ids are checked against its matrix.
func BuildUser(srcFile, destFile string, sys *dict.Dictionary, opts Options) (*dict.UserDictionary, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	var words []dict.Word
	err := withSource(filepath.Dir(srcFile), filepath.Base(srcFile), opts.Encoding, func(r io.Reader) (err error) {
		words, err = ReadUserWords(r, filepath.Base(srcFile), opts)
		return err
	})
	if err != nil {
		return nil, err
	}
	u, err := dict.NewUserDictionary(words)
	if err != nil {
		return nil, err
	}
	if sys != nil {
		if err := u.CheckAgainst(sys.Matrix); err != nil {
			return nil, err
		}
	}
	if err := u.Write(destFile, opts.Compression); err != nil {
		return nil, err
	}
	return u, nil
}

func withSource(dir, name, encoding string, f func(io.Reader) error) error {
	file, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return errs.Resource(errs.IO, name, err)
	}
	defer file.Close()
	r, err := Decode(file, encoding)
	if err != nil {
		return err
	}
	return f(r)
}

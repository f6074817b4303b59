package builder

import (
	"io"
	"strings"

	"github.com/npillmayer/keitai/errs"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

func decoderFor(name string) (encoding.Encoding, error) {
	switch strings.ToUpper(strings.ReplaceAll(name, "_", "-")) {
	case "", "UTF-8", "UTF8":
		return nil, nil
	case "EUC-JP", "EUCJP":
		return japanese.EUCJP, nil
	case "SHIFT-JIS", "SJIS", "CP932":
		return japanese.ShiftJIS, nil
	case "UTF-16":
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), nil
	}
	return nil, errs.Newf(errs.Args, "unsupported source encoding %q", name)
}

// Decode wraps r so that it yields UTF-8 from a source in the named encoding.
func Decode(r io.Reader, name string) (io.Reader, error) {
	enc, err := decoderFor(name)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return r, nil
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

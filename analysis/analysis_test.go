package analysis

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/keitai"
	"github.com/npillmayer/keitai/errs"
	"github.com/npillmayer/keitai/internal/testdict"
	"github.com/npillmayer/keitai/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func texts(tokens []keitai.Token) string {
	s := make([]string, len(tokens))
	for i, t := range tokens {
		s[i] = t.Text
	}
	return strings.Join(s, "/")
}

func newAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	tok, err := keitai.NewTokenizer(testdict.Must(t))
	require.NoError(t, err)
	return &Analyzer{Tokenizer: tok}
}

func TestAnalyzerWithoutFilters(t *testing.T) {
	a := newAnalyzer(t)
	tokens, err := a.Analyze("すもももももももものうち")
	require.NoError(t, err)
	assert.Equal(t, "すもも/も/もも/も/もも/の/うち", texts(tokens))
}

func TestOffsetMapContraction(t *testing.T) {
	m := &OffsetMap{}
	m.replaced(0, 15, 6)
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 0, m.Correct(0))
	assert.Equal(t, 15, m.Correct(6))
	assert.Equal(t, 18, m.Correct(9))
}

func TestOffsetMapExpansion(t *testing.T) {
	m := &OffsetMap{}
	m.replaced(3, 3, 9) // one character at 3 becomes three
	assert.Equal(t, 2, m.Correct(2))
	assert.Equal(t, 6, m.Correct(6))
	assert.Equal(t, 6, m.Correct(12))
	assert.Equal(t, 7, m.Correct(13))
	var none *OffsetMap
	assert.Equal(t, 5, none.Correct(5))
}

func TestMappingCharacterFilterCorrectsOffsets(t *testing.T) {
	f, err := NewMappingCharacterFilter(map[string]string{"ﾄｳｷｮｳ": "東京", "ﾄｳ": "塔"})
	require.NoError(t, err)
	a := newAnalyzer(t)
	a.CharFilters = []CharacterFilter{f}
	text := "ﾄｳｷｮｳのうち"
	tokens, err := a.Analyze(text)
	require.NoError(t, err)
	require.Equal(t, "東京/の/うち", texts(tokens))
	assert.Equal(t, [2]int{0, 15}, [2]int{tokens[0].ByteStart, tokens[0].ByteEnd})
	assert.Equal(t, "の", text[tokens[1].ByteStart:tokens[1].ByteEnd])
	assert.Equal(t, "うち", text[tokens[2].ByteStart:tokens[2].ByteEnd])
}

func TestMappingIsIdempotent(t *testing.T) {
	f, err := NewMappingCharacterFilter(map[string]string{"ｱ": "ア", "ｲ": "イ"})
	require.NoError(t, err)
	once, _, err := f.Apply("ｱｲウ")
	require.NoError(t, err)
	twice, offsets, err := f.Apply(once)
	require.NoError(t, err)
	assert.Equal(t, "アイウ", once)
	assert.Equal(t, once, twice)
	assert.Equal(t, 0, offsets.Len())
}

func TestMappingRejectsEmpty(t *testing.T) {
	_, err := NewMappingTokenFilter(nil)
	assert.Error(t, err)
	_, err = NewMappingCharacterFilter(map[string]string{"": "x"})
	assert.Error(t, err)
}

func TestNormalizeAndLowercase(t *testing.T) {
	nf, err := CharacterFilterFromFlag(`unicode_normalize:{"kind":"nfkc"}`)
	require.NoError(t, err)
	lc, err := TokenFilterFromFlag("lowercase")
	require.NoError(t, err)
	a := newAnalyzer(t)
	a.CharFilters = []CharacterFilter{nf}
	a.TokenFilters = []TokenFilter{lc}
	tokens, err := a.Analyze("ＡＢＣ")
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, "abc", tokens[0].Text)
	assert.Equal(t, 0, tokens[0].ByteStart)
	assert.Equal(t, 9, tokens[0].ByteEnd)
}

func TestLowercaseTurkish(t *testing.T) {
	f, err := NewLowercaseTokenFilter("tr")
	require.NoError(t, err)
	tokens, err := f.Apply([]keitai.Token{{Text: "DİYARBAKIR"}})
	require.NoError(t, err)
	assert.Equal(t, "diyarbakır", tokens[0].Text)
	_, err = NewLowercaseTokenFilter("no such language!")
	assert.Error(t, err)
}

func TestKeepAndStopTags(t *testing.T) {
	a := newAnalyzer(t)
	keep, err := TokenFilterFromFlag(`japanese_keep_tags:{"tags":["名詞,一般"]}`)
	require.NoError(t, err)
	a.TokenFilters = []TokenFilter{keep}
	tokens, err := a.Analyze("すもももももももものうち")
	require.NoError(t, err)
	assert.Equal(t, "すもも/もも/もも/うち", texts(tokens))

	a.TokenFilters = []TokenFilter{NewStopTagsTokenFilter([]string{"助詞,係助詞", "助詞,連体化"})}
	tokens, err = a.Analyze("すもももももももものうち")
	require.NoError(t, err)
	assert.Equal(t, "すもも/もも/もも/うち", texts(tokens))
	assert.Equal(t, 6, tokens[3].Position, "positions refer to the unfiltered sequence")
}

func TestTokenTagShortDetails(t *testing.T) {
	assert.Equal(t, "UNK,*,*,*", tokenTag(&keitai.Token{Details: []string{"UNK"}}))
	assert.Equal(t, "記号,*,*,*", tokenTag(&keitai.Token{Details: []string{"記号", "空白"}}))
	assert.Equal(t, "*,*,*,*", tokenTag(&keitai.Token{}))
}

func TestBaseAndReadingForm(t *testing.T) {
	a := newAnalyzer(t)
	reading, err := NewReadingFormTokenFilter("ipadic")
	require.NoError(t, err)
	a.TokenFilters = []TokenFilter{reading}
	tokens, err := a.Analyze("すもももももももものうち")
	require.NoError(t, err)
	assert.Equal(t, "スモモ/も/モモ/も/モモ/の/ウチ", texts(tokens))

	base, err := NewTokenFilter("japanese_base_form", nil)
	require.NoError(t, err)
	a.TokenFilters = []TokenFilter{base}
	tokens, err = a.Analyze("abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", texts(tokens), "unknown words have no base form")

	_, err = NewBaseFormTokenFilter("cc-cedict")
	assert.True(t, errors.Is(err, errs.Args))
}

func TestLengthFilter(t *testing.T) {
	f, err := TokenFilterFromFlag(`length:{"min":2,"max":2}`)
	require.NoError(t, err)
	tokens, err := f.Apply([]keitai.Token{{Text: "も"}, {Text: "もも"}, {Text: "すもも"}})
	require.NoError(t, err)
	assert.Equal(t, "もも", texts(tokens))
	_, err = NewLengthTokenFilter(3, 1)
	assert.True(t, errors.Is(err, errs.Args))
}

func TestRegistryErrors(t *testing.T) {
	_, err := NewTokenFilter("no_such_filter", nil)
	assert.True(t, errors.Is(err, errs.Args))
	_, err = CharacterFilterFromFlag("unicode_normalize:{\"kind\":\"nfx\"}")
	assert.True(t, errors.Is(err, errs.Args))
	_, err = TokenFilterFromFlag(`length:{"min":`)
	assert.True(t, errors.Is(err, errs.Deserialize))
	_, err = TokenFilterFromFlag(`length:{"min":"many"}`)
	assert.True(t, errors.Is(err, errs.Deserialize))
	_, err = TokenFilterFromFlag("japanese_keep_tags")
	assert.True(t, errors.Is(err, errs.Deserialize), "keep tags without tags")
	_, err = TokenFilterFromFlag(`japanese_stop_tags:{"tags":[]}`)
	assert.True(t, errors.Is(err, errs.Deserialize), "stop tags with empty tags")
	_, _, err = ParseFilterFlag(":{}")
	assert.True(t, errors.Is(err, errs.Args))
	assert.Contains(t, TokenFilterNames(), "japanese_keep_tags")
	assert.Contains(t, CharacterFilterNames(), "mapping")
}

type reverseFilter struct{}

func (reverseFilter) Name() string { return "reverse" }

func (reverseFilter) Apply(tokens []keitai.Token) ([]keitai.Token, error) {
	for i, j := 0, len(tokens)-1; i < j; i, j = i+1, j-1 {
		tokens[i], tokens[j] = tokens[j], tokens[i]
	}
	return tokens, nil
}

func TestRegisterTokenFilter(t *testing.T) {
	RegisterTokenFilter("reverse", func(*yaml.Node) (TokenFilter, error) {
		return reverseFilter{}, nil
	})
	f, err := TokenFilterFromFlag("reverse")
	require.NoError(t, err)
	a := newAnalyzer(t)
	a.TokenFilters = []TokenFilter{f}
	tokens, err := a.Analyze("東京のうち")
	require.NoError(t, err)
	assert.Equal(t, "うち/の/東京", texts(tokens))
}

const analyzerConfig = `
tokenizer:
  dictionary: dict
  mode: normal
character_filters:
  - kind: unicode_normalize
    args:
      kind: nfkc
token_filters:
  - kind: japanese_stop_tags
    args:
      tags: ["助詞,係助詞"]
  - kind: lowercase
`

func TestAnalyzerFromConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, testdict.Must(t).Write(filepath.Join(dir, "dict"), resource.None))
	path := filepath.Join(dir, "analyzer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(analyzerConfig), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "dict"), cfg.Tokenizer.Dictionary)
	a, err := NewAnalyzer(cfg)
	require.NoError(t, err)
	require.Len(t, a.CharFilters, 1)
	require.Len(t, a.TokenFilters, 2)
	tokens, err := a.Analyze("すもももももももものうちＡＢＣ")
	require.NoError(t, err)
	assert.Equal(t, "すもも/もも/もも/の/うち/abc", texts(tokens))
}

func TestConfigErrors(t *testing.T) {
	_, err := ParseConfig([]byte("token_filters: ["))
	assert.True(t, errors.Is(err, errs.Deserialize))

	cfg, err := ParseConfig([]byte("token_filters: [{kind: lowercase, args: [1, 2]}]"))
	require.NoError(t, err)
	_, _, err = cfg.Filters()
	assert.True(t, errors.Is(err, errs.Deserialize))

	cfg, err = ParseConfig([]byte("token_filters: [{kind: unknown_filter}]"))
	require.NoError(t, err)
	_, _, err = cfg.Filters()
	assert.True(t, errors.Is(err, errs.Args))

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.Is(err, errs.IO))

	var a Analyzer
	_, err = a.Analyze("x")
	assert.True(t, errors.Is(err, errs.Args))
}

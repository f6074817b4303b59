package analysis

import (
	"os"
	"path/filepath"

	"github.com/npillmayer/keitai"
	"github.com/npillmayer/keitai/errs"
	"gopkg.in/yaml.v3"
)

// Analyzer runs a text through character filters, a tokenizer and token
// filters, in this order. Both filter lists may be empty.
//
// An Analyzer is safe for concurrent use if its filters are. All built-in
// filters are.
type Analyzer struct {
	CharFilters  []CharacterFilter
	Tokenizer    *keitai.Tokenizer
	TokenFilters []TokenFilter
}

// Analyze tokenizes text. Token offsets refer to text, not to the output of
// the character filters, while token texts are taken from the filtered text
// and then rewritten by the token filters.
func (a *Analyzer) Analyze(text string) ([]keitai.Token, error) {
	if a.Tokenizer == nil {
		return nil, errs.Newf(errs.Args, "analyzer has no tokenizer")
	}
	maps := make([]*OffsetMap, 0, len(a.CharFilters))
	filtered := text
	for _, f := range a.CharFilters {
		out, offsets, err := f.Apply(filtered)
		if err != nil {
			return nil, errs.Resource(errs.Content, f.Name(), err)
		}
		filtered = out
		maps = append(maps, offsets)
	}
	tokens, err := a.Tokenizer.Tokenize(filtered)
	if err != nil {
		return nil, err
	}
	if len(maps) > 0 {
		for i := range tokens {
			for j := len(maps) - 1; j >= 0; j-- {
				tokens[i].ByteStart = maps[j].Correct(tokens[i].ByteStart)
				tokens[i].ByteEnd = maps[j].Correct(tokens[i].ByteEnd)
			}
		}
		tracer().Debugf("corrected offsets of %d tokens through %d filters", len(tokens), len(maps))
	}
	for _, f := range a.TokenFilters {
		if tokens, err = f.Apply(tokens); err != nil {
			return nil, errs.Resource(errs.Content, f.Name(), err)
		}
	}
	return tokens, nil
}

// FilterConfig names a filter and its arguments:
//
//	kind: mapping
//	args:
//	  mapping: { "ｱ": "ア" }
type FilterConfig struct {
	Kind string    `yaml:"kind"`
	Args yaml.Node `yaml:"args,omitempty"`
}

// Config is the YAML configuration of an analyzer.
type Config struct {
	Tokenizer        keitai.TokenizerConfig `yaml:"tokenizer"`
	CharacterFilters []FilterConfig         `yaml:"character_filters,omitempty"`
	TokenFilters     []FilterConfig         `yaml:"token_filters,omitempty"`
}

// ParseConfig decodes an analyzer configuration.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		if errs.KindOf(err) != errs.Unknown {
			return cfg, err
		}
		return cfg, errs.New(errs.Deserialize, err)
	}
	return cfg, nil
}

// LoadConfig reads an analyzer configuration file. Relative dictionary paths
// are taken relative to the directory of the file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errs.Resource(errs.IO, filepath.Base(path), err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return cfg, errs.Resource(errs.Deserialize, filepath.Base(path), err)
	}
	base := filepath.Dir(path)
	if d := cfg.Tokenizer.Dictionary; d != "" && !filepath.IsAbs(d) {
		cfg.Tokenizer.Dictionary = filepath.Join(base, d)
	}
	if u := cfg.Tokenizer.UserDictionary; u != "" && !filepath.IsAbs(u) {
		cfg.Tokenizer.UserDictionary = filepath.Join(base, u)
	}
	return cfg, nil
}

// Filters creates the filters named by cfg.
func (cfg Config) Filters() ([]CharacterFilter, []TokenFilter, error) {
	var chars []CharacterFilter
	for i := range cfg.CharacterFilters {
		fc := &cfg.CharacterFilters[i]
		f, err := NewCharacterFilter(fc.Kind, &fc.Args)
		if err != nil {
			return nil, nil, err
		}
		chars = append(chars, f)
	}
	var tokens []TokenFilter
	for i := range cfg.TokenFilters {
		fc := &cfg.TokenFilters[i]
		f, err := NewTokenFilter(fc.Kind, &fc.Args)
		if err != nil {
			return nil, nil, err
		}
		tokens = append(tokens, f)
	}
	return chars, tokens, nil
}

// NewAnalyzer creates an analyzer with a tokenizer and filters from cfg.
func NewAnalyzer(cfg Config) (*Analyzer, error) {
	chars, tokens, err := cfg.Filters()
	if err != nil {
		return nil, err
	}
	t, err := keitai.NewTokenizerFromConfig(cfg.Tokenizer)
	if err != nil {
		return nil, err
	}
	return &Analyzer{CharFilters: chars, Tokenizer: t, TokenFilters: tokens}, nil
}

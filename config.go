package keitai

import (
	"os"
	"path/filepath"

	"github.com/npillmayer/keitai/dict"
	"github.com/npillmayer/keitai/errs"
	"gopkg.in/yaml.v3"
)

// TokenizerConfig is the YAML configuration of a tokenizer:
//
//	dictionary: /usr/share/keitai/ipadic
//	user_dictionary: userdic.bin
//	mode: decompose
//	compound_penalty: 3000
type TokenizerConfig struct {
	Dictionary      string `yaml:"dictionary"`
	UserDictionary  string `yaml:"user_dictionary,omitempty"`
	Mode            Mode   `yaml:"mode,omitempty"`
	CompoundPenalty *int   `yaml:"compound_penalty,omitempty"`
}

// ParseTokenizerConfig decodes a YAML configuration.
func ParseTokenizerConfig(data []byte) (TokenizerConfig, error) {
	var cfg TokenizerConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		if errs.KindOf(err) != errs.Unknown {
			return cfg, err
		}
		return cfg, errs.New(errs.Deserialize, err)
	}
	return cfg, nil
}

// LoadTokenizerConfig reads a YAML configuration file. Relative dictionary
// paths are taken relative to the directory of the file.
func LoadTokenizerConfig(path string) (TokenizerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TokenizerConfig{}, errs.Resource(errs.IO, filepath.Base(path), err)
	}
	cfg, err := ParseTokenizerConfig(data)
	if err != nil {
		return cfg, errs.Resource(errs.Deserialize, filepath.Base(path), err)
	}
	base := filepath.Dir(path)
	cfg.Dictionary = resolve(base, cfg.Dictionary)
	cfg.UserDictionary = resolve(base, cfg.UserDictionary)
	return cfg, nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// Options translates the configuration into tokenizer options, loading the
// user dictionary if one is configured.
func (cfg TokenizerConfig) Options() ([]Option, error) {
	opts := []Option{WithMode(cfg.Mode)}
	if cfg.CompoundPenalty != nil {
		opts = append(opts, WithCompoundPenalty(*cfg.CompoundPenalty))
	}
	if cfg.UserDictionary != "" {
		u, err := dict.LoadUser(cfg.UserDictionary)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithUserDictionary(u))
	}
	return opts, nil
}

// NewTokenizerFromConfig loads the dictionaries named by cfg and creates a
// tokenizer.
func NewTokenizerFromConfig(cfg TokenizerConfig) (*Tokenizer, error) {
	if cfg.Dictionary == "" {
		return nil, errs.Newf(errs.Args, "no dictionary configured")
	}
	sys, err := dict.Load(cfg.Dictionary)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	return NewTokenizer(sys, opts...)
}

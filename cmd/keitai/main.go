/*
Command keitai segments text and compiles dictionaries.

Usage:

	keitai tokenize -d DIR [-u USERDIC] [-m normal|decompose] [-o mecab|wakati|json]
	                [-C filter]... [-T filter]... [-c analyzer.yaml] [FILE]
	keitai build [-u] -t KIND [-e ENCODING] [-z ALGO] [-d SYSDIR] SRC DEST
	keitai list

Filters are given as kind or kind:{json-args}, e.g.

	-T 'japanese_stop_tags:{"tags":["助詞,係助詞"]}'

Input is read line by line from FILE or standard input.
*/
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/keitai"
	"github.com/npillmayer/keitai/analysis"
	"github.com/npillmayer/keitai/builder"
	"github.com/npillmayer/keitai/dict"
	"github.com/npillmayer/keitai/errs"
	"github.com/npillmayer/keitai/resource"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "usage: keitai tokenize|build|list [flags]")
		return 2
	}
	var err error
	switch args[0] {
	case "tokenize":
		err = tokenize(args[1:], stdin, stdout, stderr)
	case "build":
		err = build(args[1:], stderr)
	case "list":
		list(stdout)
	default:
		fmt.Fprintf(stderr, "keitai: unknown command %q\n", args[0])
		return 2
	}
	if err == flag.ErrHelp {
		return 2
	}
	if err != nil {
		fmt.Fprintf(stderr, "keitai: %s: %v\n", errs.KindOf(err), err)
		return 1
	}
	return 0
}

// multiFlag collects repeated flag values.
type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, " ") }

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

func tokenize(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("tokenize", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dir := fs.String("d", "", "dictionary directory")
	user := fs.String("u", "", "user dictionary file")
	mode := fs.String("m", "normal", "tokenization mode: normal or decompose")
	format := fs.String("o", "mecab", "output format: mecab, wakati or json")
	config := fs.String("c", "", "analyzer configuration (YAML)")
	var charFilters, tokenFilters multiFlag
	fs.Var(&charFilters, "C", "character filter `kind[:{args}]`, repeatable")
	fs.Var(&tokenFilters, "T", "token filter `kind[:{args}]`, repeatable")
	if err := fs.Parse(args); err != nil {
		return err
	}
	out, err := writerFor(*format)
	if err != nil {
		return err
	}
	a, err := newAnalyzer(fs, *config, *dir, *user, *mode, charFilters, tokenFilters)
	if err != nil {
		return err
	}
	in := stdin
	if fs.NArg() > 0 {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			return errs.Resource(errs.IO, fs.Arg(0), err)
		}
		defer f.Close()
		in = f
	}
	w := bufio.NewWriter(stdout)
	defer w.Flush()
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		tokens, err := a.Analyze(scanner.Text())
		if err != nil {
			return err
		}
		if err := out(w, tokens); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return errs.New(errs.IO, err)
	}
	return nil
}

// newAnalyzer creates an analyzer from a configuration file, if given, and
// from the command line flags, which take precedence.
func newAnalyzer(fs *flag.FlagSet, config, dir, user, mode string, chars, tokens []string) (*analysis.Analyzer, error) {
	var cfg analysis.Config
	if config != "" {
		var err error
		if cfg, err = analysis.LoadConfig(config); err != nil {
			return nil, err
		}
	}
	var err error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "d":
			cfg.Tokenizer.Dictionary = dir
		case "u":
			cfg.Tokenizer.UserDictionary = user
		case "m":
			cfg.Tokenizer.Mode, err = keitai.ParseMode(mode)
		}
	})
	if err != nil {
		return nil, err
	}
	a, err := analysis.NewAnalyzer(cfg)
	if err != nil {
		return nil, err
	}
	for _, c := range chars {
		f, err := analysis.CharacterFilterFromFlag(c)
		if err != nil {
			return nil, err
		}
		a.CharFilters = append(a.CharFilters, f)
	}
	for _, t := range tokens {
		f, err := analysis.TokenFilterFromFlag(t)
		if err != nil {
			return nil, err
		}
		a.TokenFilters = append(a.TokenFilters, f)
	}
	return a, nil
}

type tokenWriter func(w io.Writer, tokens []keitai.Token) error

func writerFor(format string) (tokenWriter, error) {
	switch format {
	case "mecab":
		return writeMecab, nil
	case "wakati":
		return writeWakati, nil
	case "json":
		return writeJSON, nil
	}
	return nil, errs.Newf(errs.Args, "unknown output format %q", format)
}

func writeMecab(w io.Writer, tokens []keitai.Token) error {
	for _, t := range tokens {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", t.Text, strings.Join(t.Details, ",")); err != nil {
			return errs.New(errs.IO, err)
		}
	}
	_, err := fmt.Fprintln(w, "EOS")
	return errs.Resource(errs.IO, "output", err)
}

func writeWakati(w io.Writer, tokens []keitai.Token) error {
	texts := make([]string, len(tokens))
	for i, t := range tokens {
		texts[i] = t.Text
	}
	_, err := fmt.Fprintln(w, strings.Join(texts, " "))
	return errs.Resource(errs.IO, "output", err)
}

type jsonToken struct {
	Text           string   `json:"text"`
	ByteStart      int      `json:"byte_start"`
	ByteEnd        int      `json:"byte_end"`
	Position       int      `json:"position"`
	PositionLength int      `json:"position_length"`
	WordID         string   `json:"word_id"`
	Details        []string `json:"details"`
}

func writeJSON(w io.Writer, tokens []keitai.Token) error {
	js := make([]jsonToken, len(tokens))
	for i, t := range tokens {
		js[i] = jsonToken{
			Text:           t.Text,
			ByteStart:      t.ByteStart,
			ByteEnd:        t.ByteEnd,
			Position:       t.Position,
			PositionLength: t.PositionLength,
			WordID:         t.WordID.String(),
			Details:        t.Details,
		}
	}
	if err := json.NewEncoder(w).Encode(js); err != nil {
		return errs.New(errs.Serialize, err)
	}
	return nil
}

func build(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.SetOutput(stderr)
	user := fs.Bool("u", false, "build a user dictionary from a CSV file")
	kind := fs.String("t", "", "dictionary kind, see 'keitai list'")
	encoding := fs.String("e", "", "encoding of the sources (default depends on kind)")
	compression := fs.String("z", "", "compression: none, deflate, zstd or lz4 (default deflate)")
	sysDir := fs.String("d", "", "system dictionary to check user context ids against")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errs.Newf(errs.Args, "build needs a source and a destination")
	}
	if *kind == "" {
		return errs.Newf(errs.Args, "no dictionary kind given (-t)")
	}
	opts, err := builder.DefaultOptions(*kind)
	if err != nil {
		return err
	}
	if *encoding != "" {
		opts.Encoding = *encoding
	}
	if *compression != "" {
		if opts.Compression, err = resource.ParseAlgorithm(*compression); err != nil {
			return err
		}
	}
	src, dest := fs.Arg(0), fs.Arg(1)
	if !*user {
		_, err = builder.Build(src, dest, opts)
		return err
	}
	var sys *dict.Dictionary
	if *sysDir != "" {
		if sys, err = dict.Load(*sysDir); err != nil {
			return err
		}
	}
	_, err = builder.BuildUser(src, dest, sys, opts)
	return err
}

func list(stdout io.Writer) {
	fmt.Fprintf(stdout, "dictionary kinds:  %s\n", strings.Join(dict.Kinds(), ", "))
	fmt.Fprintf(stdout, "character filters: %s\n", strings.Join(analysis.CharacterFilterNames(), ", "))
	fmt.Fprintf(stdout, "token filters:     %s\n", strings.Join(analysis.TokenFilterNames(), ", "))
	fmt.Fprintf(stdout, "modes:             %s, %s\n", keitai.Normal, keitai.Decompose)
}

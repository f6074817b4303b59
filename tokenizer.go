package keitai

import (
	"fmt"

	"github.com/npillmayer/keitai/dict"
	"github.com/npillmayer/keitai/errs"
	"github.com/npillmayer/keitai/lattice"
)

// UnknownDetails is the detail vector of words produced by the generic
// one-code-point fallback.
var UnknownDetails = []string{"UNK"}

// Tokenizer segments texts. It holds no per-call state and is safe for
// concurrent use.
type Tokenizer struct {
	sys     *dict.Dictionary
	user    *dict.UserDictionary
	lattice *lattice.Lattice
	mode    Mode
	penalty int
}

// NewTokenizer creates a tokenizer over a system dictionary.
func NewTokenizer(sys *dict.Dictionary, opts ...Option) (*Tokenizer, error) {
	if sys == nil {
		return nil, errs.Newf(errs.Args, "tokenizer needs a system dictionary")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.mode != Normal && o.mode != Decompose {
		return nil, errs.Newf(errs.Args, "invalid mode %d", o.mode)
	}
	if o.penaltySet && o.penalty < 0 {
		return nil, errs.Newf(errs.Args, "negative compound penalty %d", o.penalty)
	}
	if o.user != nil {
		if err := o.user.CheckAgainst(sys.Matrix); err != nil {
			return nil, err
		}
	}
	tracer().Debugf("new tokenizer: mode %s, user dictionary %v", o.mode, o.user != nil)
	return &Tokenizer{
		sys:     sys,
		user:    o.user,
		lattice: lattice.New(sys, o.user),
		mode:    o.mode,
		penalty: o.penalty,
	}, nil
}

// Mode returns the analysis mode.
func (t *Tokenizer) Mode() Mode { return t.mode }

// Dictionary returns the system dictionary.
func (t *Tokenizer) Dictionary() *dict.Dictionary { return t.sys }

// Tokenize segments text. The tokens partition text: their Text fields,
// concatenated in order, reproduce it byte by byte. Empty text yields no
// tokens. Text is treated as bytes; invalid UTF-8 is segmented byte-wise.
func (t *Tokenizer) Tokenize(text string) ([]Token, error) {
	if text == "" {
		return []Token{}, nil
	}
	input := []byte(text)
	path := t.lattice.BestPath(input)
	groups := [][]lattice.Node{path}
	if t.mode == Decompose {
		groups = t.lattice.Decompose(input, path, t.penalty)
	}
	tokens := make([]Token, 0, len(path))
	for _, g := range groups {
		for i := range g {
			n := &g[i]
			details, err := t.details(n)
			if err != nil {
				return nil, err
			}
			tok := Token{
				Text:           text[n.Start:n.End],
				ByteStart:      n.Start,
				ByteEnd:        n.End,
				Position:       len(tokens),
				PositionLength: 1,
				WordID:         n.Entry.ID,
				Details:        details,
			}
			if i == 0 && t.mode == Decompose && len(g) > 1 {
				tok.PositionLength = len(g)
			}
			tokens = append(tokens, tok)
		}
	}
	return tokens, nil
}

// details resolves the detail vector of a node from the table owning its word.
func (t *Tokenizer) details(n *lattice.Node) ([]string, error) {
	var (
		details []string
		err     error
	)
	switch n.Source {
	case lattice.System:
		details, err = t.sys.Words.Details(n.Entry)
	case lattice.User:
		details, err = t.user.Words.Details(n.Entry)
	case lattice.Unknown:
		details, err = t.sys.Unknown.Details(n.Entry)
	case lattice.Fallback:
		return UnknownDetails, nil
	default:
		err = fmt.Errorf("unexpected %s node in path", n.Source)
	}
	if err != nil {
		return nil, errs.New(errs.Deserialize, fmt.Errorf("word %v: %w", n.Entry.ID, err))
	}
	return details, nil
}

// Detail returns a named detail field of a token, as defined by the schema of
// the system dictionary. A token lacking the field yields a Content error.
func (t *Tokenizer) Detail(tok Token, field string) (string, error) {
	i := t.sys.Schema.FieldIndex(field)
	if i < 0 {
		return "", errs.Newf(errs.Content, "dictionary kind %q has no field %q", t.sys.Schema.Kind, field)
	}
	if i >= len(tok.Details) {
		return "", errs.Newf(errs.Content, "token %q has no field %q", tok.Text, field)
	}
	return tok.Details[i], nil
}

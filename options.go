package keitai

import (
	"github.com/npillmayer/keitai/dict"
	"github.com/npillmayer/keitai/lattice"
)

type options struct {
	user       *dict.UserDictionary
	mode       Mode
	penalty    int // lattice.DictionaryPenalty unless set
	penaltySet bool
}

func defaultOptions() options {
	return options{mode: Normal, penalty: lattice.DictionaryPenalty}
}

// Option configures a Tokenizer.
type Option func(*options)

// WithUserDictionary overlays a user dictionary over the system dictionary.
func WithUserDictionary(u *dict.UserDictionary) Option {
	return func(o *options) {
		o.user = u
	}
}

// WithMode sets the analysis mode. The default is Normal.
func WithMode(m Mode) Option {
	return func(o *options) {
		o.mode = m
	}
}

// WithCompoundPenalty sets the penalty added to the cost of a compound word
// before it is compared with its decomposition in Decompose mode, overriding
// the decomposition policy of the system dictionary. It must not be negative.
func WithCompoundPenalty(penalty int) Option {
	return func(o *options) {
		o.penalty = penalty
		o.penaltySet = true
	}
}

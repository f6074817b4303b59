package keitai

import (
	"strings"

	"github.com/npillmayer/keitai/errs"
)

// Mode selects the analysis mode of a Tokenizer.
type Mode uint8

const (
	// Normal returns the minimum-cost segmentation.
	Normal Mode = iota
	// Decompose additionally splits compound words into their parts where the
	// parts are cheaper than the compound plus a penalty.
	Decompose
)

func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Decompose:
		return "decompose"
	}
	return "mode(?)"
}

// ParseMode parses "normal" or "decompose". The empty string means Normal.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return Normal, nil
	case "decompose", "search":
		return Decompose, nil
	}
	return Normal, errs.Newf(errs.Args, "unknown mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	mode, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

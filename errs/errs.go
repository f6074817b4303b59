// Package errs defines the error kinds reported by keitai.
//
// Every error surfaced by dictionary loading, configuration or rendering wraps
// one of the kinds below, so callers can test with
//
//	errors.Is(err, errs.IO)
//
// and still reach the underlying cause with errors.Unwrap.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error.
type Kind uint8

const (
	// Unknown is the kind of errors not created by keitai.
	Unknown Kind = iota
	// IO: a resource is missing or unreadable.
	IO
	// Deserialize: malformed binary framing, malformed source or configuration.
	Deserialize
	// Serialize: an artifact could not be encoded.
	Serialize
	// Content: a token lacks a field expected by a renderer.
	Content
	// Args: an invalid configuration value.
	Args
	// Compress: compression or decompression failed.
	Compress
)

var kindNames = [...]string{
	Unknown:     "unknown",
	IO:          "io",
	Deserialize: "deserialize",
	Serialize:   "serialize",
	Content:     "content",
	Args:        "args",
	Compress:    "compress",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Error makes a Kind usable as an errors.Is target.
func (k Kind) Error() string {
	return k.String() + " error"
}

// Error is a kind-tagged error, optionally naming the resource involved.
type Error struct {
	Kind     Kind
	Resource string // file or resource name, may be empty
	Err      error
}

func (e *Error) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Resource, e.Err)
	}
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the kind of e.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// New wraps err with a kind.
func New(kind Kind, err error) error {
	return &Error{Kind: kind, Err: err}
}

// Newf creates a kind-tagged error from a format string.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Resource wraps err with a kind and the name of the resource involved.
// If err already carries a kind, that kind is kept.
func Resource(kind Kind, resource string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Resource == "" {
			return &Error{Kind: e.Kind, Resource: resource, Err: e.Err}
		}
		return err
	}
	return &Error{Kind: kind, Resource: resource, Err: err}
}

// KindOf returns the kind of err, or Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

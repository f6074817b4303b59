package keitai

import "github.com/npillmayer/keitai/errs"

// Error kinds, for use with errors.Is.
const (
	ErrIO          = errs.IO
	ErrDeserialize = errs.Deserialize
	ErrSerialize   = errs.Serialize
	ErrContent     = errs.Content
	ErrArgs        = errs.Args
	ErrCompress    = errs.Compress
)

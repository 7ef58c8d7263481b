package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidConfig       = errors.New("invalid configuration")
	ErrStoreUnavailable    = errors.New("store unavailable")
	ErrMalformedLine       = errors.New("malformed proof line")
	ErrUnbalanced          = errors.New("unbalanced parentheses")
	ErrUnresolvedReference = errors.New("unresolved support reference")
	ErrMalformedResponse   = errors.New("malformed query response")
	ErrConversion          = errors.New("term conversion failed")
)

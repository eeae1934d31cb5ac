package mnist

import "errors"

// Common errors.
var (
	ErrNotFound        = errors.New("dataset file not found")
	ErrInvalidMagic    = errors.New("invalid magic number")
	ErrTruncated       = errors.New("dataset file truncated")
	ErrTooLarge        = errors.New("dataset file declares too much data")
	ErrIndexOutOfRange = errors.New("sample index out of range")
	ErrWrongKind       = errors.New("wrong IDX file kind")
	ErrCountMismatch   = errors.New("image and label counts differ")
	ErrInvalidLabel    = errors.New("label outside class range")
)

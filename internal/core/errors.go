package core

import "errors"

// Error categories for a split operation. Errors returned by Service.Split
// wrap one of these, so callers can branch with errors.Is. The two
// exceptions are ErrTooManySplits, when no slot frees up in time, and the
// context's own error when ctx ends before the split completes.
var (
	// ErrInvalidInput covers unsupported extensions, bad part counts and
	// empty files. Nothing is decoded or produced.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDecodeFailure means the file bytes could not be parsed as the
	// format its extension claims.
	ErrDecodeFailure = errors.New("decode failure")

	// ErrEncodingFailure means a part or the archive could not be
	// serialized. No partial result is kept.
	ErrEncodingFailure = errors.New("encoding failure")

	// ErrSplitNotFound is returned for unknown or expired split IDs and
	// unknown file names within a split.
	ErrSplitNotFound = errors.New("split not found")
)

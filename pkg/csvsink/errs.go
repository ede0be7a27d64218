package csvsink

import "errors"

var (
	// ErrOpen indicates the output file could not be created or opened.
	ErrOpen = errors.New("csvsink: cannot open output")

	// ErrClosed indicates Append on a closed sink.
	ErrClosed = errors.New("csvsink: closed")

	// ErrSchema indicates a row whose node count differs from the file's.
	ErrSchema = errors.New("csvsink: node count mismatch")

	// ErrNodes indicates a non-positive node count.
	ErrNodes = errors.New("csvsink: node count must be > 0")
)

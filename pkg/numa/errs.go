package numa

import "errors"

var (
	// ErrBadPolicy indicates an unknown miss policy name.
	ErrBadPolicy = errors.New("numa: unknown miss policy")

	// ErrBadNode indicates a negative node index.
	ErrBadNode = errors.New("numa: invalid node index")
)

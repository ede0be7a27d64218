package sampler

import "errors"

var (
	// ErrOptions indicates invalid sampler options.
	ErrOptions = errors.New("sampler: invalid options")

	// ErrState indicates Run on a sampler that already ran.
	ErrState = errors.New("sampler: not idle")
)

package config

import "errors"

var (
	// ErrUsage indicates too few positional arguments.
	ErrUsage = errors.New("usage: <node_count> <interval_seconds> (-d <duration_seconds> | -r <command> [args...])")

	// ErrInvalid indicates a bad or conflicting setting.
	ErrInvalid = errors.New("config: invalid")
)

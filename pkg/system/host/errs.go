package host

import "errors"

var (
	// ErrNodeList indicates a malformed kernel node list.
	ErrNodeList = errors.New("host: malformed node list")

	// ErrMemInfo indicates /proc/meminfo had no usable MemTotal line.
	ErrMemInfo = errors.New("host: no MemTotal")
)

package nodemask

import "errors"

var (
	// ErrMode indicates an unknown policy mode.
	ErrMode = errors.New("nodemask: unknown mode")

	// ErrEmpty indicates a mask with no words.
	ErrEmpty = errors.New("nodemask: empty mask")

	// ErrSyscall wraps a failing policy system call.
	ErrSyscall = errors.New("nodemask: policy syscall failed")
)

//go:build linux

package nodemask

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// DefaultSyscall is the number of the per-process policy call provided by
// the patched kernel this tool targets.
const DefaultSyscall = 470

// Apply issues syscall(sysno, pid, mode, mask, n), where n is the number
// of node ids the kernel should consider.
func Apply(sysno uintptr, pid int, mode Mode, mask Mask, n int) error {
	if len(mask) == 0 {
		return ErrEmpty
	}
	if n <= 0 || n > mask.Len() {
		return fmt.Errorf("%w: %d nodes for a %d bit mask", ErrEmpty, n, mask.Len())
	}

	_, _, en := unix.Syscall6(sysno,
		uintptr(pid), uintptr(mode), uintptr(unsafe.Pointer(&mask[0])), uintptr(n), 0, 0)
	if en != 0 {
		return fmt.Errorf("%w: syscall %d pid %d: %w", ErrSyscall, sysno, pid, unix.Errno(en))
	}
	return nil
}

//go:build linux

// Package supervisor runs the workload whose lifetime bounds a sampling
// session.
//
// A Child is started synchronously, so a command that cannot be executed
// is reported to the caller before any sampling happens. Once running, a
// single goroutine waits on the process; Done and Exited observe that wait
// without blocking, and Reap collects the exit status exactly once.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// DefaultWaitDelay bounds how long a cancelled child may take to exit
// after SIGTERM before it is killed.
const DefaultWaitDelay = 5 * time.Second

// Child is a running (or finished) supervised process.
type Child struct {
	cmd  *exec.Cmd
	done chan struct{}

	// written by the wait goroutine before done is closed
	waitErr error

	reapOnce sync.Once
	status   ExitStatus
	reapErr  error
}

// Start launches name with args, inheriting stdio. Cancelling ctx sends
// SIGTERM to the child; it is killed if still alive DefaultWaitDelay later.
func Start(ctx context.Context, name string, args ...string) (*Child, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty command", ErrLaunch)
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Cancel = func() error {
		return cmd.Process.Signal(unix.SIGTERM)
	}
	cmd.WaitDelay = DefaultWaitDelay

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLaunch, name, err)
	}

	c := &Child{cmd: cmd, done: make(chan struct{})}
	go c.wait()
	return c, nil
}

func (c *Child) wait() {
	c.waitErr = c.cmd.Wait()
	close(c.done)
}

// Pid returns the child's process id.
func (c *Child) Pid() int { return c.cmd.Process.Pid }

// Done returns a channel closed once the child has terminated and been
// waited on.
func (c *Child) Done() <-chan struct{} { return c.done }

// Exited is the non-blocking form of Done.
func (c *Child) Exited() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Reap blocks until the child has terminated and returns its status. With
// a positive timeout, a child still running after timeout is killed first.
// Only the first call waits; later calls return the same result.
func (c *Child) Reap(timeout time.Duration) (ExitStatus, error) {
	c.reapOnce.Do(func() {
		if timeout > 0 {
			t := time.NewTimer(timeout)
			defer t.Stop()
			select {
			case <-c.done:
			case <-t.C:
				_ = c.cmd.Process.Kill()
				<-c.done
			}
		} else {
			<-c.done
		}

		c.status = statusOf(c.cmd.ProcessState)
		var exitErr *exec.ExitError
		if c.waitErr != nil && !errors.As(c.waitErr, &exitErr) {
			c.reapErr = fmt.Errorf("wait %d: %w", c.Pid(), c.waitErr)
		}
	})
	return c.status, c.reapErr
}

func statusOf(ps *os.ProcessState) ExitStatus {
	if ps == nil {
		return ExitStatus{Code: -1}
	}
	if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return ExitStatus{Code: -1, Signal: ws.Signal().String()}
	}
	return ExitStatus{Code: ps.ExitCode()}
}

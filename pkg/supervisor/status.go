package supervisor

import "fmt"

// ExitStatus describes how the child terminated.
type ExitStatus struct {
	Code   int    // -1 when terminated by a signal
	Signal string // empty unless terminated by a signal
}

func (s ExitStatus) String() string {
	if s.Signal != "" {
		return "signal: " + s.Signal
	}
	return fmt.Sprintf("exit status %d", s.Code)
}

// Success reports a zero exit code.
func (s ExitStatus) Success() bool { return s.Signal == "" && s.Code == 0 }

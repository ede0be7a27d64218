package numa

import "fmt"

// MissPolicy decides what happens to a Reading whose key was not found
// (or whose source could not be opened) in the current cycle.
type MissPolicy int

const (
	// CarryForward keeps the last successfully read value.
	CarryForward MissPolicy = iota
	// ResetOnMiss drops the value back to the never-read state (zero).
	ResetOnMiss
)

func (p MissPolicy) String() string {
	switch p {
	case CarryForward:
		return "carry"
	case ResetOnMiss:
		return "reset"
	default:
		return fmt.Sprintf("MissPolicy(%d)", int(p))
	}
}

// ParseMissPolicy maps "carry" / "reset" (as used in flags and config
// files) to a MissPolicy. An empty string yields CarryForward.
func ParseMissPolicy(s string) (MissPolicy, error) {
	switch s {
	case "", "carry", "carry-forward":
		return CarryForward, nil
	case "reset", "reset-on-miss":
		return ResetOnMiss, nil
	default:
		return CarryForward, fmt.Errorf("%w: %q", ErrBadPolicy, s)
	}
}

// Reading is the last known value of a single kernel counter.
//
// Cycle is the sampling cycle (1-based) in which Value was read; zero
// means the counter has never been read and Value is zero.
type Reading struct {
	Value uint64
	Cycle uint64
}

// Known reports whether the counter has been read at least once.
func (r Reading) Known() bool { return r.Cycle > 0 }

// StaleAt reports whether Value was not refreshed in the given cycle.
func (r Reading) StaleAt(cycle uint64) bool { return r.Cycle != cycle }

func (r *Reading) set(v, cycle uint64) {
	r.Value = v
	r.Cycle = cycle
}

// miss applies p to a reading that was not refreshed in this cycle.
func (r *Reading) miss(p MissPolicy) {
	if p == ResetOnMiss {
		*r = Reading{}
	}
}

// Package sampler drives a NUMA sampling session.
//
// A Sampler moves through Idle -> Running -> Draining -> Stopped. While
// Running it repeats one cycle: refresh every node's buffers and the global
// counters, stamp the row, append it to the sink, then wait one interval.
// The session ends after a fixed number of cycles (duration mode), or once
// the supervised child has exited (run mode), or when the context is
// cancelled. Draining reaps the child exactly once and closes the sink.
//
// # Timing
//
// With the Relative schedule each period is "cycle work + Interval", so the
// read/write cost accumulates as drift over a long run. The FixedRate
// schedule waits for absolute deadlines start + k*Interval instead; a
// deadline that has already passed is skipped rather than caught up.
package sampler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/ja7ad/numastat/pkg/sample"
	"github.com/ja7ad/numastat/pkg/supervisor"
)

// State is the lifecycle state of a Sampler.
type State int

const (
	Idle State = iota
	Running
	Draining
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Draining:
		return "draining"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Schedule selects how the wait between cycles is computed.
type Schedule int

const (
	Relative Schedule = iota
	FixedRate
)

// Sink receives assembled rows. *csvsink.Sink implements it.
type Sink interface {
	Append(r *sample.Row) error
	Close() error
}

// Child is the supervised workload in run mode. *supervisor.Child
// implements it.
type Child interface {
	Done() <-chan struct{}
	Exited() bool
	Reap(timeout time.Duration) (supervisor.ExitStatus, error)
}

// Options configures a Sampler.
type Options struct {
	Nodes    int
	Interval time.Duration
	// Iterations is the number of cycles in duration mode. It is ignored
	// when a Child is supervised.
	Iterations  int64
	Schedule    Schedule
	ReapTimeout time.Duration
	// Now stamps rows; defaults to time.Now.
	Now func() time.Time
}

// Result summarizes a finished session.
type Result struct {
	Rows    uint64
	Skipped uint64 // FixedRate deadlines missed
	Child   *supervisor.ExitStatus
}

// Sampler runs one sampling session.
type Sampler struct {
	opts  Options
	src   sample.Source
	sink  Sink
	child Child
	log   *slog.Logger

	state State
	row   *sample.Row
	cycle uint64
	res   Result
}

// New returns an Idle sampler. A nil child selects duration mode.
func New(opts Options, src sample.Source, sink Sink, child Child, log *slog.Logger) (*Sampler, error) {
	if opts.Nodes <= 0 {
		return nil, fmt.Errorf("%w: node count %d", ErrOptions, opts.Nodes)
	}
	if opts.Interval <= 0 {
		return nil, fmt.Errorf("%w: interval %s", ErrOptions, opts.Interval)
	}
	if opts.Iterations < 0 {
		return nil, fmt.Errorf("%w: iterations %d", ErrOptions, opts.Iterations)
	}
	if src == nil || sink == nil {
		return nil, fmt.Errorf("%w: source and sink are required", ErrOptions)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = slog.Default()
	}
	return &Sampler{
		opts:  opts,
		src:   src,
		sink:  sink,
		child: child,
		log:   log,
		row:   sample.NewRow(opts.Nodes),
	}, nil
}

// State returns the current lifecycle state.
func (s *Sampler) State() State { return s.state }

// Row returns the buffers of the most recent cycle.
func (s *Sampler) Row() *sample.Row { return s.row }

// Run executes the session until its stop condition and always drains.
// A sampler runs at most once.
func (s *Sampler) Run(ctx context.Context) (Result, error) {
	if s.state != Idle {
		return s.res, fmt.Errorf("%w: %s", ErrState, s.state)
	}
	s.state = Running
	runErr := s.loop(ctx)

	s.state = Draining
	err := s.drain(runErr)

	s.state = Stopped
	return s.res, err
}

func (s *Sampler) runMode() bool { return s.child != nil }

func (s *Sampler) loop(ctx context.Context) error {
	next := time.Now()
	for {
		if ctx.Err() != nil {
			s.log.Info("sampling interrupted", "rows", s.res.Rows)
			return nil
		}
		if !s.runMode() && s.cycle >= uint64(s.opts.Iterations) {
			return nil
		}

		s.cycle++
		sample.Assemble(s.row, s.src, s.cycle, s.opts.Now)
		if err := s.sink.Append(s.row); err != nil {
			return fmt.Errorf("cycle %d: %w", s.cycle, err)
		}
		s.res.Rows++
		s.log.Debug("cycle", "n", s.cycle, "stale", s.row.Stale(s.cycle))

		if !s.wait(ctx, &next) {
			continue // ctx checked at the top
		}
		if s.runMode() && s.child.Exited() {
			s.log.Info("command exited", "rows", s.res.Rows)
			return nil
		}
	}
}

// wait blocks for one interval. It returns early (false) on ctx
// cancellation, and early (true) when the child exits.
func (s *Sampler) wait(ctx context.Context, next *time.Time) bool {
	var d time.Duration
	switch s.opts.Schedule {
	case FixedRate:
		*next = next.Add(s.opts.Interval)
		now := time.Now()
		for !next.After(now) {
			*next = next.Add(s.opts.Interval)
			s.res.Skipped++
		}
		d = next.Sub(now)
	default:
		d = s.opts.Interval
	}

	t := time.NewTimer(d)
	defer t.Stop()

	var childDone <-chan struct{}
	if s.runMode() {
		childDone = s.child.Done()
	}
	select {
	case <-t.C:
		return true
	case <-childDone:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *Sampler) drain(runErr error) error {
	var errs *multierror.Error
	if runErr != nil {
		errs = multierror.Append(errs, runErr)
	}

	if s.runMode() {
		st, err := s.child.Reap(s.opts.ReapTimeout)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("reap: %w", err))
		}
		s.res.Child = &st
		s.log.Info("command reaped", "status", st.String())
	}

	if err := s.sink.Close(); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("close sink: %w", err))
	}
	return errs.ErrorOrNil()
}

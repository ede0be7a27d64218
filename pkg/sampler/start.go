//go:build linux

package sampler

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"

	"github.com/ja7ad/numastat/pkg/config"
	"github.com/ja7ad/numastat/pkg/csvsink"
	"github.com/ja7ad/numastat/pkg/logging"
	"github.com/ja7ad/numastat/pkg/numa"
	"github.com/ja7ad/numastat/pkg/supervisor"
)

// Start performs the Idle work for cfg: validation, output file and
// header, and in run mode the launch of the command. The returned
// sampler is ready to Run. Cancelling ctx also terminates the command.
func Start(ctx context.Context, cfg config.Config, log *slog.Logger) (*Sampler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}

	ok, err := csvsink.CheckHeader(cfg.Output, cfg.Nodes)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		log.Warn("cannot check existing output header", "path", cfg.Output, "error", err)
	case !ok:
		log.Warn("existing output has a different header, appending anyway", "path", cfg.Output, "nodes", cfg.Nodes)
	}

	sink, err := csvsink.Open(cfg.Output, cfg.Nodes)
	if err != nil {
		return nil, err
	}

	src := numa.NewReader(cfg.SysRoot, cfg.ProcRoot, cfg.Policy(), logging.Logr(log).WithName("numa"))

	opts := Options{
		Nodes:       cfg.Nodes,
		Interval:    cfg.Interval,
		ReapTimeout: cfg.ReapTimeout,
	}
	if cfg.FixedRate {
		opts.Schedule = FixedRate
	}

	var child Child
	switch cfg.Mode {
	case config.ModeDuration:
		opts.Iterations = cfg.Iterations()
		log.Info("sampling", "mode", cfg.Mode.String(), "nodes", cfg.Nodes, "interval", cfg.Interval,
			"iterations", opts.Iterations, "output", cfg.Output, "header_created", sink.Created())
	case config.ModeRun:
		c, err := supervisor.Start(ctx, cfg.Command[0], cfg.Command[1:]...)
		if err != nil {
			_ = sink.Close()
			return nil, err
		}
		child = c
		log.Info("sampling", "mode", cfg.Mode.String(), "nodes", cfg.Nodes, "interval", cfg.Interval,
			"command", cfg.Command, "pid", c.Pid(), "output", cfg.Output, "header_created", sink.Created())
	}

	s, err := New(opts, src, sink, child, log)
	if err != nil {
		_ = sink.Close()
		if child != nil {
			_, _ = child.Reap(cfg.ReapTimeout)
		}
		return nil, err
	}
	return s, nil
}

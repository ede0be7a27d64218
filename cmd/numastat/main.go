//go:build linux

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ja7ad/numastat/pkg/config"
	"github.com/ja7ad/numastat/pkg/logging"
	"github.com/ja7ad/numastat/pkg/sample"
	"github.com/ja7ad/numastat/pkg/sampler"
	"github.com/ja7ad/numastat/pkg/system/host"
	"github.com/ja7ad/numastat/pkg/types"
)

func main() {
	var configPath string
	flags := config.Default()

	root := &cobra.Command{
		Use:   "numastat [flags] <node_count> <interval_seconds> (-d <duration_seconds> | -r <command> [args...])",
		Short: "Periodic NUMA telemetry sampler",
		Long: `numastat samples per-node memory and NUMA counters from sysfs, plus the
system-wide NUMA and migration counters from /proc/vmstat, and appends one
timestamped row per interval to a CSV file.

The session either lasts a fixed number of seconds (-d) or as long as a
command launched by numastat keeps running (-r).

Flags must come before the positional arguments.

Examples:
  numastat 2 0.5 -d 60
  numastat -o /tmp/bench.csv --fixed-rate 4 1 -r ./bench --threads 32
  numastat -c numastat.yaml 2 1 -r sh -c 'make -j16'`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				if err := config.LoadFile(configPath, &cfg); err != nil {
					return err
				}
			}
			cfg.Override(cmd.Flags(), flags)
			if err := config.ParseArgs(args, &cfg); err != nil {
				if errors.Is(err, config.ErrUsage) {
					_ = cmd.Usage()
				}
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	root.Flags().SetInterspersed(false)
	root.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file (flags take precedence)")
	flags.BindFlags(root.Flags())

	if err := root.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	log, err := logging.Setup(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	h := host.Summarize(cfg.SysRoot, cfg.ProcRoot)
	log.Info("host", "hostname", h.Hostname, "kernel", h.Kernel, "cpus", h.CPUs,
		"mem", h.Memory.Humanized(), "online_nodes", h.Nodes)
	if !h.CheckNodes(cfg.Nodes) {
		log.Warn("node_count exceeds the online nodes, missing nodes will report zeros",
			"node_count", cfg.Nodes, "online_nodes", h.Nodes)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	s, err := sampler.Start(ctx, cfg, log)
	if err != nil {
		return err
	}
	res, err := s.Run(ctx)

	log.Info("done", "rows", res.Rows, "skipped", res.Skipped, "elapsed", time.Since(started).Round(time.Millisecond))
	if res.Child != nil && !res.Child.Success() {
		log.Warn("command failed", "status", res.Child.String())
	}
	if res.Rows > 0 {
		printSummary(os.Stderr, s.Row(), cfg.Output)
	}
	return err
}

// printSummary writes the last sampled memory state per node.
func printSummary(w io.Writer, r *sample.Row, output string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "\nlast sample (%s):\n", output)
	fmt.Fprintln(tw, "NODE\tTOTAL\tUSED\tUSED %")
	fmt.Fprintln(tw, "----\t-----\t----\t------")
	for i := range r.Memory {
		total := types.Kilobytes(r.Memory[i].MemTotal.Value)
		used := types.Kilobytes(r.Memory[i].MemUsed.Value)
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.1f\n", i, total.Humanized(), used.Humanized(), total.Percent(used))
	}
	_ = tw.Flush()
}

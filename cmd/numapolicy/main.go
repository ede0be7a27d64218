//go:build linux

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ja7ad/numastat/pkg/logging"
	"github.com/ja7ad/numastat/pkg/nodemask"
)

func main() {
	var (
		sysno     uint
		logLevel  string
		logFormat string
	)

	root := &cobra.Command{
		Use:   "numapolicy <pid> <mode> <node_count>",
		Short: "Apply a memory policy over nodes [0, node_count) to a process",
		Long: `numapolicy builds a node mask with nodes 0 .. node_count-1 set and passes it
to the per-process memory policy system call of a patched kernel:

  syscall(<syscall>, pid, mode, mask, node_count)

mode is a name (default, preferred, bind, interleave, local, preferred-many,
weighted-interleave) or a raw integer.

Examples:
  numapolicy 4242 interleave 2
  numapolicy --syscall 471 4242 7 4`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logging.Setup(logLevel, logFormat)
			if err != nil {
				return err
			}

			pid, err := strconv.Atoi(args[0])
			if err != nil || pid < 0 {
				return fmt.Errorf("pid %q must be an integer >= 0", args[0])
			}
			mode, err := nodemask.ParseMode(args[1])
			if err != nil {
				return err
			}
			n, err := strconv.Atoi(args[2])
			if err != nil || n <= 0 {
				return fmt.Errorf("node_count %q must be an integer > 0", args[2])
			}

			mask := nodemask.All(n)
			if err := nodemask.Apply(uintptr(sysno), pid, mode, mask, n); err != nil {
				return err
			}
			log.Info("policy applied", "pid", pid, "mode", mode.String(), "nodes", mask.String(), "syscall", sysno)
			return nil
		},
	}

	root.Flags().UintVar(&sysno, "syscall", nodemask.DefaultSyscall, "policy system call number")
	root.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.Flags().StringVar(&logFormat, "log-format", "auto", "log format (auto, text, json)")

	if err := root.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

// Package config holds the sampler configuration: the positional command
// line grammar, an optional YAML file, and flag overrides.
//
// Precedence is flags > file > defaults. The positional arguments (node
// count, interval and mode) are only accepted on the command line.
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/ja7ad/numastat/pkg/csvsink"
	"github.com/ja7ad/numastat/pkg/numa"
)

// Mode selects how a sampling session ends.
type Mode int

const (
	ModeUnset    Mode = iota
	ModeDuration      // -d: a fixed number of cycles
	ModeRun           // -r: until the supervised command exits
)

func (m Mode) String() string {
	switch m {
	case ModeDuration:
		return "duration"
	case ModeRun:
		return "run"
	default:
		return "unset"
	}
}

// DefaultReapTimeout bounds the final wait for the child in run mode.
const DefaultReapTimeout = 30 * time.Second

// Log configures pkg/logging.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is everything a sampling session needs.
type Config struct {
	// positional
	Nodes    int           `yaml:"-"`
	Interval time.Duration `yaml:"-"`
	Mode     Mode          `yaml:"-"`
	Duration time.Duration `yaml:"-"`
	Command  []string      `yaml:"-"`

	Output      string        `yaml:"output"`
	SysRoot     string        `yaml:"sys_root"`
	ProcRoot    string        `yaml:"proc_root"`
	MissPolicy  string        `yaml:"miss_policy"`
	FixedRate   bool          `yaml:"fixed_rate"`
	ReapTimeout time.Duration `yaml:"reap_timeout"`
	Log         Log           `yaml:"log"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Output:      csvsink.DefaultPath,
		SysRoot:     numa.DefaultSysRoot,
		ProcRoot:    numa.DefaultProcRoot,
		MissPolicy:  numa.CarryForward.String(),
		ReapTimeout: DefaultReapTimeout,
		Log: Log{
			Level:  "info",
			Format: "auto",
		},
	}
}

// LoadFile overlays the YAML file at path onto c. Unknown keys are an
// error.
func LoadFile(path string, c *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %s: %w", ErrInvalid, path, err)
	}
	return nil
}

// BindFlags registers the optional settings on fs, writing into c.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.Output, "output", "o", c.Output, "CSV file to append samples to")
	fs.StringVar(&c.SysRoot, "sys-root", c.SysRoot, "sysfs mount point")
	fs.StringVar(&c.ProcRoot, "proc-root", c.ProcRoot, "procfs mount point")
	fs.StringVar(&c.MissPolicy, "miss-policy", c.MissPolicy, "counter missing from a source: carry (keep last value) or reset (write 0)")
	fs.BoolVar(&c.FixedRate, "fixed-rate", c.FixedRate, "schedule cycles on absolute deadlines instead of sleeping interval after each cycle")
	fs.DurationVar(&c.ReapTimeout, "reap-timeout", c.ReapTimeout, "run mode: how long to wait for the command at shutdown before killing it (0 = forever)")
	fs.StringVar(&c.Log.Level, "log-level", c.Log.Level, "log level (debug, info, warn, error)")
	fs.StringVar(&c.Log.Format, "log-format", c.Log.Format, "log format (auto, text, json)")
}

// Override copies into c every setting whose flag was explicitly set on
// fs, taking the value from flags (the Config fs was bound to).
func (c *Config) Override(fs *pflag.FlagSet, flags Config) {
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "output":
			c.Output = flags.Output
		case "sys-root":
			c.SysRoot = flags.SysRoot
		case "proc-root":
			c.ProcRoot = flags.ProcRoot
		case "miss-policy":
			c.MissPolicy = flags.MissPolicy
		case "fixed-rate":
			c.FixedRate = flags.FixedRate
		case "reap-timeout":
			c.ReapTimeout = flags.ReapTimeout
		case "log-level":
			c.Log.Level = flags.Log.Level
		case "log-format":
			c.Log.Format = flags.Log.Format
		}
	})
}

// ParseArgs parses the positional grammar
//
//	<node_count> <interval_seconds> (-d <duration_seconds> | -r <command> [args...])
//
// into c.
func ParseArgs(args []string, c *Config) error {
	if len(args) < 3 {
		return ErrUsage
	}

	nodes, err := strconv.Atoi(args[0])
	if err != nil || nodes <= 0 {
		return fmt.Errorf("%w: node_count %q must be an integer > 0", ErrInvalid, args[0])
	}
	interval, err := ParseSeconds(args[1])
	if err != nil {
		return fmt.Errorf("%w: interval_seconds %q: %w", ErrInvalid, args[1], err)
	}
	c.Nodes = nodes
	c.Interval = interval

	switch args[2] {
	case "-d":
		if len(args) < 4 {
			return fmt.Errorf("%w: missing duration argument", ErrInvalid)
		}
		if len(args) > 4 {
			return fmt.Errorf("%w: unexpected argument %q after duration", ErrInvalid, args[4])
		}
		d, err := strconv.Atoi(args[3])
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: duration_seconds %q must be an integer > 0", ErrInvalid, args[3])
		}
		c.Mode = ModeDuration
		c.Duration = time.Duration(d) * time.Second
	case "-r":
		if len(args) < 4 {
			return fmt.Errorf("%w: missing command to run", ErrInvalid)
		}
		c.Mode = ModeRun
		c.Command = append([]string(nil), args[3:]...)
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalid, args[2])
	}
	return nil
}

// ParseSeconds converts a positive decimal number of seconds to a
// Duration, rounded to the nearest nanosecond.
func ParseSeconds(s string) (time.Duration, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, errors.New("must be > 0")
	}
	if v > math.MaxInt64/float64(time.Second) {
		return 0, errors.New("too large")
	}
	d := time.Duration(math.Round(v * float64(time.Second)))
	if d <= 0 {
		return 0, errors.New("below 1ns")
	}
	return d, nil
}

// Validate checks the whole configuration.
func (c Config) Validate() error {
	if c.Nodes <= 0 {
		return fmt.Errorf("%w: node count must be > 0", ErrInvalid)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval must be > 0", ErrInvalid)
	}
	switch c.Mode {
	case ModeDuration:
		if c.Duration < time.Second {
			return fmt.Errorf("%w: duration must be >= 1s", ErrInvalid)
		}
		if len(c.Command) > 0 {
			return fmt.Errorf("%w: duration mode takes no command", ErrInvalid)
		}
	case ModeRun:
		if len(c.Command) == 0 || c.Command[0] == "" {
			return fmt.Errorf("%w: run mode needs a command", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: exactly one of -d or -r is required", ErrInvalid)
	}
	if c.Output == "" {
		return fmt.Errorf("%w: output path is empty", ErrInvalid)
	}
	if c.ReapTimeout < 0 {
		return fmt.Errorf("%w: reap timeout must be >= 0", ErrInvalid)
	}
	if _, err := numa.ParseMissPolicy(c.MissPolicy); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Policy returns the parsed miss policy. Call after Validate.
func (c Config) Policy() numa.MissPolicy {
	p, _ := numa.ParseMissPolicy(c.MissPolicy)
	return p
}

// Iterations returns floor(Duration / Interval) for duration mode.
func (c Config) Iterations() int64 {
	if c.Interval <= 0 {
		return 0
	}
	return int64(c.Duration / c.Interval)
}

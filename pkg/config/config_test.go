package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja7ad/numastat/pkg/numa"
)

func TestParseArgs_Duration(t *testing.T) {
	c := Default()
	require.NoError(t, ParseArgs([]string{"2", "0.5", "-d", "10"}, &c))
	assert.Equal(t, 2, c.Nodes)
	assert.Equal(t, 500*time.Millisecond, c.Interval)
	assert.Equal(t, ModeDuration, c.Mode)
	assert.Equal(t, 10*time.Second, c.Duration)
	assert.Equal(t, int64(20), c.Iterations())
	require.NoError(t, c.Validate())
}

func TestParseArgs_Run(t *testing.T) {
	c := Default()
	args := []string{"4", "0.1", "-r", "stress-ng", "--vm", "1", "-d"}
	require.NoError(t, ParseArgs(args, &c))
	assert.Equal(t, ModeRun, c.Mode)
	assert.Equal(t, []string{"stress-ng", "--vm", "1", "-d"}, c.Command)
	require.NoError(t, c.Validate())

	// the command slice must not alias the caller's args
	args[3] = "changed"
	assert.Equal(t, "stress-ng", c.Command[0])
}

func TestParseArgs_Errors(t *testing.T) {
	cases := map[string][]string{
		"too_few":          {"2", "0.5"},
		"zero_nodes":       {"0", "0.5", "-d", "10"},
		"neg_nodes":        {"-1", "0.5", "-d", "10"},
		"word_nodes":       {"two", "0.5", "-d", "10"},
		"zero_interval":    {"2", "0", "-d", "10"},
		"neg_interval":     {"2", "-0.5", "-d", "10"},
		"nan_interval":     {"2", "NaN", "-d", "10"},
		"missing_duration": {"2", "0.5", "-d"},
		"zero_duration":    {"2", "0.5", "-d", "0"},
		"float_duration":   {"2", "0.5", "-d", "1.5"},
		"extra_after_d":    {"2", "0.5", "-d", "10", "x"},
		"missing_command":  {"2", "0.5", "-r"},
		"unknown_mode":     {"2", "0.5", "-x", "10"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			err := ParseArgs(args, &c)
			require.Error(t, err)
			if name == "too_few" {
				assert.ErrorIs(t, err, ErrUsage)
			} else {
				assert.ErrorIs(t, err, ErrInvalid)
			}
		})
	}
}

func TestParseSeconds(t *testing.T) {
	d, err := ParseSeconds("0.3")
	require.NoError(t, err)
	assert.Equal(t, 300*time.Millisecond, d)

	d, err = ParseSeconds("1e-9")
	require.NoError(t, err)
	assert.Equal(t, time.Nanosecond, d)

	_, err = ParseSeconds("1e-12")
	assert.Error(t, err)
	_, err = ParseSeconds("1e300")
	assert.Error(t, err)
}

func TestIterations_Floor(t *testing.T) {
	cases := []struct {
		interval string
		duration time.Duration
		want     int64
	}{
		{"1", 10 * time.Second, 10},
		{"0.3", 3 * time.Second, 10},
		{"0.3", 1 * time.Second, 3},
		{"0.7", 7 * time.Second, 10},
		{"4", 10 * time.Second, 2},
		{"20", 10 * time.Second, 0},
	}
	for _, tc := range cases {
		iv, err := ParseSeconds(tc.interval)
		require.NoError(t, err)
		c := Config{Interval: iv, Duration: tc.duration}
		assert.Equal(t, tc.want, c.Iterations(), "interval=%s duration=%s", tc.interval, tc.duration)
	}
}

func TestValidate(t *testing.T) {
	base := Default()
	require.NoError(t, ParseArgs([]string{"1", "1", "-d", "5"}, &base))
	require.NoError(t, base.Validate())

	c := base
	c.Mode = ModeUnset
	assert.ErrorIs(t, c.Validate(), ErrInvalid)

	c = base
	c.Command = []string{"true"}
	assert.ErrorIs(t, c.Validate(), ErrInvalid)

	c = base
	c.MissPolicy = "sometimes"
	assert.ErrorIs(t, c.Validate(), ErrInvalid)

	c = base
	c.Output = ""
	assert.ErrorIs(t, c.Validate(), ErrInvalid)

	c = base
	c.ReapTimeout = -time.Second
	assert.ErrorIs(t, c.Validate(), ErrInvalid)

	c = base
	c.MissPolicy = "reset"
	require.NoError(t, c.Validate())
	assert.Equal(t, numa.ResetOnMiss, c.Policy())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "numastat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
output: /var/log/numa.csv
sys_root: /host/sys
miss_policy: reset
fixed_rate: true
reap_timeout: 10s
log:
  level: debug
  format: json
`), 0o644))

	c := Default()
	require.NoError(t, LoadFile(path, &c))
	assert.Equal(t, "/var/log/numa.csv", c.Output)
	assert.Equal(t, "/host/sys", c.SysRoot)
	assert.Equal(t, "/proc", c.ProcRoot)
	assert.Equal(t, "reset", c.MissPolicy)
	assert.True(t, c.FixedRate)
	assert.Equal(t, 10*time.Second, c.ReapTimeout)
	assert.Equal(t, Log{Level: "debug", Format: "json"}, c.Log)

	t.Run("unknown_key", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("outptu: x\n"), 0o644))
		c := Default()
		assert.ErrorIs(t, LoadFile(bad, &c), ErrInvalid)
	})

	t.Run("empty", func(t *testing.T) {
		empty := filepath.Join(dir, "empty.yaml")
		require.NoError(t, os.WriteFile(empty, nil, 0o644))
		c := Default()
		require.NoError(t, LoadFile(empty, &c))
		assert.Equal(t, Default(), c)
	})

	t.Run("missing", func(t *testing.T) {
		c := Default()
		assert.Error(t, LoadFile(filepath.Join(dir, "nope.yaml"), &c))
	})
}

func TestOverride_FlagsBeatFile(t *testing.T) {
	flags := Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.BindFlags(fs)
	require.NoError(t, fs.Parse([]string{"--output", "cli.csv", "--fixed-rate"}))

	file := Default()
	file.Output = "file.csv"
	file.SysRoot = "/host/sys"
	file.Override(fs, flags)

	assert.Equal(t, "cli.csv", file.Output)
	assert.True(t, file.FixedRate)
	assert.Equal(t, "/host/sys", file.SysRoot, "unset flags keep the file value")
}

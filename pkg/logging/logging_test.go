package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew_AutoIsJSONOffTerminal(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "info", "auto")
	require.NoError(t, err)

	l.Info("sampling", "rows", 3)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "sampling", rec["msg"])
	assert.Equal(t, float64(3), rec["rows"])
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "warn", "text")
	require.NoError(t, err)
	l.Info("hidden")
	l.Warn("shown", "node", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown node=1")

	_, err = New(&buf, "info", "xml")
	assert.Error(t, err)
}

func TestLogr_Verbosity(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "info", "text")
	require.NoError(t, err)

	lr := Logr(l)
	lr.V(1).Info("verbose")
	assert.Empty(t, buf.String())
	lr.Info("plain")
	assert.Contains(t, buf.String(), "msg=plain")

	buf.Reset()
	l, err = New(&buf, "debug", "text")
	require.NoError(t, err)
	Logr(l).V(1).Info("verbose", "path", "/proc/vmstat")
	assert.Contains(t, buf.String(), "msg=verbose")
}

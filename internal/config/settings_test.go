package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/debatelab/argdown-feedback-sub001/internal/dispatch"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultSettings(t *testing.T) {
	t.Parallel()

	settings := Default()
	require.NoError(t, settings.Validate())

	require.Equal(t, "0.0.0.0:8000", settings.Addr())
	require.Equal(t, dispatch.Options{
		MaxWorkers: dispatch.DefaultMaxWorkers,
		Timeout:    dispatch.DefaultTimeout,
	}, settings.DispatchOptions())

	logOpts := settings.LoggerOptions()
	require.Equal(t, "info", logOpts.Level)
	require.False(t, logOpts.HumanReadable)
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Parallel()

	path := writeSettings(t, `
host: 127.0.0.1
port: 9090
log_level: debug
log_human_readable: true
max_workers: 8
queue_size: 64
timeout_seconds: 5
`)

	settings, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1:9090", settings.Addr())
	require.Equal(t, dispatch.Options{
		MaxWorkers: 8,
		QueueSize:  64,
		Timeout:    5 * time.Second,
	}, settings.DispatchOptions())
	require.Equal(t, "debug", settings.LoggerOptions().Level)
	require.True(t, settings.LoggerOptions().HumanReadable)
}

func TestLoadKeepsDefaultsForOmittedFields(t *testing.T) {
	t.Parallel()

	path := writeSettings(t, "port: 9000\n")

	settings, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9000, settings.Port)
	require.Equal(t, "0.0.0.0", settings.Host)
	require.Equal(t, "info", settings.LogLevel)
	require.Equal(t, dispatch.DefaultMaxWorkers, settings.MaxWorkers)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "reading settings file")
}

func TestLoadMalformedYAML(t *testing.T) {
	t.Parallel()

	path := writeSettings(t, "port: [\n")
	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parsing settings file")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "empty host", content: `host: ""`},
		{name: "port too low", content: "port: 0"},
		{name: "port too high", content: "port: 70000"},
		{name: "unknown log level", content: "log_level: verbose"},
		{name: "zero workers", content: "max_workers: 0"},
		{name: "negative queue", content: "queue_size: -1"},
		{name: "zero timeout", content: "timeout_seconds: 0"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Load(writeSettings(t, tt.content))
			require.Error(t, err)
			require.Contains(t, err.Error(), "invalid settings")
		})
	}
}

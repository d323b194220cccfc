package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/debatelab/argdown-feedback-sub001/internal/config"
)

func writeSettingsFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolveSettingsDefaults(t *testing.T) {
	t.Parallel()

	settings, err := resolveSettings(newServeCmd(), serveOptions{})
	require.NoError(t, err)
	require.Equal(t, config.Default(), settings)
}

func TestResolveSettingsLoadsConfigFile(t *testing.T) {
	t.Parallel()

	path := writeSettingsFile(t, "port: 9000\nlog_level: debug\n")

	settings, err := resolveSettings(newServeCmd(), serveOptions{configPath: path})
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", settings.Host)
	require.Equal(t, 9000, settings.Port)
	require.Equal(t, "debug", settings.LogLevel)
}

func TestResolveSettingsFlagsOverrideFile(t *testing.T) {
	t.Parallel()

	path := writeSettingsFile(t, "host: 10.0.0.1\nport: 9000\n")

	cmd := newServeCmd()
	require.NoError(t, cmd.Flags().Set("host", "127.0.0.1"))
	require.NoError(t, cmd.Flags().Set("port", "9191"))

	opts := serveOptions{configPath: path, host: "127.0.0.1", port: 9191}
	settings, err := resolveSettings(cmd, opts)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9191", settings.Addr())
}

func TestResolveSettingsRejectsInvalidOverride(t *testing.T) {
	t.Parallel()

	cmd := newServeCmd()
	require.NoError(t, cmd.Flags().Set("port", "70000"))

	_, err := resolveSettings(cmd, serveOptions{port: 70000})
	require.ErrorContains(t, err, "invalid settings")
}

func TestResolveSettingsMissingConfigFile(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "absent.yaml")

	_, err := resolveSettings(newServeCmd(), serveOptions{configPath: missing})
	require.ErrorContains(t, err, "reading settings file")
}

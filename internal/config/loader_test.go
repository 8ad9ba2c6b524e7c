package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, dir, subdir, content string) {
	t.Helper()
	full := filepath.Join(dir, subdir)
	require.NoError(t, os.MkdirAll(full, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(full, configFileName), []byte(content), 0o644))
}

func withConfigDirs(t *testing.T, homeDir, workDir string) {
	t.Helper()
	origHome := osUserHomeDir
	origWd := osGetwd
	osUserHomeDir = func() (string, error) { return homeDir, nil }
	osGetwd = func() (string, error) { return workDir, nil }
	t.Cleanup(func() {
		osUserHomeDir = origHome
		osGetwd = origWd
	})
}

func TestLoadDefaultsWhenNoFilesExist(t *testing.T) {
	withConfigDirs(t, t.TempDir(), t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
	assert.NotEmpty(t, cfg.Server.EventsURL)
	assert.NotEmpty(t, cfg.Runtime.ProcessName)
}

func TestLoadUserConfigOverridesDefaults(t *testing.T) {
	home := t.TempDir()
	withConfigDirs(t, home, t.TempDir())
	writeConfigFile(t, home, userConfigDir, `
server:
  eventsUrl: ws://10.0.0.5:8082/api/events
logging:
  level: debug
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ws://10.0.0.5:8082/api/events", cfg.Server.EventsURL)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched sections keep their defaults.
	assert.Equal(t, DefaultConfig().Runtime.ProcessName, cfg.Runtime.ProcessName)
}

func TestLoadProjectConfigOverridesUserConfig(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()
	withConfigDirs(t, home, work)
	writeConfigFile(t, home, userConfigDir, `
releases:
  stableRepo: someone/stable
  nightlyRepo: someone/nightly
`)
	writeConfigFile(t, work, projectConfigDir, `
releases:
  stableRepo: project/stable
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "project/stable", cfg.Releases.StableRepo)
	assert.Equal(t, "someone/nightly", cfg.Releases.NightlyRepo, "fields absent from the project file keep the user value")
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	home := t.TempDir()
	withConfigDirs(t, home, t.TempDir())
	writeConfigFile(t, home, userConfigDir, "server: [not: a: mapping")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading user config")
}

func TestMergeIgnoresZeroValues(t *testing.T) {
	base := DefaultConfig()
	merged := merge(base, Config{})

	assert.Equal(t, base, merged)
}

func TestMergeOverlaysLaunchCommand(t *testing.T) {
	base := DefaultConfig()
	overlay := Config{}
	overlay.Runtime.LaunchCommand = []string{"/usr/bin/vrruntime", "--headless"}

	merged := merge(base, overlay)

	assert.Equal(t, overlay.Runtime.LaunchCommand, merged.Runtime.LaunchCommand)
}

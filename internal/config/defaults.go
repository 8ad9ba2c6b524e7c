package config

import (
	"os"
	"path/filepath"
)

// DefaultConfig returns the built-in configuration used before any file
// overlays are applied.
func DefaultConfig() Config {
	staging := filepath.Join(os.TempDir(), "streamctl-staging")

	return Config{
		Server: ServerConfig{
			EventsURL: "ws://127.0.0.1:8082/api/events",
		},
		Runtime: RuntimeConfig{
			ProcessName: "vrruntime",
		},
		Releases: ReleasesConfig{
			StableRepo:  "streamctl/streamer",
			NightlyRepo: "streamctl/streamer-nightly",
		},
		Installer: InstallerConfig{
			StagingDir: staging,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

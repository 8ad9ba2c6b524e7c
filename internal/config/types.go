package config

// Config is the top-level configuration structure for streamctl.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Runtime   RuntimeConfig   `yaml:"runtime"`
	Releases  ReleasesConfig  `yaml:"releases"`
	Installer InstallerConfig `yaml:"installer"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig describes how to reach the streaming server.
type ServerConfig struct {
	// EventsURL is the websocket endpoint publishing server events and
	// accepting operator requests.
	EventsURL string `yaml:"eventsUrl,omitempty"`
}

// RuntimeConfig describes the local runtime process the panel controls.
type RuntimeConfig struct {
	// ProcessName is the executable name used to find running instances.
	ProcessName string `yaml:"processName,omitempty"`
	// LaunchCommand starts the runtime; empty leaves relaunching to the
	// server's own supervisor.
	LaunchCommand []string `yaml:"launchCommand,omitempty"`
}

// ReleasesConfig names the GitHub repositories holding release channels.
type ReleasesConfig struct {
	StableRepo  string `yaml:"stableRepo,omitempty"`  // "owner/name"
	NightlyRepo string `yaml:"nightlyRepo,omitempty"` // "owner/name"
}

// InstallerConfig controls where downloaded assets are staged.
type InstallerConfig struct {
	StagingDir string `yaml:"stagingDir,omitempty"`
	AssetName  string `yaml:"assetName,omitempty"` // platform asset to pick, empty = first
}

// LoggingConfig sets the panel's own log filtering.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"` // debug, info, warn, error
}

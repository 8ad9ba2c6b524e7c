package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/streamctl"
	projectConfigDir = ".streamctl"
	configFileName   = "config.yaml"
)

// Load builds the configuration by layering defaults, the user file and
// the project file, in that order. Missing files are not errors.
func Load() (Config, error) {
	cfg := DefaultConfig()

	userPath, err := getUserConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not determine user config path: %v\n", err)
	} else if _, err := os.Stat(userPath); !os.IsNotExist(err) {
		overlay, err := loadFromFile(userPath)
		if err != nil {
			return Config{}, fmt.Errorf("loading user config from %s: %w", userPath, err)
		}
		cfg = merge(cfg, overlay)
	}

	projectPath, err := getProjectConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not determine project config path: %v\n", err)
	} else if _, err := os.Stat(projectPath); !os.IsNotExist(err) {
		overlay, err := loadFromFile(projectPath)
		if err != nil {
			return Config{}, fmt.Errorf("loading project config from %s: %w", projectPath, err)
		}
		cfg = merge(cfg, overlay)
	}

	return cfg, nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

func loadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// merge overlays non-zero fields of overlay onto base.
func merge(base, overlay Config) Config {
	merged := base

	if overlay.Server.EventsURL != "" {
		merged.Server.EventsURL = overlay.Server.EventsURL
	}
	if overlay.Runtime.ProcessName != "" {
		merged.Runtime.ProcessName = overlay.Runtime.ProcessName
	}
	if len(overlay.Runtime.LaunchCommand) > 0 {
		merged.Runtime.LaunchCommand = overlay.Runtime.LaunchCommand
	}
	if overlay.Releases.StableRepo != "" {
		merged.Releases.StableRepo = overlay.Releases.StableRepo
	}
	if overlay.Releases.NightlyRepo != "" {
		merged.Releases.NightlyRepo = overlay.Releases.NightlyRepo
	}
	if overlay.Installer.StagingDir != "" {
		merged.Installer.StagingDir = overlay.Installer.StagingDir
	}
	if overlay.Installer.AssetName != "" {
		merged.Installer.AssetName = overlay.Installer.AssetName
	}
	if overlay.Logging.Level != "" {
		merged.Logging.Level = overlay.Logging.Level
	}

	return merged
}

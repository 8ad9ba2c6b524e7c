// Package config loads streamctl's layered YAML configuration: built-in
// defaults, overridden by ~/.config/streamctl/config.yaml, overridden by
// ./.streamctl/config.yaml in the working directory.
package config

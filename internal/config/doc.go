// Package config manages the expander's settings file: TOML on disk,
// dot-path access for the CLI, and filesystem watching so edits to the
// settings or mappings files take effect without a restart.
package config

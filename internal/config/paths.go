package config

import (
	"os"
	"path/filepath"
)

const appDirName = "keyreplacer"

// SettingsFile is the settings file name inside the config directory.
const SettingsFile = "settings.toml"

// MappingsFile is the mappings file name inside the config directory.
const MappingsFile = "mappings.json"

// DefaultDir returns the per-user configuration directory.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appDirName), nil
}

// SettingsPath returns the settings file path under dir.
func SettingsPath(dir string) string {
	return filepath.Join(dir, SettingsFile)
}

// MappingsPath returns the mappings file path under dir.
func MappingsPath(dir string) string {
	return filepath.Join(dir, MappingsFile)
}

// DefaultLogPath returns the log file path in the per-user cache
// directory.
func DefaultLogPath() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appDirName, "keyreplacer.log"), nil
}

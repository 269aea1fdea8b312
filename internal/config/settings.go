package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Settings holds every user-tunable knob. TOML on disk, JSON tags for
// the dot-path view used by `keyreplacer -get` and `-set`.
type Settings struct {
	// CaseSensitive controls shortcut matching.
	CaseSensitive bool `toml:"case_sensitive" json:"case_sensitive"`

	// TypingDelayMS is the pause between injected keystrokes.
	TypingDelayMS int `toml:"typing_delay_ms" json:"typing_delay_ms"`

	// BackspaceDelayMS is the pause between deleting a shortcut and
	// typing its expansion.
	BackspaceDelayMS int `toml:"backspace_delay_ms" json:"backspace_delay_ms"`

	// ExpansionDelayMS is how long injected keystrokes keep being
	// discarded after an expansion finishes.
	ExpansionDelayMS int `toml:"expansion_delay_ms" json:"expansion_delay_ms"`

	// MaxKeyLength bounds shortcut length in runes.
	MaxKeyLength int `toml:"max_key_length" json:"max_key_length"`

	// MaxValueLength bounds expansion length in runes.
	MaxValueLength int `toml:"max_value_length" json:"max_value_length"`

	// Injector selects the synthesis backend: auto, keybd, xdotool or
	// wtype.
	Injector string `toml:"injector" json:"injector"`

	// LogLevel is debug, info, warn or error.
	LogLevel string `toml:"log_level" json:"log_level"`

	// FileLogging mirrors log output into the cache directory.
	FileLogging bool `toml:"file_logging" json:"file_logging"`

	// AutoBackup snapshots the mappings file before every save.
	AutoBackup bool `toml:"auto_backup" json:"auto_backup"`

	// MaxBackupFiles bounds retained mapping backups.
	MaxBackupFiles int `toml:"max_backup_files" json:"max_backup_files"`
}

// DefaultSettings returns the settings used when no file exists yet.
func DefaultSettings() Settings {
	return Settings{
		CaseSensitive:    false,
		TypingDelayMS:    10,
		BackspaceDelayMS: 50,
		ExpansionDelayMS: 100,
		MaxKeyLength:     50,
		MaxValueLength:   5000,
		Injector:         "auto",
		LogLevel:         "info",
		FileLogging:      true,
		AutoBackup:       true,
		MaxBackupFiles:   10,
	}
}

// Validate checks ranges and enumerations.
func (s Settings) Validate() error {
	if s.TypingDelayMS < 0 || s.BackspaceDelayMS < 0 || s.ExpansionDelayMS < 0 {
		return fmt.Errorf("%w: delays must not be negative", ErrInvalidValue)
	}
	if s.MaxKeyLength < 1 {
		return fmt.Errorf("%w: max_key_length must be at least 1", ErrInvalidValue)
	}
	if s.MaxValueLength < 1 {
		return fmt.Errorf("%w: max_value_length must be at least 1", ErrInvalidValue)
	}
	if s.MaxBackupFiles < 0 {
		return fmt.Errorf("%w: max_backup_files must not be negative", ErrInvalidValue)
	}
	switch s.Injector {
	case "auto", "keybd", "xdotool", "wtype":
	default:
		return fmt.Errorf("%w: injector %q", ErrInvalidValue, s.Injector)
	}
	switch s.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalidValue, s.LogLevel)
	}
	return nil
}

// Load reads settings from path. A missing file yields defaults.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}

	s := DefaultSettings()
	if err := toml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parse settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Save writes settings to path, creating parent directories.
func Save(path string, s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

package config

import "errors"

var (
	// ErrUnknownKey is returned when a dot-path names no setting.
	ErrUnknownKey = errors.New("config: unknown setting")

	// ErrInvalidValue is returned when a value cannot be converted to
	// the setting's type or fails validation.
	ErrInvalidValue = errors.New("config: invalid value")

	// ErrWatcherClosed is returned when a closed watcher is used.
	ErrWatcherClosed = errors.New("config: watcher closed")
)

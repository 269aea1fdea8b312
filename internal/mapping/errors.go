package mapping

import "errors"

// Store errors.
var (
	// ErrEmptyShortcut indicates an empty or all-whitespace shortcut.
	ErrEmptyShortcut = errors.New("mapping: shortcut is empty")

	// ErrEmptyExpansion indicates an empty expansion text.
	ErrEmptyExpansion = errors.New("mapping: expansion is empty")

	// ErrShortcutTooLong indicates the shortcut exceeds the configured bound.
	ErrShortcutTooLong = errors.New("mapping: shortcut too long")

	// ErrExpansionTooLong indicates the expansion exceeds the configured bound.
	ErrExpansionTooLong = errors.New("mapping: expansion too long")

	// ErrShortcutWhitespace indicates the shortcut embeds whitespace or
	// control characters, which could never be typed into the window.
	ErrShortcutWhitespace = errors.New("mapping: shortcut contains whitespace or control characters")

	// ErrNotFound indicates the shortcut is not registered.
	ErrNotFound = errors.New("mapping: shortcut not found")

	// ErrInvalidFormat indicates a mappings file that is not a JSON object
	// of string values.
	ErrInvalidFormat = errors.New("mapping: invalid mappings file format")
)

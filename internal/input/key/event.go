package key

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Event represents a single key press event.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier

	// Synthetic marks a keystroke generated by the replace executor
	// rather than the physical keyboard. The listener drops synthetic
	// events before buffering.
	Synthetic bool

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// NewRuneEvent creates a key event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{
		Key:       KeyRune,
		Rune:      r,
		Modifiers: mods,
		Timestamp: time.Now(),
	}
}

// NewSpecialEvent creates a key event for a special key.
func NewSpecialEvent(key Key, mods Modifier) Event {
	return Event{
		Key:       key,
		Modifiers: mods,
		Timestamp: time.Now(),
	}
}

// NewModifierEvent creates an event for a modifier pressed on its own.
func NewModifierEvent(mods Modifier) Event {
	return Event{
		Key:       KeyNone,
		Modifiers: mods,
		Timestamp: time.Now(),
	}
}

// AsSynthetic returns a copy of the event tagged as self-generated.
func (e Event) AsSynthetic() Event {
	e.Synthetic = true
	return e
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsChar returns true if this event contributes a printable character to
// the focused application's text. Character events with Ctrl, Alt or Meta
// held do not insert text and are not chars; Shift alone is part of the
// character itself.
func (e Event) IsChar() bool {
	if !e.IsRune() || !unicode.IsPrint(e.Rune) {
		return false
	}
	return e.Modifiers&(ModCtrl|ModAlt|ModMeta) == 0
}

// IsModifierOnly returns true for a modifier key pressed with no
// accompanying key. Such events change no text.
func (e Event) IsModifierOnly() bool {
	return e.Key == KeyNone && e.Rune == 0 && e.Modifiers != ModNone
}

// IsSpecial returns true if this is a special (non-character) key.
func (e Event) IsSpecial() bool {
	return e.Key.IsSpecial()
}

// IsBackspace returns true if this is Backspace (with no modifiers).
func (e Event) IsBackspace() bool {
	return e.Key == KeyBackspace && e.Modifiers == ModNone
}

// Equals returns true if two events represent the same key press.
// Timestamps and the synthetic marker are not compared.
func (e Event) Equals(other Event) bool {
	return e.Key == other.Key &&
		e.Rune == other.Rune &&
		e.Modifiers == other.Modifiers
}

// String returns a canonical representation like "a", "Ctrl-s" or "Enter".
func (e Event) String() string {
	var parts []string

	if e.Modifiers.HasCtrl() {
		parts = append(parts, "Ctrl")
	}
	if e.Modifiers.HasAlt() {
		parts = append(parts, "Alt")
	}
	if e.Modifiers.HasMeta() {
		parts = append(parts, "Meta")
	}
	if e.Modifiers.HasShift() && !e.IsRune() {
		parts = append(parts, "Shift")
	}

	switch {
	case e.Key == KeyRune && e.Rune == ' ':
		parts = append(parts, "Space")
	case e.Key == KeyRune:
		parts = append(parts, string(e.Rune))
	case e.Key == KeyNone && e.Modifiers != ModNone:
		// Modifier-only press, already rendered above.
	default:
		parts = append(parts, e.Key.String())
	}

	return strings.Join(parts, "-")
}

// GoString implements fmt.GoStringer for debugging.
func (e Event) GoString() string {
	return fmt.Sprintf("Event{Key: %s, Rune: %q, Modifiers: %s, Synthetic: %t}",
		e.Key.String(), e.Rune, e.Modifiers.String(), e.Synthetic)
}

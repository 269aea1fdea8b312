// Package key defines the keyboard event model shared by the listener,
// the typed-text buffer, and the replace executor. Events are classified
// as printable characters, control keys, or modifier-only presses, and
// carry a synthetic marker so the listener can drop keystrokes generated
// by its own injection.
package key

package mapping

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Table is an immutable snapshot of the shortcut-to-expansion mappings.
// When case-insensitive, keys are folded at construction and lookups fold
// their input, so a single representation exists per shortcut.
type Table struct {
	entries       map[string]string
	caseSensitive bool
	maxLen        int
}

// NewTable builds a snapshot from the given entries. The input map is
// copied; the caller may keep mutating it.
func NewTable(entries map[string]string, caseSensitive bool) *Table {
	t := &Table{
		entries:       make(map[string]string, len(entries)),
		caseSensitive: caseSensitive,
	}
	for k, v := range entries {
		k = t.Fold(k)
		t.entries[k] = v
		if n := utf8.RuneCountInString(k); n > t.maxLen {
			t.maxLen = n
		}
	}
	return t
}

// EmptyTable returns a snapshot with no mappings.
func EmptyTable(caseSensitive bool) *Table {
	return NewTable(nil, caseSensitive)
}

// Fold normalizes a shortcut according to the table's case mode.
func (t *Table) Fold(s string) string {
	if t.caseSensitive {
		return s
	}
	return strings.ToLower(s)
}

// Lookup returns the expansion for a shortcut.
func (t *Table) Lookup(shortcut string) (string, bool) {
	v, ok := t.entries[t.Fold(shortcut)]
	return v, ok
}

// Len returns the number of registered shortcuts.
func (t *Table) Len() int {
	return len(t.entries)
}

// MaxShortcutLen returns the length in runes of the longest registered
// shortcut, or zero for an empty table. The typed-text window is sized
// from this.
func (t *Table) MaxShortcutLen() int {
	return t.maxLen
}

// CaseSensitive reports the table's case mode.
func (t *Table) CaseSensitive() bool {
	return t.caseSensitive
}

// Shortcuts returns the registered shortcuts in sorted order.
func (t *Table) Shortcuts() []string {
	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Entries returns a copy of the underlying map.
func (t *Table) Entries() map[string]string {
	out := make(map[string]string, len(t.entries))
	for k, v := range t.entries {
		out[k] = v
	}
	return out
}

// with returns a new table with one entry added or replaced.
func (t *Table) with(shortcut, expansion string) *Table {
	entries := t.Entries()
	entries[t.Fold(shortcut)] = expansion
	return NewTable(entries, t.caseSensitive)
}

// without returns a new table with one entry removed.
func (t *Table) without(shortcut string) *Table {
	entries := t.Entries()
	delete(entries, t.Fold(shortcut))
	return NewTable(entries, t.caseSensitive)
}

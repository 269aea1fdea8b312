// Package match decides whether the typed-text window ends in a
// registered shortcut.
//
// Matching is a pure function of the window snapshot and the mapping
// table: a shortcut matches when it is an exact trailing substring of the
// window (folded per the table's case mode) and the character immediately
// before it, if any, is not alphanumeric. The boundary rule stops "email"
// from firing inside "myemail". When several shortcuts end the window,
// the longest wins, so registering both "em" and "email" expands a typed
// "email" as "email".
package match

import (
	"unicode"

	"github.com/kumar10248/keyreplacer/internal/mapping"
)

// Result describes a successful match.
type Result struct {
	// Shortcut is the registered shortcut, in its stored (folded) form.
	Shortcut string

	// Expansion is the replacement text.
	Expansion string

	// Length is the number of runes the shortcut occupies at the end of
	// the window: the number of characters the executor must delete.
	Length int
}

// TryMatch checks the window snapshot against the table. It reports the
// longest trailing shortcut that sits on a word boundary, or ok=false.
func TryMatch(snapshot string, table *mapping.Table) (Result, bool) {
	if table == nil || table.Len() == 0 || snapshot == "" {
		return Result{}, false
	}

	window := []rune(snapshot)
	longest := table.MaxShortcutLen()
	if longest > len(window) {
		longest = len(window)
	}

	for n := longest; n >= 1; n-- {
		tail := string(window[len(window)-n:])
		expansion, ok := table.Lookup(tail)
		if !ok {
			continue
		}
		if !boundaryBefore(window, len(window)-n) {
			continue
		}
		return Result{
			Shortcut:  table.Fold(tail),
			Expansion: expansion,
			Length:    n,
		}, true
	}

	return Result{}, false
}

// boundaryBefore reports whether position i in the window starts a word:
// the window edge, or a preceding rune that is not alphanumeric.
func boundaryBefore(window []rune, i int) bool {
	if i == 0 {
		return true
	}
	prev := window[i-1]
	return !unicode.IsLetter(prev) && !unicode.IsDigit(prev)
}

// Package expand performs shortcut replacement: it deletes the typed
// shortcut with synthetic backspaces and types the expansion in its
// place, while a generation gate keeps the injected keystrokes from
// being fed back into the matcher.
package expand

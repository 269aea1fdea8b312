// Package mapping owns the shortcut-to-expansion table.
//
// The table itself is immutable: every mutation builds a fresh Table and
// installs it with a single atomic pointer swap. The listener reads the
// currently installed table per match attempt and never observes a
// half-updated state. The Store adds JSON persistence, validation,
// import/export and timestamped backups around the table, and fans out
// change notifications so the listener can resize its typed-text window.
package mapping

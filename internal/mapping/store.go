package mapping

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

// Config configures a Store.
type Config struct {
	// Path is the mappings file. Empty disables persistence.
	Path string

	// CaseSensitive controls shortcut case folding.
	CaseSensitive bool

	// MaxShortcutLen bounds shortcut length in runes.
	MaxShortcutLen int

	// MaxExpansionLen bounds expansion length in runes.
	MaxExpansionLen int

	// AutoBackup writes a timestamped copy before each save.
	AutoBackup bool

	// MaxBackups is how many backup files to keep.
	MaxBackups int
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxShortcutLen:  50,
		MaxExpansionLen: 5000,
		AutoBackup:      true,
		MaxBackups:      10,
	}
}

// Store owns the mapping table and its persistence. Reads go through an
// atomic snapshot pointer; writes are serialized, build a new table, swap
// it in, persist, then notify observers.
type Store struct {
	mu     sync.Mutex
	table  atomic.Pointer[Table]
	config Config
	notify *notifier
}

// NewStore creates a store with an empty table.
func NewStore(config Config) *Store {
	if config.MaxShortcutLen <= 0 {
		config.MaxShortcutLen = DefaultConfig().MaxShortcutLen
	}
	if config.MaxExpansionLen <= 0 {
		config.MaxExpansionLen = DefaultConfig().MaxExpansionLen
	}

	s := &Store{
		config: config,
		notify: newNotifier(),
	}
	s.table.Store(EmptyTable(config.CaseSensitive))
	return s
}

// Current returns the currently installed table snapshot.
func (s *Store) Current() *Table {
	return s.table.Load()
}

// Subscribe registers an observer for table changes.
func (s *Store) Subscribe(o Observer) *Subscription {
	return s.notify.subscribe(o)
}

// Validate checks a shortcut/expansion pair against the store's bounds
// without modifying anything.
func (s *Store) Validate(shortcut, expansion string) error {
	if strings.TrimSpace(shortcut) == "" {
		return ErrEmptyShortcut
	}
	if expansion == "" {
		return ErrEmptyExpansion
	}
	if utf8.RuneCountInString(shortcut) > s.config.MaxShortcutLen {
		return fmt.Errorf("%w: %d > %d runes", ErrShortcutTooLong,
			utf8.RuneCountInString(shortcut), s.config.MaxShortcutLen)
	}
	if utf8.RuneCountInString(expansion) > s.config.MaxExpansionLen {
		return fmt.Errorf("%w: %d > %d runes", ErrExpansionTooLong,
			utf8.RuneCountInString(expansion), s.config.MaxExpansionLen)
	}
	for _, r := range shortcut {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return ErrShortcutWhitespace
		}
	}
	return nil
}

// Add registers or updates a mapping and persists the table.
func (s *Store) Add(shortcut, expansion string) error {
	if err := s.Validate(shortcut, expansion); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.table.Load().with(shortcut, expansion)
	if err := s.saveLocked(next); err != nil {
		return err
	}
	s.table.Store(next)
	s.notify.notify(Change{Type: ChangeAdd, Shortcut: next.Fold(shortcut), Table: next})
	return nil
}

// Remove deletes a mapping and persists the table.
func (s *Store) Remove(shortcut string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.table.Load()
	if _, ok := cur.Lookup(shortcut); !ok {
		return ErrNotFound
	}

	next := cur.without(shortcut)
	if err := s.saveLocked(next); err != nil {
		return err
	}
	s.table.Store(next)
	s.notify.notify(Change{Type: ChangeRemove, Shortcut: cur.Fold(shortcut), Table: next})
	return nil
}

// Clear removes all mappings and persists the empty table.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := EmptyTable(s.config.CaseSensitive)
	if err := s.saveLocked(next); err != nil {
		return err
	}
	s.table.Store(next)
	s.notify.notify(Change{Type: ChangeReload, Table: next})
	return nil
}

// Replace installs a whole new set of mappings. Entries that fail
// validation are dropped; the number of installed entries is returned.
func (s *Store) Replace(entries map[string]string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replaceLocked(entries)
}

func (s *Store) replaceLocked(entries map[string]string) (int, error) {
	valid := make(map[string]string, len(entries))
	for k, v := range entries {
		if err := s.Validate(k, v); err != nil {
			continue
		}
		valid[k] = v
	}

	next := NewTable(valid, s.config.CaseSensitive)
	if err := s.saveLocked(next); err != nil {
		return 0, err
	}
	s.table.Store(next)
	s.notify.notify(Change{Type: ChangeReload, Table: next})
	return next.Len(), nil
}

// Load reads the mappings file and installs its contents. A missing file
// installs an empty table and is not an error.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config.Path == "" {
		return nil
	}

	data, err := os.ReadFile(s.config.Path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("mapping: read %s: %w", s.config.Path, err)
	}

	entries, err := decodeMappings(data)
	if err != nil {
		return err
	}

	valid := make(map[string]string, len(entries))
	for k, v := range entries {
		if err := s.Validate(k, v); err != nil {
			continue
		}
		valid[k] = v
	}

	next := NewTable(valid, s.config.CaseSensitive)
	s.table.Store(next)
	s.notify.notify(Change{Type: ChangeReload, Table: next})
	return nil
}

// Import merges (or replaces with) mappings from a JSON file.
// It returns the number of entries read from the file.
func (s *Store) Import(path string, merge bool) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("mapping: read %s: %w", path, err)
	}

	imported, err := decodeMappings(data)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make(map[string]string)
	if merge {
		entries = s.table.Load().Entries()
	}
	for k, v := range imported {
		entries[k] = v
	}

	if _, err := s.replaceLocked(entries); err != nil {
		return 0, err
	}
	return len(imported), nil
}

// Export writes the current mappings to a JSON file.
func (s *Store) Export(path string) error {
	data, err := encodeMappings(s.table.Load().Entries())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("mapping: write %s: %w", path, err)
	}
	return nil
}

// saveLocked persists a table to the configured path, creating a backup
// of the previous file first when enabled.
func (s *Store) saveLocked(t *Table) error {
	if s.config.Path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.config.Path), 0o755); err != nil {
		return fmt.Errorf("mapping: create dir: %w", err)
	}

	if s.config.AutoBackup {
		if err := s.backupLocked(); err != nil {
			// A failed backup should not block the save itself.
			_ = err
		}
	}

	data, err := encodeMappings(t.Entries())
	if err != nil {
		return err
	}

	tmp := s.config.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("mapping: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.config.Path); err != nil {
		return fmt.Errorf("mapping: rename %s: %w", tmp, err)
	}
	return nil
}

// backupLocked copies the current mappings file into a backups directory
// and prunes old copies.
func (s *Store) backupLocked() error {
	data, err := os.ReadFile(s.config.Path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	dir := filepath.Join(filepath.Dir(s.config.Path), "backups")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	name := fmt.Sprintf("mappings_backup_%s.json", time.Now().Format("20060102_150405"))
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return err
	}

	return s.pruneBackups(dir)
}

func (s *Store) pruneBackups(dir string) error {
	max := s.config.MaxBackups
	if max <= 0 {
		return nil
	}

	matches, err := filepath.Glob(filepath.Join(dir, "mappings_backup_*.json"))
	if err != nil {
		return err
	}
	if len(matches) <= max {
		return nil
	}

	// Timestamped names sort chronologically.
	sort.Strings(matches)
	for _, old := range matches[:len(matches)-max] {
		_ = os.Remove(old)
	}
	return nil
}

// decodeMappings parses a JSON object of string values. The raw bytes
// are validated with gjson before decoding so a corrupt file yields
// ErrInvalidFormat rather than a partial table.
func decodeMappings(data []byte) (map[string]string, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidFormat
	}

	parsed := gjson.ParseBytes(data)
	if !parsed.IsObject() {
		return nil, ErrInvalidFormat
	}

	entries := make(map[string]string)
	var bad bool
	parsed.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.String {
			bad = true
			return false
		}
		entries[key.String()] = value.String()
		return true
	})
	if bad {
		return nil, ErrInvalidFormat
	}
	return entries, nil
}

// encodeMappings renders mappings as pretty-printed JSON.
func encodeMappings(entries map[string]string) ([]byte, error) {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("mapping: encode: %w", err)
	}
	return append(data, '\n'), nil
}

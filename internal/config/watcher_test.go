package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitSignal(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestWatcherFiresOnSettingsWrite(t *testing.T) {
	dir := t.TempDir()
	path := SettingsPath(dir)
	if err := Save(path, DefaultSettings()); err != nil {
		t.Fatal(err)
	}

	fired := make(chan struct{}, 1)
	w, err := NewWatcher(dir, WatcherConfig{
		Debounce: 10 * time.Millisecond,
		OnSettings: func() {
			select {
			case fired <- struct{}{}:
			default:
			}
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	s := DefaultSettings()
	s.TypingDelayMS = 99
	if err := Save(path, s); err != nil {
		t.Fatal(err)
	}

	waitSignal(t, fired, "settings notification")
}

func TestWatcherFiresOnMappingsWrite(t *testing.T) {
	dir := t.TempDir()

	fired := make(chan struct{}, 1)
	w, err := NewWatcher(dir, WatcherConfig{
		Debounce: 10 * time.Millisecond,
		OnMappings: func() {
			select {
			case fired <- struct{}{}:
			default:
			}
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.WriteFile(MappingsPath(dir), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	waitSignal(t, fired, "mappings notification")
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()

	fired := make(chan struct{}, 1)
	w, err := NewWatcher(dir, WatcherConfig{
		Debounce:   10 * time.Millisecond,
		OnSettings: func() { fired <- struct{}{} },
		OnMappings: func() { fired <- struct{}{} },
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-fired:
		t.Error("unrelated file triggered a notification")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	path := SettingsPath(dir)

	fired := make(chan struct{}, 16)
	w, err := NewWatcher(dir, WatcherConfig{
		Debounce:   50 * time.Millisecond,
		OnSettings: func() { fired <- struct{}{} },
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("typing_delay_ms = 1\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	waitSignal(t, fired, "debounced notification")
	select {
	case <-fired:
		t.Error("burst produced more than one notification")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcherCloseTwice(t *testing.T) {
	w, err := NewWatcher(t.TempDir(), WatcherConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("second Close = %v, want ErrWatcherClosed", err)
	}
}

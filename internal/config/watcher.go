package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kumar10248/keyreplacer/internal/logging"
)

// WatcherConfig configures a Watcher.
type WatcherConfig struct {
	// Debounce collapses bursts of writes to one notification.
	// Defaults to 250ms.
	Debounce time.Duration

	// OnSettings fires after the settings file changes.
	OnSettings func()

	// OnMappings fires after the mappings file changes.
	OnMappings func()

	// Logger defaults to logging.Null.
	Logger *logging.Logger
}

// Watcher reloads configuration when the files under the config
// directory change. Editors replace files with rename dances, so it
// watches the directory rather than the files themselves.
type Watcher struct {
	fsw *fsnotify.Watcher
	cfg WatcherConfig
	log *logging.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool

	done chan struct{}
	wg   sync.WaitGroup
}

// NewWatcher watches dir and fires the configured callbacks.
func NewWatcher(dir string, cfg WatcherConfig) (*Watcher, error) {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 250 * time.Millisecond
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Null
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fsw:    fsw,
		cfg:    cfg,
		log:    cfg.Logger.WithComponent("watcher"),
		timers: make(map[string]*time.Timer),
		done:   make(chan struct{}),
	}

	w.wg.Add(1)
	go w.processLoop()

	return w, nil
}

// Close stops watching. Pending debounced notifications are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	w.closed = true
	for _, t := range w.timers {
		t.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
		return
	}

	name := filepath.Base(ev.Name)
	var fire func()
	switch name {
	case SettingsFile:
		fire = w.cfg.OnSettings
	case MappingsFile:
		fire = w.cfg.OnMappings
	default:
		return
	}
	if fire == nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if t, ok := w.timers[name]; ok {
		t.Stop()
	}
	w.timers[name] = time.AfterFunc(w.cfg.Debounce, func() {
		w.log.Debug("%s changed, reloading", name)
		fire()
	})
}

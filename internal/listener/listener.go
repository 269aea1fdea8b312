// Package listener ties the global keyboard hook to the matcher and
// the expansion executor. It owns the rolling text buffer, classifies
// incoming key events, and hands matches to a background worker so the
// hook callback never blocks on keystroke injection.
package listener

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/kumar10248/keyreplacer/internal/buffer"
	"github.com/kumar10248/keyreplacer/internal/event"
	"github.com/kumar10248/keyreplacer/internal/expand"
	"github.com/kumar10248/keyreplacer/internal/input/key"
	"github.com/kumar10248/keyreplacer/internal/logging"
	"github.com/kumar10248/keyreplacer/internal/mapping"
	"github.com/kumar10248/keyreplacer/internal/match"
	"github.com/kumar10248/keyreplacer/internal/platform"
)

// Config wires a Listener's collaborators.
type Config struct {
	// Hook delivers global key events.
	Hook platform.Hook

	// Store supplies the active mapping table.
	Store *mapping.Store

	// Executor performs replacements.
	Executor *expand.Executor

	// Bus receives expansion, status and error events. Optional.
	Bus *event.Bus

	// Logger defaults to logging.Null.
	Logger *logging.Logger

	// QueueSize bounds pending expansions. Defaults to 8.
	QueueSize int
}

type job struct {
	shortcut  string
	expansion string
	length    int
}

// Stats counts listener activity since Start.
type Stats struct {
	// Events is the number of key events received.
	Events uint64
	// Expansions is the number of completed replacements.
	Expansions uint64
	// Dropped is the number of matches discarded because an expansion
	// was already in flight.
	Dropped uint64
}

// Listener monitors keystrokes and triggers expansions.
type Listener struct {
	hook  platform.Hook
	store *mapping.Store
	exec  *expand.Executor
	bus   *event.Bus
	log   *logging.Logger

	buf       *buffer.Buffer
	queueSize int

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	jobs    chan job
	done    chan struct{}
	sub     *mapping.Subscription

	paused atomic.Bool

	events     atomic.Uint64
	expansions atomic.Uint64
	dropped    atomic.Uint64
}

// New builds a Listener from cfg. The rolling buffer is sized to the
// store's longest shortcut plus one rune of boundary context.
func New(cfg Config) (*Listener, error) {
	if cfg.Hook == nil {
		return nil, ErrMissingHook
	}
	if cfg.Store == nil {
		return nil, ErrMissingStore
	}
	if cfg.Executor == nil {
		return nil, ErrMissingExecutor
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Null
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 8
	}

	return &Listener{
		hook:      cfg.Hook,
		store:     cfg.Store,
		exec:      cfg.Executor,
		bus:       cfg.Bus,
		log:       cfg.Logger.WithComponent("listener"),
		buf:       buffer.New(bufferCapacity(cfg.Store.Current())),
		queueSize: cfg.QueueSize,
	}, nil
}

// Start installs the hook and begins monitoring. It fails fast when
// the platform refuses the hook, typically a permissions problem.
func (l *Listener) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return ErrAlreadyRunning
	}

	l.publishStatus(event.StateStarting)

	// The queue and worker must exist before the hook can fire.
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.jobs = make(chan job, l.queueSize)
	l.done = make(chan struct{})
	go l.worker(ctx, l.jobs, l.done)

	if err := l.hook.Install(l.handle); err != nil {
		if errors.Is(err, platform.ErrPermissionDenied) {
			l.log.Error("hook install denied: %v", err)
		}
		cancel()
		close(l.jobs)
		<-l.done
		return err
	}

	l.sub = l.store.Subscribe(l.onTableChange)
	l.running = true
	go l.watchHook(ctx)

	l.log.Info("monitoring started, %d shortcuts loaded", len(l.store.Current().Shortcuts()))
	l.publishStatus(event.StateRunning)
	return nil
}

// Stop uninstalls the hook and waits for the in-flight expansion, if
// any, to finish or for ctx to expire.
func (l *Listener) Stop(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.running {
		return ErrNotRunning
	}
	l.running = false

	err := l.hook.Uninstall()
	if errors.Is(err, platform.ErrHookNotInstalled) {
		// The OS already revoked the hook. Nothing left to undo.
		err = nil
	}
	l.sub.Unsubscribe()
	close(l.jobs)

	select {
	case <-l.done:
	case <-ctx.Done():
		l.cancel()
		<-l.done
	}
	l.cancel()

	l.buf.Reset()
	l.log.Info("monitoring stopped")
	l.publishStatus(event.StateStopped)
	return err
}

// Pause suspends matching without uninstalling the hook. The buffer is
// cleared so pre-pause keystrokes cannot combine with later ones.
func (l *Listener) Pause() {
	if l.paused.CompareAndSwap(false, true) {
		l.buf.Reset()
		l.log.Info("matching paused")
		l.publishStatus(event.StatePaused)
	}
}

// Resume re-enables matching after Pause.
func (l *Listener) Resume() {
	if l.paused.CompareAndSwap(true, false) {
		l.log.Info("matching resumed")
		l.publishStatus(event.StateRunning)
	}
}

// Paused reports whether matching is suspended.
func (l *Listener) Paused() bool {
	return l.paused.Load()
}

// Stats returns activity counters.
func (l *Listener) Stats() Stats {
	return Stats{
		Events:     l.events.Load(),
		Expansions: l.expansions.Load(),
		Dropped:    l.dropped.Load(),
	}
}

// watchHook reinstalls the hook once if the OS revokes it mid-run. A
// failed reinstall leaves monitoring inactive and is surfaced on the
// error topic.
func (l *Listener) watchHook(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-l.hook.Lost():
	}

	l.buf.Reset()
	l.log.Warn("keyboard hook lost, attempting reinstall")
	if err := l.hook.Install(l.handle); err != nil {
		l.log.Error("hook reinstall failed, monitoring inactive: %v", err)
		l.publishError("hook", err)
		return
	}
	l.log.Info("keyboard hook reinstalled")
	go l.watchHook(ctx)
}

// handle is the hook callback. It must return quickly; anything that
// injects keystrokes is deferred to the worker. A panic from one bad
// event resets the buffer and keeps monitoring alive.
func (l *Listener) handle(ev key.Event) {
	defer func() {
		if r := recover(); r != nil {
			l.buf.Reset()
			l.log.Error("event handling panic: %v", r)
			l.publishError("classification", fmt.Errorf("recovered: %v", r))
		}
	}()

	l.events.Add(1)

	if ev.Synthetic || l.exec.Generation().Active() {
		return
	}
	if l.paused.Load() {
		return
	}

	switch {
	case ev.IsModifierOnly():
		// Held modifiers do not change the typed text.
	case ev.Key.IsLockKey():
		// Lock toggles do not move the cursor or edit text.
	case ev.IsBackspace():
		l.buf.DeleteLast()
	case ev.IsChar():
		l.buf.Observe(ev.Rune)
		l.tryExpand()
	default:
		// Chords, navigation, escapes and unrecognized keys all mean
		// the buffer no longer mirrors the text at the cursor.
		l.buf.ObserveControl()
	}
}

func (l *Listener) tryExpand() {
	res, ok := match.TryMatch(l.buf.Snapshot(), l.store.Current())
	if !ok {
		return
	}

	select {
	case l.jobs <- job{shortcut: res.Shortcut, expansion: res.Expansion, length: res.Length}:
		l.buf.Reset()
	default:
		l.dropped.Add(1)
		l.log.Warn("expansion queue full, dropping match for %q", res.Shortcut)
	}
}

func (l *Listener) worker(ctx context.Context, jobs <-chan job, done chan<- struct{}) {
	defer close(done)
	for j := range jobs {
		if err := l.exec.Execute(ctx, j.length, j.expansion); err != nil {
			if errors.Is(err, context.Canceled) {
				continue
			}
			l.log.Error("expansion of %q failed: %v", j.shortcut, err)
			l.publishError("expansion", err)
			continue
		}
		l.expansions.Add(1)
		l.log.Debug("expanded %q (%d chars)", j.shortcut, len(j.expansion))
		if l.bus != nil {
			_ = l.bus.Publish(event.TopicExpansion, event.NewExpansionEvent(j.shortcut, j.expansion))
		}
	}
}

// onTableChange resizes the buffer when the longest shortcut changes
// and clears it on wholesale reloads.
func (l *Listener) onTableChange(c mapping.Change) {
	l.buf.Resize(bufferCapacity(c.Table))
	if c.Type == mapping.ChangeReload {
		l.buf.Reset()
	}
}

func (l *Listener) publishStatus(s event.State) {
	if l.bus != nil {
		_ = l.bus.Publish(event.TopicStatus, event.NewStatusEvent(s))
	}
}

func (l *Listener) publishError(kind string, err error) {
	if l.bus != nil {
		_ = l.bus.Publish(event.TopicError, event.NewErrorEvent(kind, err))
	}
}

// bufferCapacity leaves room for one rune before the longest shortcut
// so word boundaries stay observable.
func bufferCapacity(t *mapping.Table) int {
	n := t.MaxShortcutLen() + 1
	if n < 2 {
		n = 2
	}
	return n
}

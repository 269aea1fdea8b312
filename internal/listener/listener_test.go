package listener

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/kumar10248/keyreplacer/internal/event"
	"github.com/kumar10248/keyreplacer/internal/expand"
	"github.com/kumar10248/keyreplacer/internal/input/key"
	"github.com/kumar10248/keyreplacer/internal/mapping"
	"github.com/kumar10248/keyreplacer/internal/platform"
)

// fakeHook captures the installed callback so tests can feed events.
type fakeHook struct {
	mu           sync.Mutex
	cb           platform.Callback
	lost         chan struct{}
	installs     int
	installErr   error
	uninstallErr error
}

func newFakeHook() *fakeHook {
	return &fakeHook{lost: make(chan struct{})}
}

func (f *fakeHook) Install(cb platform.Callback) error {
	if f.installErr != nil {
		return f.installErr
	}
	f.mu.Lock()
	f.cb = cb
	f.installs++
	f.lost = make(chan struct{})
	f.mu.Unlock()
	return nil
}

func (f *fakeHook) Uninstall() error {
	f.mu.Lock()
	f.cb = nil
	err := f.uninstallErr
	f.mu.Unlock()
	return err
}

func (f *fakeHook) Lost() <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lost
}

func (f *fakeHook) dropHook() {
	f.mu.Lock()
	ch := f.lost
	f.cb = nil
	f.mu.Unlock()
	close(ch)
}

func (f *fakeHook) installCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.installs
}

func (f *fakeHook) press(ev key.Event) {
	f.mu.Lock()
	cb := f.cb
	f.mu.Unlock()
	if cb != nil {
		cb(ev)
	}
}

func (f *fakeHook) typeString(s string) {
	for _, r := range s {
		f.press(key.NewRuneEvent(r, 0))
	}
}

// recordingSynth records synthesized operations.
type recordingSynth struct {
	mu  sync.Mutex
	ops []string
}

func (r *recordingSynth) SynthesizeBackspace(n int) error {
	return r.record(fmt.Sprintf("backspace:%d", n))
}

func (r *recordingSynth) SynthesizeText(text string) error {
	return r.record("text:" + text)
}

func (r *recordingSynth) SynthesizeKey(k key.Key) error {
	return r.record("key:" + k.String())
}

func (r *recordingSynth) record(op string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, op)
	return nil
}

func (r *recordingSynth) recorded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ops...)
}

func newTestStore(t *testing.T, mappings map[string]string) *mapping.Store {
	t.Helper()
	cfg := mapping.DefaultConfig()
	cfg.Path = filepath.Join(t.TempDir(), "mappings.json")
	store := mapping.NewStore(cfg)
	for k, v := range mappings {
		if err := store.Add(k, v); err != nil {
			t.Fatalf("Add(%q): %v", k, err)
		}
	}
	return store
}

func newTestListener(t *testing.T, mappings map[string]string) (*Listener, *fakeHook, *recordingSynth) {
	t.Helper()
	hook := newFakeHook()
	synth := &recordingSynth{}
	store := newTestStore(t, mappings)

	exec, err := expand.NewExecutor(synth, nil, expand.Options{
		BackspaceDelay: time.Millisecond,
		SettleDelay:    time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}

	l, err := New(Config{
		Hook:     hook,
		Store:    store,
		Executor: exec,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := l.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = l.Stop(ctx)
	})
	return l, hook, synth
}

func waitExpansions(t *testing.T, l *Listener, want uint64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if l.Stats().Expansions >= want {
			// Let the settle window close so later events are seen.
			time.Sleep(10 * time.Millisecond)
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d expansions, stats: %+v", want, l.Stats())
}

func TestExpandsShortcutAtWordStart(t *testing.T) {
	l, hook, synth := newTestListener(t, map[string]string{"em": "me@example.com"})

	hook.typeString("em")
	waitExpansions(t, l, 1)

	want := []string{"backspace:2", "text:me@example.com"}
	got := synth.recorded()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("ops = %v, want %v", got, want)
	}
}

func TestRetypingShortcutExpandsAgain(t *testing.T) {
	l, hook, synth := newTestListener(t, map[string]string{"em": "me@example.com"})

	hook.typeString("em")
	waitExpansions(t, l, 1)
	hook.typeString("em")
	waitExpansions(t, l, 2)

	// Each pass deletes only its own shortcut and injects once.
	want := []string{
		"backspace:2", "text:me@example.com",
		"backspace:2", "text:me@example.com",
	}
	got := synth.recorded()
	if len(got) != len(want) {
		t.Fatalf("ops = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ops[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestIgnoresShortcutInsideWord(t *testing.T) {
	l, hook, synth := newTestListener(t, map[string]string{"em": "me@example.com"})

	hook.typeString("them")
	time.Sleep(20 * time.Millisecond)

	if ops := synth.recorded(); len(ops) != 0 {
		t.Errorf("no expansion expected inside a word, got %v", ops)
	}
	if n := l.Stats().Expansions; n != 0 {
		t.Errorf("Expansions = %d, want 0", n)
	}
}

func TestExpandsAfterSeparator(t *testing.T) {
	l, hook, synth := newTestListener(t, map[string]string{"sig": "Best regards"})

	hook.typeString("hello sig")
	waitExpansions(t, l, 1)

	got := synth.recorded()
	if len(got) != 2 || got[0] != "backspace:3" || got[1] != "text:Best regards" {
		t.Errorf("ops = %v", got)
	}
}

func TestPrefersLongestShortcut(t *testing.T) {
	l, hook, synth := newTestListener(t, map[string]string{
		"em":    "short",
		"email": "long",
	})

	hook.typeString("email")
	waitExpansions(t, l, 1)

	got := synth.recorded()
	if len(got) != 2 || got[0] != "backspace:5" || got[1] != "text:long" {
		t.Errorf("ops = %v, want the 5-rune shortcut to win", got)
	}
}

func TestBackspaceEditsBuffer(t *testing.T) {
	l, hook, synth := newTestListener(t, map[string]string{"em": "me@example.com"})

	// Type "ex", erase the x, finish the shortcut.
	hook.typeString("ex")
	hook.press(key.NewSpecialEvent(key.KeyBackspace, 0))
	hook.typeString("m")
	waitExpansions(t, l, 1)

	got := synth.recorded()
	if len(got) != 2 || got[0] != "backspace:2" {
		t.Errorf("ops = %v", got)
	}
}

func TestControlKeyClearsBuffer(t *testing.T) {
	l, hook, synth := newTestListener(t, map[string]string{"em": "x"})

	hook.typeString("e")
	hook.press(key.NewSpecialEvent(key.KeyLeft, 0))
	hook.typeString("m")
	time.Sleep(20 * time.Millisecond)

	if ops := synth.recorded(); len(ops) != 0 {
		t.Errorf("cursor movement should break the shortcut, got %v", ops)
	}
	if n := l.Stats().Expansions; n != 0 {
		t.Errorf("Expansions = %d, want 0", n)
	}
}

func TestModifierAndLockKeysIgnored(t *testing.T) {
	l, hook, synth := newTestListener(t, map[string]string{"em": "x"})

	hook.typeString("e")
	hook.press(key.NewModifierEvent(key.ModShift))
	hook.press(key.NewSpecialEvent(key.KeyCapsLock, 0))
	hook.typeString("m")
	waitExpansions(t, l, 1)

	got := synth.recorded()
	if len(got) != 2 || got[0] != "backspace:2" {
		t.Errorf("ops = %v, modifiers must not break the shortcut", got)
	}
}

func TestChordClearsBuffer(t *testing.T) {
	l, hook, synth := newTestListener(t, map[string]string{"em": "x"})

	hook.typeString("e")
	hook.press(key.NewRuneEvent('c', key.ModCtrl))
	hook.typeString("m")
	time.Sleep(20 * time.Millisecond)

	if ops := synth.recorded(); len(ops) != 0 {
		t.Errorf("ctrl chord should clear the buffer, got %v", ops)
	}
	_ = l
}

func TestSyntheticEventsIgnored(t *testing.T) {
	l, hook, synth := newTestListener(t, map[string]string{"em": "x"})

	hook.press(key.NewRuneEvent('e', 0).AsSynthetic())
	hook.press(key.NewRuneEvent('m', 0).AsSynthetic())
	time.Sleep(20 * time.Millisecond)

	if ops := synth.recorded(); len(ops) != 0 {
		t.Errorf("synthetic events must not trigger expansion, got %v", ops)
	}
	_ = l
}

func TestPauseAndResume(t *testing.T) {
	l, hook, synth := newTestListener(t, map[string]string{"em": "x"})

	l.Pause()
	if !l.Paused() {
		t.Fatal("Paused() = false after Pause")
	}
	hook.typeString("em")
	time.Sleep(20 * time.Millisecond)
	if ops := synth.recorded(); len(ops) != 0 {
		t.Fatalf("expansion while paused: %v", ops)
	}

	l.Resume()
	hook.typeString("em")
	waitExpansions(t, l, 1)
}

func TestStartTwice(t *testing.T) {
	l, _, _ := newTestListener(t, nil)
	if err := l.Start(); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Start = %v, want ErrAlreadyRunning", err)
	}
}

func TestStopWithoutStart(t *testing.T) {
	hook := newFakeHook()
	synth := &recordingSynth{}
	exec, err := expand.NewExecutor(synth, nil, expand.Options{
		BackspaceDelay: time.Millisecond,
		SettleDelay:    time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}
	l, err := New(Config{Hook: hook, Store: newTestStore(t, nil), Executor: exec})
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Stop(context.Background()); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Stop = %v, want ErrNotRunning", err)
	}
}

func TestStartFailsWhenHookDenied(t *testing.T) {
	hook := newFakeHook()
	hook.installErr = platform.ErrPermissionDenied
	synth := &recordingSynth{}
	exec, err := expand.NewExecutor(synth, nil, expand.Options{
		BackspaceDelay: time.Millisecond,
		SettleDelay:    time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}
	l, err := New(Config{Hook: hook, Store: newTestStore(t, nil), Executor: exec})
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Start(); !errors.Is(err, platform.ErrPermissionDenied) {
		t.Errorf("Start = %v, want ErrPermissionDenied", err)
	}
}

func TestPublishesExpansionEvents(t *testing.T) {
	hook := newFakeHook()
	synth := &recordingSynth{}
	exec, err := expand.NewExecutor(synth, nil, expand.Options{
		BackspaceDelay: time.Millisecond,
		SettleDelay:    time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}

	bus := event.NewBus(event.DefaultConfig())
	if err := bus.Start(); err != nil {
		t.Fatal(err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = bus.Stop(ctx)
	}()

	got := make(chan event.ExpansionEvent, 1)
	if _, err := bus.Subscribe(event.TopicExpansion, func(ev any) {
		if ee, ok := ev.(event.ExpansionEvent); ok {
			select {
			case got <- ee:
			default:
			}
		}
	}); err != nil {
		t.Fatal(err)
	}

	l, err := New(Config{
		Hook:     hook,
		Store:    newTestStore(t, map[string]string{"em": "me@example.com"}),
		Executor: exec,
		Bus:      bus,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Start(); err != nil {
		t.Fatal(err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = l.Stop(ctx)
	}()

	hook.typeString("em")

	select {
	case ev := <-got:
		if ev.Shortcut != "em" || ev.Expansion != "me@example.com" {
			t.Errorf("unexpected event: %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no expansion event published")
	}
}

func TestReinstallsHookAfterLoss(t *testing.T) {
	l, hook, synth := newTestListener(t, map[string]string{"em": "restored"})

	hook.dropHook()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && hook.installCount() < 2 {
		time.Sleep(time.Millisecond)
	}
	if n := hook.installCount(); n != 2 {
		t.Fatalf("installs = %d, want 2 after hook loss", n)
	}

	// The reinstalled hook keeps expanding.
	hook.typeString("em")
	waitExpansions(t, l, 1)
	got := synth.recorded()
	if len(got) != 2 || got[1] != "text:restored" {
		t.Errorf("ops = %v", got)
	}
}

func TestStopToleratesRevokedHook(t *testing.T) {
	l, hook, _ := newTestListener(t, nil)

	// An already-revoked hook reports not-installed on Uninstall.
	hook.mu.Lock()
	hook.uninstallErr = platform.ErrHookNotInstalled
	hook.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := l.Stop(ctx); err != nil {
		t.Errorf("Stop = %v, want nil when the hook is already gone", err)
	}
}

func TestTableChangeResizesBuffer(t *testing.T) {
	hook := newFakeHook()
	synth := &recordingSynth{}
	store := newTestStore(t, map[string]string{"ab": "x"})
	exec, err := expand.NewExecutor(synth, nil, expand.Options{
		BackspaceDelay: time.Millisecond,
		SettleDelay:    time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}
	l, err := New(Config{Hook: hook, Store: store, Executor: exec})
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Start(); err != nil {
		t.Fatal(err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = l.Stop(ctx)
	}()

	// A longer shortcut must grow the window enough to hold it.
	if err := store.Add("longshortcut", "expanded"); err != nil {
		t.Fatal(err)
	}
	hook.typeString("longshortcut")
	waitExpansions(t, l, 1)

	got := synth.recorded()
	if len(got) != 2 || got[0] != "backspace:12" {
		t.Errorf("ops = %v, want full-length deletion", got)
	}
}

package platform

import (
	"testing"
	"time"

	hook "github.com/robotn/gohook"

	"github.com/kumar10248/keyreplacer/internal/input/key"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name    string
		ev      hook.Event
		wantKey key.Key
		wantCh  rune
		wantMod key.Modifier
	}{
		{
			name:    "lowercase letter",
			ev:      hook.Event{Keychar: 'a'},
			wantKey: key.KeyRune,
			wantCh:  'a',
		},
		{
			name:    "shifted letter",
			ev:      hook.Event{Keychar: 'A', Mask: 1 << 0},
			wantKey: key.KeyRune,
			wantCh:  'A',
			wantMod: key.ModShift,
		},
		{
			name:    "space",
			ev:      hook.Event{Keychar: ' '},
			wantKey: key.KeyRune,
			wantCh:  ' ',
		},
		{
			name:    "backspace by rawcode",
			ev:      hook.Event{Rawcode: 0xFF08},
			wantKey: key.KeyBackspace,
		},
		{
			name:    "backspace by keychar",
			ev:      hook.Event{Keychar: 8},
			wantKey: key.KeyBackspace,
		},
		{
			name:    "enter by rawcode",
			ev:      hook.Event{Rawcode: 0xFF0D},
			wantKey: key.KeyEnter,
		},
		{
			name:    "escape",
			ev:      hook.Event{Rawcode: 0xFF1B},
			wantKey: key.KeyEscape,
		},
		{
			name:    "caps lock is a lock key not a modifier",
			ev:      hook.Event{Rawcode: 0xFFE5},
			wantKey: key.KeyCapsLock,
		},
		{
			name:    "left arrow",
			ev:      hook.Event{Rawcode: 0xFF51},
			wantKey: key.KeyLeft,
		},
		{
			name:    "function key",
			ev:      hook.Event{Rawcode: 0xFFC9},
			wantKey: key.KeyF12,
		},
		{
			name:    "bare shift press",
			ev:      hook.Event{Rawcode: 0xFFE1, Mask: 1 << 0},
			wantKey: key.KeyNone,
			wantMod: key.ModShift,
		},
		{
			name:    "super maps to meta",
			ev:      hook.Event{Rawcode: 0xFFEB},
			wantKey: key.KeyNone,
			wantMod: key.ModMeta,
		},
		{
			name:    "unknown key falls back to KeyNone",
			ev:      hook.Event{Rawcode: 0xFE03, Keychar: 0xFFFF},
			wantKey: key.KeyNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate(tt.ev)
			if got.Key != tt.wantKey {
				t.Errorf("Key = %v, want %v", got.Key, tt.wantKey)
			}
			if got.Rune != tt.wantCh {
				t.Errorf("Rune = %q, want %q", got.Rune, tt.wantCh)
			}
			if got.Modifiers != tt.wantMod {
				t.Errorf("Modifiers = %v, want %v", got.Modifiers, tt.wantMod)
			}
			if got.Synthetic {
				t.Error("translated events must not be marked synthetic")
			}
		})
	}
}

func TestTranslateModifierOnly(t *testing.T) {
	ev := translate(hook.Event{Rawcode: 0xFFE3, Mask: 1 << 1})
	if !ev.IsModifierOnly() {
		t.Errorf("bare ctrl press should be modifier-only, got %v", ev)
	}
}

func TestMaskModifiers(t *testing.T) {
	tests := []struct {
		mask uint16
		want key.Modifier
	}{
		{0, 0},
		{1 << 0, key.ModShift},
		{1 << 4, key.ModShift},
		{1 << 1, key.ModCtrl},
		{1 << 5, key.ModCtrl},
		{1 << 2, key.ModMeta},
		{1 << 3, key.ModAlt},
		{1 << 7, key.ModAlt},
		{1<<0 | 1<<1, key.ModShift | key.ModCtrl},
		{1<<5 | 1<<3, key.ModCtrl | key.ModAlt},
	}
	for _, tt := range tests {
		if got := maskModifiers(tt.mask); got != tt.want {
			t.Errorf("maskModifiers(%#x) = %v, want %v", tt.mask, got, tt.want)
		}
	}
}

func TestKeyCodesCoverPrintableASCII(t *testing.T) {
	for r := rune(' '); r <= '~'; r++ {
		if _, ok := keyCodes[r]; !ok {
			t.Errorf("no keycode entry for %q", r)
		}
	}
}

func TestKeyCodesShiftPairsShareCode(t *testing.T) {
	pairs := []struct{ lower, upper rune }{
		{'a', 'A'},
		{'z', 'Z'},
		{'1', '!'},
		{'/', '?'},
		{';', ':'},
	}
	for _, p := range pairs {
		lo, hi := keyCodes[p.lower], keyCodes[p.upper]
		if lo.code != hi.code {
			t.Errorf("%q and %q should share a keycode", p.lower, p.upper)
		}
		if lo.shift || !hi.shift {
			t.Errorf("shift flags wrong for pair %q/%q", p.lower, p.upper)
		}
	}
}

func TestPumpClearsInstalledOnLoss(t *testing.T) {
	h := newGohookHook()
	h.installed.Store(true)
	h.done = make(chan struct{})
	h.lost = make(chan struct{})
	h.stopped.Add(1)

	events := make(chan hook.Event)
	go h.pump(events, func(key.Event) {}, h.done, h.lost)

	// The stream ending without done closing means the OS dropped
	// the hook.
	close(events)

	select {
	case <-h.Lost():
	case <-time.After(time.Second):
		t.Fatal("Lost channel never closed after the event stream ended")
	}
	if h.installed.Load() {
		t.Error("installed should clear before Lost closes so Install can run again")
	}
	h.stopped.Wait()
}

func TestPumpCleanShutdownLeavesLostOpen(t *testing.T) {
	h := newGohookHook()
	h.installed.Store(true)
	h.done = make(chan struct{})
	h.lost = make(chan struct{})
	h.stopped.Add(1)

	events := make(chan hook.Event)
	go h.pump(events, func(key.Event) {}, h.done, h.lost)

	close(h.done)
	close(events)
	h.stopped.Wait()

	select {
	case <-h.lost:
		t.Error("lost must stay open when done closes first")
	default:
	}
}

func TestExecKeyNames(t *testing.T) {
	for _, k := range []key.Key{key.KeyEnter, key.KeyTab, key.KeyBackspace} {
		if _, ok := execKeyNames[k]; !ok {
			t.Errorf("no exec key name for %v", k)
		}
	}
}

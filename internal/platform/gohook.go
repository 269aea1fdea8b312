package platform

import (
	"sync"
	"sync/atomic"
	"unicode"

	hook "github.com/robotn/gohook"

	"github.com/kumar10248/keyreplacer/internal/input/key"
)

// gohookHook observes global keyboard input through robotn/gohook
// (libuiohook). The underlying hook is process-global, so at most one
// instance may be installed at a time.
type gohookHook struct {
	mu        sync.Mutex
	installed atomic.Bool
	done      chan struct{}
	lost      chan struct{}
	stopped   sync.WaitGroup
}

func newGohookHook() *gohookHook {
	return &gohookHook{lost: make(chan struct{})}
}

// Install starts the hook and pumps translated events to the callback.
func (h *gohookHook) Install(cb Callback) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.installed.Load() {
		return ErrHookInstalled
	}

	events := hook.Start()
	if events == nil {
		// libuiohook could not attach to the input subsystem. On macOS
		// this is almost always a missing accessibility grant.
		return ErrPermissionDenied
	}

	h.installed.Store(true)
	h.done = make(chan struct{})
	h.lost = make(chan struct{})
	h.stopped.Add(1)
	go h.pump(events, cb, h.done, h.lost)

	return nil
}

// pump forwards key presses until done closes or the event stream
// ends. A stream that ends on its own means the OS dropped the hook;
// the installed flag clears before lost closes so that a reinstall
// attempt triggered by Lost is not rejected.
func (h *gohookHook) pump(events <-chan hook.Event, cb Callback, done, lost chan struct{}) {
	defer h.stopped.Done()
	for {
		select {
		case <-done:
			return
		case ev, ok := <-events:
			if !ok {
				select {
				case <-done:
				default:
					h.installed.Store(false)
					close(lost)
				}
				return
			}
			if ev.Kind != hook.KeyDown && ev.Kind != hook.KeyHold {
				continue
			}
			cb(translate(ev))
		}
	}
}

// Lost is closed if the OS revokes the hook mid-run. Install resets it.
func (h *gohookHook) Lost() <-chan struct{} {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lost
}

// Uninstall stops the hook. No callbacks fire after it returns.
func (h *gohookHook) Uninstall() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.installed.Load() {
		return ErrHookNotInstalled
	}

	// done closes first so the pump cannot mistake End's channel
	// shutdown for a revoked hook.
	close(h.done)
	hook.End()
	h.stopped.Wait()
	h.installed.Store(false)
	return nil
}

// translate maps a raw gohook event onto the engine's event model.
// Unknown keys become KeyNone specials, which the listener treats as
// buffer-clearing control keys.
func translate(ev hook.Event) key.Event {
	mods := maskModifiers(ev.Mask)

	if m, ok := modifierRawcodes[ev.Rawcode]; ok {
		return key.NewModifierEvent(mods.With(m))
	}
	if k, ok := specialRawcodes[ev.Rawcode]; ok {
		return key.NewSpecialEvent(k, mods)
	}

	switch ev.Keychar {
	case 8, 127:
		return key.NewSpecialEvent(key.KeyBackspace, mods)
	case 9:
		return key.NewSpecialEvent(key.KeyTab, mods)
	case 10, 13:
		return key.NewSpecialEvent(key.KeyEnter, mods)
	case 27:
		return key.NewSpecialEvent(key.KeyEscape, mods)
	}

	if ev.Keychar != 0 && ev.Keychar != 0xFFFF && unicode.IsPrint(ev.Keychar) {
		return key.NewRuneEvent(ev.Keychar, mods)
	}

	return key.NewSpecialEvent(key.KeyNone, mods)
}

// maskModifiers decodes the libuiohook modifier mask
// (bits 0-3: left shift/ctrl/meta/alt, bits 4-7: right).
func maskModifiers(mask uint16) key.Modifier {
	var mods key.Modifier
	if mask&(1<<0|1<<4) != 0 {
		mods = mods.With(key.ModShift)
	}
	if mask&(1<<1|1<<5) != 0 {
		mods = mods.With(key.ModCtrl)
	}
	if mask&(1<<2|1<<6) != 0 {
		mods = mods.With(key.ModMeta)
	}
	if mask&(1<<3|1<<7) != 0 {
		mods = mods.With(key.ModAlt)
	}
	return mods
}

// specialRawcodes maps X11 keysyms, as gohook reports them in Rawcode on
// Linux, to engine keys. Other platforms fall through to the Keychar
// classification in translate.
var specialRawcodes = map[uint16]key.Key{
	0xFF08: key.KeyBackspace,
	0xFF09: key.KeyTab,
	0xFF0D: key.KeyEnter,
	0xFF8D: key.KeyEnter, // keypad enter
	0xFF1B: key.KeyEscape,
	0xFF50: key.KeyHome,
	0xFF51: key.KeyLeft,
	0xFF52: key.KeyUp,
	0xFF53: key.KeyRight,
	0xFF54: key.KeyDown,
	0xFF55: key.KeyPageUp,
	0xFF56: key.KeyPageDown,
	0xFF57: key.KeyEnd,
	0xFF63: key.KeyInsert,
	0xFFFF: key.KeyDelete,
	0xFF14: key.KeyScrollLock,
	0xFF7F: key.KeyNumLock,
	0xFFE5: key.KeyCapsLock,
	0xFFBE: key.KeyF1,
	0xFFBF: key.KeyF2,
	0xFFC0: key.KeyF3,
	0xFFC1: key.KeyF4,
	0xFFC2: key.KeyF5,
	0xFFC3: key.KeyF6,
	0xFFC4: key.KeyF7,
	0xFFC5: key.KeyF8,
	0xFFC6: key.KeyF9,
	0xFFC7: key.KeyF10,
	0xFFC8: key.KeyF11,
	0xFFC9: key.KeyF12,
}

// modifierRawcodes maps modifier keysyms to the modifier they assert
// when pressed alone.
var modifierRawcodes = map[uint16]key.Modifier{
	0xFFE1: key.ModShift, // Shift_L
	0xFFE2: key.ModShift, // Shift_R
	0xFFE3: key.ModCtrl,  // Control_L
	0xFFE4: key.ModCtrl,  // Control_R
	0xFFE7: key.ModMeta,  // Meta_L
	0xFFE8: key.ModMeta,  // Meta_R
	0xFFE9: key.ModAlt,   // Alt_L
	0xFFEA: key.ModAlt,   // Alt_R
	0xFFEB: key.ModMeta,  // Super_L
	0xFFEC: key.ModMeta,  // Super_R
}

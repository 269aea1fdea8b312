// Package platform hides every OS-specific keyboard concern behind two
// small interfaces: a Hook that observes global key presses and a
// Synthesizer that injects them. The expansion engine never branches on
// platform; it selects implementations here at startup.
package platform

import (
	"os/exec"
	"time"

	"github.com/kumar10248/keyreplacer/internal/input/key"
)

// Callback receives every observed key press on the hook's own goroutine.
// It must return quickly; slow work belongs on another goroutine.
type Callback func(key.Event)

// Hook observes system-wide keyboard input.
type Hook interface {
	// Install starts delivering events to the callback. It fails with
	// ErrPermissionDenied when the OS refuses global input monitoring.
	Install(cb Callback) error

	// Uninstall stops the hook. No callbacks fire after it returns.
	Uninstall() error

	// Lost is closed if the OS revokes the hook mid-run. A subsequent
	// Install arms a fresh channel.
	Lost() <-chan struct{}
}

// Synthesizer injects keystrokes into the focused application.
type Synthesizer interface {
	// SynthesizeBackspace emits n backspace key presses.
	SynthesizeBackspace(n int) error

	// SynthesizeText emits key presses reproducing text. The text
	// contains no newlines; line breaks are emitted via SynthesizeKey.
	SynthesizeText(text string) error

	// SynthesizeKey emits a single special key press, e.g. Enter.
	SynthesizeKey(k key.Key) error
}

// Injector names a synthesizer implementation.
type Injector string

const (
	// InjectorAuto picks the first working implementation.
	InjectorAuto Injector = "auto"

	// InjectorKeybd uses the uinput/SendInput/CGEvent backend.
	InjectorKeybd Injector = "keybd"

	// InjectorXdotool shells out to xdotool (X11).
	InjectorXdotool Injector = "xdotool"

	// InjectorWtype shells out to wtype (Wayland).
	InjectorWtype Injector = "wtype"
)

// Options configures synthesizer selection.
type Options struct {
	// Injector selects the synthesis backend.
	Injector Injector

	// KeyDelay is the pause between consecutive synthesized keys.
	KeyDelay time.Duration
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Injector: InjectorAuto,
		KeyDelay: 10 * time.Millisecond,
	}
}

// NewHook returns the global keyboard hook for this platform.
func NewHook() Hook {
	return newGohookHook()
}

// NewSynthesizer returns a key synthesizer per the options. With
// InjectorAuto it prefers the keybd backend and falls back to xdotool,
// then wtype, when present on PATH.
func NewSynthesizer(opts Options) (Synthesizer, error) {
	if opts.KeyDelay <= 0 {
		opts.KeyDelay = DefaultOptions().KeyDelay
	}

	switch opts.Injector {
	case InjectorKeybd:
		return newKeybdSynthesizer(opts.KeyDelay)
	case InjectorXdotool:
		return newExecSynthesizer(execToolXdotool, opts.KeyDelay)
	case InjectorWtype:
		return newExecSynthesizer(execToolWtype, opts.KeyDelay)
	case InjectorAuto, "":
		if s, err := newKeybdSynthesizer(opts.KeyDelay); err == nil {
			return s, nil
		}
		if _, err := exec.LookPath(string(execToolXdotool)); err == nil {
			return newExecSynthesizer(execToolXdotool, opts.KeyDelay)
		}
		if _, err := exec.LookPath(string(execToolWtype)); err == nil {
			return newExecSynthesizer(execToolWtype, opts.KeyDelay)
		}
		return nil, ErrNoInjector
	default:
		return nil, ErrUnknownInjector
	}
}

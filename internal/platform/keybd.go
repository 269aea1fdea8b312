package platform

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/micmonay/keybd_event"

	"github.com/kumar10248/keyreplacer/internal/input/key"
)

// keybdSynthesizer injects keystrokes through the OS input layer using
// the keybd_event backend (uinput on Linux, SendInput on Windows,
// CGEvent on macOS).
type keybdSynthesizer struct {
	kb       keybd_event.KeyBonding
	keyDelay time.Duration
}

func newKeybdSynthesizer(keyDelay time.Duration) (Synthesizer, error) {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return nil, fmt.Errorf("keybd init: %w", err)
	}

	// The uinput virtual device needs a moment before X11/Wayland
	// picks it up. Without this the first injected keys are lost.
	if runtime.GOOS == "linux" {
		time.Sleep(2 * time.Second)
	}

	return &keybdSynthesizer{kb: kb, keyDelay: keyDelay}, nil
}

func (s *keybdSynthesizer) SynthesizeBackspace(n int) error {
	for i := 0; i < n; i++ {
		if err := s.press(keybd_event.VK_BACKSPACE, false); err != nil {
			return err
		}
	}
	return nil
}

func (s *keybdSynthesizer) SynthesizeText(text string) error {
	for _, r := range text {
		stroke, ok := keyCodes[r]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnmappedRune, r)
		}
		if err := s.press(stroke.code, stroke.shift); err != nil {
			return err
		}
	}
	return nil
}

func (s *keybdSynthesizer) SynthesizeKey(k key.Key) error {
	switch k {
	case key.KeyEnter:
		return s.press(keybd_event.VK_ENTER, false)
	case key.KeyTab:
		return s.press(keybd_event.VK_TAB, false)
	case key.KeyBackspace:
		return s.press(keybd_event.VK_BACKSPACE, false)
	default:
		return fmt.Errorf("%w: %s", ErrUnmappedRune, strings.ToLower(k.String()))
	}
}

func (s *keybdSynthesizer) press(code int, shift bool) error {
	s.kb.Clear()
	s.kb.SetKeys(code)
	s.kb.HasSHIFT(shift)
	if err := s.kb.Launching(); err != nil {
		return fmt.Errorf("keybd press: %w", err)
	}
	if s.keyDelay > 0 {
		time.Sleep(s.keyDelay)
	}
	return nil
}

package expand

import "errors"

var (
	// ErrInFlight is returned when an expansion is requested while a
	// previous one is still injecting keystrokes.
	ErrInFlight = errors.New("expand: expansion already in flight")

	// ErrNilSynthesizer is returned when an Executor is built without
	// a synthesizer.
	ErrNilSynthesizer = errors.New("expand: nil synthesizer")
)

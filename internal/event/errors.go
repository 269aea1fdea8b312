package event

import "errors"

// Sentinel errors for the event bus.
var (
	// ErrBusNotRunning is returned when publishing on a stopped bus.
	ErrBusNotRunning = errors.New("event bus is not running")

	// ErrBusAlreadyRunning is returned when Start is called twice.
	ErrBusAlreadyRunning = errors.New("event bus is already running")

	// ErrQueueFull is returned when the async queue cannot accept more events.
	ErrQueueFull = errors.New("event queue is full")

	// ErrNilHandler is returned when a nil handler is subscribed.
	ErrNilHandler = errors.New("handler cannot be nil")
)

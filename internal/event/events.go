package event

import (
	"time"

	"github.com/google/uuid"
)

// Topic identifies an event stream.
type Topic string

const (
	// TopicExpansion carries ExpansionEvent values.
	TopicExpansion Topic = "expansion"

	// TopicStatus carries StatusEvent values.
	TopicStatus Topic = "status"

	// TopicError carries ErrorEvent values.
	TopicError Topic = "error"
)

// State is a coarse engine lifecycle state.
type State string

const (
	// StateStarting is reported while the hook is being installed.
	StateStarting State = "starting"

	// StateRunning is reported once keystrokes are being monitored.
	StateRunning State = "running"

	// StatePaused is reported while matching is suspended.
	StatePaused State = "paused"

	// StateStopped is reported after the hook has been uninstalled.
	StateStopped State = "stopped"
)

// ExpansionEvent records one successful replacement. It is emitted after
// the synthesized keystrokes were handed to the OS, never before.
type ExpansionEvent struct {
	// ID uniquely identifies this expansion.
	ID string

	// Shortcut is the matched shortcut in its stored form.
	Shortcut string

	// Expansion is the text that was typed.
	Expansion string

	// Timestamp is when the replacement completed.
	Timestamp time.Time
}

// NewExpansionEvent creates an expansion record with a fresh ID.
func NewExpansionEvent(shortcut, expansion string) ExpansionEvent {
	return ExpansionEvent{
		ID:        uuid.NewString(),
		Shortcut:  shortcut,
		Expansion: expansion,
		Timestamp: time.Now(),
	}
}

// StatusEvent reports an engine lifecycle transition.
type StatusEvent struct {
	// State is the new state.
	State State

	// Timestamp is when the transition happened.
	Timestamp time.Time
}

// NewStatusEvent creates a status event for the given state.
func NewStatusEvent(state State) StatusEvent {
	return StatusEvent{State: state, Timestamp: time.Now()}
}

// ErrorEvent reports a non-fatal engine error.
type ErrorEvent struct {
	// Kind names the error category, e.g. "synthesis" or "classification".
	Kind string

	// Err is the underlying error.
	Err error

	// Timestamp is when the error occurred.
	Timestamp time.Time
}

// NewErrorEvent creates an error event.
func NewErrorEvent(kind string, err error) ErrorEvent {
	return ErrorEvent{Kind: kind, Err: err, Timestamp: time.Now()}
}

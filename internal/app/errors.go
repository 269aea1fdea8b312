// Package app assembles the expander: configuration, mapping store,
// platform hook and synthesizer, listener and event bus, built in
// dependency order and torn down in reverse.
package app

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyRunning indicates the application is already running.
	ErrAlreadyRunning = errors.New("application already running")

	// ErrShutdownTimeout indicates components did not stop within the
	// shutdown deadline.
	ErrShutdownTimeout = errors.New("shutdown timed out")
)

// InitError reports which component failed to initialize.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("init %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

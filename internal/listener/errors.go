package listener

import "errors"

var (
	// ErrAlreadyRunning is returned when Start is called twice.
	ErrAlreadyRunning = errors.New("listener: already running")

	// ErrNotRunning is returned when Stop is called before Start.
	ErrNotRunning = errors.New("listener: not running")

	// ErrMissingHook is returned when no hook is configured.
	ErrMissingHook = errors.New("listener: missing hook")

	// ErrMissingStore is returned when no mapping store is configured.
	ErrMissingStore = errors.New("listener: missing mapping store")

	// ErrMissingExecutor is returned when no executor is configured.
	ErrMissingExecutor = errors.New("listener: missing executor")
)

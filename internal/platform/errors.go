package platform

import "errors"

// Platform errors.
var (
	// ErrPermissionDenied indicates the OS refused global input
	// monitoring (missing accessibility or input-monitoring grant).
	ErrPermissionDenied = errors.New("platform: input monitoring permission denied")

	// ErrHookInstalled indicates Install was called on an active hook.
	ErrHookInstalled = errors.New("platform: hook already installed")

	// ErrHookNotInstalled indicates Uninstall was called with no hook.
	ErrHookNotInstalled = errors.New("platform: hook not installed")

	// ErrNoInjector indicates no synthesis backend is available.
	ErrNoInjector = errors.New("platform: no key synthesis backend available")

	// ErrUnknownInjector indicates an unrecognized injector name.
	ErrUnknownInjector = errors.New("platform: unknown injector")

	// ErrUnmappedRune indicates a character with no key code mapping.
	ErrUnmappedRune = errors.New("platform: no key code for character")
)

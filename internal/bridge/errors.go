package bridge

import "errors"

// Domain-specific errors for bridge operations.
var (
	// ErrEnumerationFailed is returned when startup device enumeration
	// fails. This is fatal: the bridge must not start the session with
	// partial device state silently assumed complete.
	ErrEnumerationFailed = errors.New("bridge: startup enumeration failed")

	// ErrSessionStartFailed is returned when the bridge session cannot
	// be started after enumeration completed.
	ErrSessionStartFailed = errors.New("bridge: session start failed")

	// ErrAlreadyRunning is returned when Run is called on a controller
	// that has already been started.
	ErrAlreadyRunning = errors.New("bridge: controller already running")

	// ErrNoCommandHandler is returned when a node receives a command
	// before an adapter installed its handler.
	ErrNoCommandHandler = errors.New("bridge: node has no command handler")
)

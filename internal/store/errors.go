package store

import "errors"

// Domain-specific errors for namespaced store operations.
var (
	// ErrInvalidKey is returned when a namespaced key cannot be built:
	// empty key, empty context list, or a context segment that is empty
	// or contains the separator.
	ErrInvalidKey = errors.New("store: invalid key")
)

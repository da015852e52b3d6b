package store

import "context"

// ScalarStore is the flat string key/value layer beneath the namespaced
// store. This abstraction allows for different implementations (SQLite,
// mock, etc.) and enables unit testing without database dependencies.
type ScalarStore interface {
	// GetValue retrieves the raw value for a key.
	// found is false when the key does not exist; that is not an error.
	GetValue(ctx context.Context, key string) (value string, found bool, err error)

	// SetValue writes the raw value for a key, creating or replacing it.
	SetValue(ctx context.Context, key, value string) error

	// DeleteValue removes a key. Deleting a missing key is a no-op.
	DeleteValue(ctx context.Context, key string) error
}

// Package store provides namespaced key/value persistence for bridge state.
//
// Keys are composed from a list of context segments plus a final key name,
// joined with a "." separator: BuildKey(["bridge","enrollment"], "d1")
// yields "bridge.enrollment.d1". Malformed keys are rejected with
// ErrInvalidKey before any scalar access happens; a malformed key is a
// programming error, not a runtime condition.
//
// Values are JSON-serialized onto an underlying ScalarStore, so callers
// work with typed Go values while the scalar layer only ever sees strings.
// A missing key is reported as an explicit absent result (found == false),
// never as a zero value.
//
// The store performs no locking of its own. Callers that share device
// state serialize access per device at a higher level.
package store

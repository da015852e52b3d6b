package platform

import "errors"

// Domain-specific errors for platform API operations.
var (
	// ErrRequestTimeout is returned when the platform does not respond
	// within the configured timeout.
	ErrRequestTimeout = errors.New("platform: request timed out")

	// ErrRequestFailed is returned when the platform responds with an
	// error for a request.
	ErrRequestFailed = errors.New("platform: request failed")

	// ErrAttachmentMutation is returned when the platform rejects an
	// attachment-list mutation. Enrollment treats this as recoverable
	// and retries on the next observation.
	ErrAttachmentMutation = errors.New("platform: attachment mutation failed")

	// ErrAlreadyListening is returned when Listen is called twice.
	ErrAlreadyListening = errors.New("platform: already listening")
)

package pipeline

import "errors"

var (
	// ErrAccessDenied is returned when a gated export or extension carries
	// an invalid signature.
	ErrAccessDenied = errors.New("access denied: signature verification failed")

	// ErrEmptyRequest is returned by Validate for empty request text.
	ErrEmptyRequest = errors.New("request text must not be empty")
)

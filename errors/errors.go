package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidUsername = fmt.Errorf("username is required")
	ErrEmptyContent    = fmt.Errorf("message content cannot be empty")
	ErrAlreadyJoined   = fmt.Errorf("connection already joined")
	ErrNotJoined       = fmt.Errorf("connection has not joined")
	ErrPersistence     = fmt.Errorf("persistence failure")
	ErrWorkerPanic     = fmt.Errorf("worker panic")
)

// Kind maps a coordinator error to the wire-level error kind reported to
// the origin connection. Unknown errors are reported as internal so a
// gateway failure never leaks storage details to clients.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidUsername):
		return "invalid_username"
	case errors.Is(err, ErrEmptyContent):
		return "empty_content"
	case errors.Is(err, ErrAlreadyJoined):
		return "already_joined"
	case errors.Is(err, ErrNotJoined):
		return "not_joined"
	case errors.Is(err, ErrPersistence):
		return "persistence_failure"
	default:
		return "internal"
	}
}

package client

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated is returned when an operation requires a session.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrSubmissionInFlight rejects a second submit while one is pending.
	ErrSubmissionInFlight = errors.New("a submission is already in flight")
	// ErrTitleTooShort is the local validation failure; it fires before any
	// network call is made.
	ErrTitleTooShort = errors.New("idea text must be at least 10 characters")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

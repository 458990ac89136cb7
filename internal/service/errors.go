package service

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated is returned when an operation requires a session
// token and none is present. No network call is made in that case.
var ErrUnauthenticated = errors.New("not logged in")

// ErrNotFound is returned when the server reports the target task
// does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError reports a client-side precondition failure.
// No network call is made.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// AuthenticationError reports that the remote authority rejected
// the supplied credentials. Reason carries the server's detail
// ("unknown email", "wrong password") when it disambiguates, and is
// empty otherwise.
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string {
	if e.Reason == "" {
		return "authentication failed"
	}
	return "authentication failed: " + e.Reason
}

// ConflictError reports a registration attempt with an email that is
// already registered.
type ConflictError struct {
	Email string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// NetworkError reports a transport-level failure or a non-2xx response
// not otherwise classified. StatusCode is zero when the call never
// produced a response.
type NetworkError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
}

func (e *NetworkError) Unwrap() error { return e.Err }

package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/mvc/core/response"
)

var (
	// ErrAuthenticationRequired aborts actions that need a user in session.
	ErrAuthenticationRequired = response.NewHTTPError(http.StatusForbidden, "Authentication required")
	// ErrAuthorization aborts actions reserved to admin users.
	ErrAuthorization = response.NewHTTPError(http.StatusUnauthorized, "Page outside of scope")

	// ErrNotFound is the base of every lookup failure.
	ErrNotFound = errors.New("not found")
	// ErrControllerNotFound is returned when no controller is registered for a path.
	ErrControllerNotFound = fmt.Errorf("controller %w", ErrNotFound)
	// ErrActionNotFound is returned when a controller has no such action.
	ErrActionNotFound = fmt.Errorf("action %w", ErrNotFound)

	// ErrDuplicatePath is returned when two controllers register the same path.
	ErrDuplicatePath = errors.New("controller path already registered")
	// ErrNotAccessible is returned by dev-only actions outside development mode.
	ErrNotAccessible = errors.New("not accessible")
	// ErrNoSessions is returned when sessions are used but not configured.
	ErrNoSessions = errors.New("sessions are not configured")
	// ErrNoRememberMe is returned when remember-me is used but not configured.
	ErrNoRememberMe = errors.New("remember-me is not configured")
	// ErrNoAppCookie is returned when the application cookie is used but not configured.
	ErrNoAppCookie = errors.New("application cookie is not configured")
	// ErrPanic wraps a panic recovered from an async action body.
	ErrPanic = errors.New("action panicked")
)

// AsyncActionError records a failure contained inside an async action.
// It is logged; the client receives its message in the envelope.
type AsyncActionError struct {
	Controller string
	Action     string
	Err        error
}

// Error implements the error interface.
func (e *AsyncActionError) Error() string {
	return fmt.Sprintf("async action %s.%s: %v", e.Controller, e.Action, e.Err)
}

// Unwrap returns the underlying error.
func (e *AsyncActionError) Unwrap() error {
	return e.Err
}

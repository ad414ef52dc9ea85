package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Common client errors with proper types for error handling

var (
	// ErrNotFound indicates a requested resource or route was not found
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates a missing, expired or rejected bearer token
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidInput indicates input rejected locally or by the API
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict indicates a conflict with existing data
	ErrConflict = errors.New("conflict")

	// ErrInternal indicates a server-side failure
	ErrInternal = errors.New("internal error")

	// ErrNetwork indicates the API could not be reached
	ErrNetwork = errors.New("network error")

	// ErrBusy indicates an action on the same resource is still in flight
	ErrBusy = errors.New("request already in progress")
)

// APIError is a non-success response from the InkSpire API.
type APIError struct {
	Operation string
	Status    int
	Message   string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, strings.ToLower(http.StatusText(e.Status)))
}

// Unwrap maps the HTTP status onto the sentinel errors
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status == http.StatusConflict:
		return ErrConflict
	case e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity:
		return ErrInvalidInput
	case e.Status >= 500:
		return ErrInternal
	default:
		return nil
	}
}

// NotFoundError creates a not found error with context
func NotFoundError(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}

// InvalidInputError creates an invalid input error with context
func InvalidInputError(field, reason string) error {
	return fmt.Errorf("%s: %s: %w", field, reason, ErrInvalidInput)
}

// NetworkError wraps a transport failure
func NetworkError(operation string, err error) error {
	return fmt.Errorf("%s: %w: %v", operation, ErrNetwork, err)
}

// UserMessage picks the text shown to the user for err.
// API errors carry the server message when it sent one; otherwise, and
// for network failures, the fallback is used.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fallback
	}
	if errors.Is(err, ErrNetwork) {
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}

package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNetworkError indicates the registry could not be reached or answered with a non-2xx status
	ErrNetworkError = errors.New("network error")
	// ErrUnauthorized indicates the registry rejected the credentials
	ErrUnauthorized = errors.New("authentication failed")
	// ErrNotFound indicates repository, tag or blob not found
	ErrNotFound = errors.New("repository, tag or blob not found")
	// ErrMissingData indicates a response lacks an expected field
	ErrMissingData = errors.New("missing data in registry response")
	// ErrInvalidHostname indicates a registry hostname without scheme or host
	ErrInvalidHostname = errors.New("invalid registry hostname")
)

// APIError represents a non-2xx answer from the registry
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d) at %s: %s", e.StatusCode, e.Endpoint, e.Message)
}

// Unwrap makes every APIError match ErrNetworkError, and the status specific
// sentinels where one applies.
func (e *APIError) Unwrap() []error {
	errs := []error{ErrNetworkError}
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		errs = append(errs, ErrUnauthorized)
	case http.StatusNotFound:
		errs = append(errs, ErrNotFound)
	}
	return errs
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Message:    message,
		Endpoint:   endpoint,
	}
}

// MissingDataError reports a response field that was absent or unusable
type MissingDataError struct {
	Field  string
	Reason string
}

func (e *MissingDataError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %s", ErrMissingData, e.Field)
	}
	return fmt.Sprintf("%s: %s (%s)", ErrMissingData, e.Field, e.Reason)
}

func (e *MissingDataError) Unwrap() error {
	return ErrMissingData
}

func missing(field string) error {
	return &MissingDataError{Field: field}
}

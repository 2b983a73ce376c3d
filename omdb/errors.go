package omdb

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid omdb configuration")
	// ErrEmptyTitle is returned when asked to look up a blank title
	ErrEmptyTitle = errors.New("title is required")
	// ErrTransport indicates the request could not be completed or its body decoded
	ErrTransport = errors.New("omdb request failed")
)

// APIError is a lookup the service answered but did not satisfy, either with
// a non-200 status or with a "Response": "False" body.
type APIError struct {
	Title      string
	StatusCode int
	Message    string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("omdb lookup for %q failed: status %d", e.Title, e.StatusCode)
	}
	return fmt.Sprintf("omdb lookup for %q failed: status %d: %s", e.Title, e.StatusCode, e.Message)
}

// IsNotFound reports whether the service had no movie for the title.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusOK || e.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether the API key was rejected.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

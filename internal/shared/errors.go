package shared

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed = fmt.Errorf("authentication failed")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")

	// Sync errors
	ErrTransport    = fmt.Errorf("transport error")
	ErrExtraction   = fmt.Errorf("extraction error")
	ErrNameNotFound = fmt.Errorf("%w: playlist name not found", ErrExtraction)
	ErrEmptyResult  = fmt.Errorf("%w: no tracks found", ErrExtraction)
	ErrValidation   = fmt.Errorf("validation error")
	ErrActionFailed = fmt.Errorf("action failed")
	ErrNotFound     = fmt.Errorf("not found")
)

// HTTPError describes a non-2xx response from a remote endpoint.
//
// It matches [ErrTransport] with [errors.Is].
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *HTTPError) Unwrap() error { return ErrTransport }

// StatusCode returns the HTTP status carried by err, or 0 when err is not an [HTTPError].
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

// Truncate shortens s to at most n bytes for log and error output.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

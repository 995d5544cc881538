package bakeryapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// These constants mirror domain error codes so handlers map them to HTTP statuses.
const (
	codeInvalid     = "invalid"
	codeNotFound    = "not_found"
	codeUnavailable = "unavailable"
)

// NetworkError is a transport failure: the request never produced an HTTP response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request ran out of time.
func (e *NetworkError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// ErrorCode returns the error code for HTTP status mapping.
func (e *NetworkError) ErrorCode() string {
	return codeUnavailable
}

// ErrorMessage returns the user-facing message.
func (e *NetworkError) ErrorMessage() string {
	if e.Timeout() {
		return "The bakery took too long to respond. Please try again."
	}
	return "Could not reach the bakery. Please check your connection and try again."
}

// HTTPStatusError is a non-2xx response from the backend.
type HTTPStatusError struct {
	Op         string
	StatusCode int
	// Detail is the "detail" field of the JSON error body, if the backend sent one.
	Detail string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message())
}

// Message is the human-readable failure: the backend's detail when present,
// otherwise a status-derived fallback.
func (e *HTTPStatusError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

// ErrorCode returns the error code for HTTP status mapping.
func (e *HTTPStatusError) ErrorCode() string {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return codeNotFound
	case e.StatusCode >= 400 && e.StatusCode < 500:
		return codeInvalid
	default:
		return codeUnavailable
	}
}

// ErrorMessage returns the user-facing message.
func (e *HTTPStatusError) ErrorMessage() string {
	return e.Message()
}

// StatusCode returns the HTTP status carried by err, or 0 if err is not an HTTPStatusError.
func StatusCode(err error) int {
	var se *HTTPStatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

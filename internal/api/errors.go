package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable is returned while the circuit breaker rejects calls.
	ErrUnavailable = errors.New("backend unavailable")
	// ErrUnauthorized matches an *Error carrying HTTP 401.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound matches an *Error carrying HTTP 404.
	ErrNotFound = errors.New("not found")
	// ErrMalformedResponse is returned when a 2xx body is not valid JSON.
	ErrMalformedResponse = errors.New("malformed response body")
)

// Error is a non-2xx backend response.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

func defaultMessage(status int) string {
	return fmt.Sprintf("Request failed with status %d", status)
}

// StatusOf returns the HTTP status carried by err, or 0 when err did not
// come from a backend response.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

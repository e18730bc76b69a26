package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinels matched by APIError.Is.
var (
	ErrNotFound  = errors.New("theme not found")
	ErrForbidden = errors.New("operation not allowed")
	ErrInvalid   = errors.New("invalid request")
)

// Problem is an RFC 7807 problem body as returned by the Theme API.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// APIError is returned for any non-2xx response.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Problem Problem
}

func (e *APIError) Error() string {
	msg := e.Problem.Detail
	if msg == "" {
		msg = e.Problem.Title
	}
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("theme API %s %s returned %d: %s", e.Method, e.Path, e.Status, msg)
}

// Is maps status codes onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrInvalid:
		return e.Status == http.StatusBadRequest
	}
	return false
}

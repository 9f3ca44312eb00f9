package client

import (
	"errors"
	"fmt"
)

// Client errors
var (
	// ErrUnauthenticated means the session cannot be recovered: there is no
	// refresh token, or the refresh attempt itself was rejected. The caller
	// must log in again.
	ErrUnauthenticated = errors.New("session expired, login required")

	// ErrNoBaseURL means the client was built without a server address
	ErrNoBaseURL = errors.New("server base URL is required")
)

// APIError represents a non-2xx response from the server
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("server returned %d", e.StatusCode)
}

// IsNotFound reports whether err is a 404 API error
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}

// IsBadRequest reports whether err is a 400 API error
func IsBadRequest(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 400
}

package api

import (
	"errors"
	"fmt"
)

// AuthenticationRequiredErr is returned before any network call when a
// protected operation finds no access token in storage.
var AuthenticationRequiredErr = errors.New("Authentication required")

// APIError carries the server-supplied message of a non-2xx response.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return "API request failed"
	}
	return e.Message
}

// ValidationError reports a request the client rejected before sending, such
// as a refresh attempt with no stored refresh token.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NetworkError wraps a transport-level failure from the HTTP client.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

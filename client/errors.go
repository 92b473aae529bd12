package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ValidationError is raised locally, before any network call: a rejected
// file, a missing required field, an unparseable number.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

// AuthError covers rejected credentials and invalid or expired tokens.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// NetworkError wraps transport failures that happened before a response.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "request failed: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError is any other non-2xx response, carrying the server's message.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// errorFromResponse maps a non-2xx response to a typed error, pulling the
// user-facing message out of the problem+json body when present.
func errorFromResponse(res *http.Response) error {
	message := extractDetail(res.Body)
	if message == "" {
		message = http.StatusText(res.StatusCode)
	}

	switch res.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{Message: message}
	case http.StatusNotFound:
		return &NotFoundError{Message: message}
	default:
		return &ServerError{StatusCode: res.StatusCode, Message: message}
	}
}

func extractDetail(body io.Reader) string {
	var problem struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(body).Decode(&problem); err != nil {
		return ""
	}
	if problem.Detail != "" {
		return problem.Detail
	}
	return problem.Title
}

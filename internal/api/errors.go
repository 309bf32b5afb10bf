package api

import (
	"encoding/json"
	"fmt"
)

// ErrMalformedPayload indicates the server returned a body that does
// not conform to the endpoint's contract (including an empty prompt
// sequence). Not retryable: the payload will not improve on a retry.
type ErrMalformedPayload struct {
	Body json.RawMessage
	Err  error
}

func (e *ErrMalformedPayload) Error() string {
	return fmt.Sprintf("malformed payload: %v", e.Err)
}

func (e *ErrMalformedPayload) Unwrap() error { return e.Err }

// ErrUnauthorized indicates the request was rejected with 401/403.
// Not retryable: the token will not improve on a retry.
type ErrUnauthorized struct {
	StatusCode int
}

func (e *ErrUnauthorized) Error() string {
	return fmt.Sprintf("unauthorized (HTTP %d)", e.StatusCode)
}

// ErrServer indicates a non-2xx response other than an auth failure.
// Treated as transient and retryable.
type ErrServer struct {
	StatusCode int
	Body       string
}

func (e *ErrServer) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("server error (HTTP %d): %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("server error (HTTP %d)", e.StatusCode)
}

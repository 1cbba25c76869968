package monzo

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// TransportError wraps a failure to complete the HTTP round trip (DNS,
// connection refused, timeouts). It is never retried by the client.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("monzo: %s: transport failure: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError is returned when a resource endpoint answers with a non-2xx
// status. Body always holds the raw response; Code and Message are filled
// when the body is a Monzo error envelope.
type APIError struct {
	Op         string
	StatusCode int
	Body       []byte
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" || e.Message != "" {
		return fmt.Sprintf("monzo: %s: api error (status %d): %s - %s", e.Op, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("monzo: %s: api error (status %d)", e.Op, e.StatusCode)
}

// AuthError is returned when the token endpoint answers with a non-2xx
// status. The body is kept verbatim and never parsed as a token.
type AuthError struct {
	StatusCode int
	Body       []byte
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("monzo: authorization failed (status %d): %s", e.StatusCode, string(e.Body))
}

// DecodeError is returned when a 2xx response body cannot be decoded.
type DecodeError struct {
	Op   string
	Body []byte
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("monzo: %s: failed to decode response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsUnauthorized reports whether err is a 401 from either endpoint family.
func IsUnauthorized(err error) bool {
	return statusCode(err) == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	return statusCode(err) == http.StatusNotFound
}

func statusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.StatusCode
	}
	return 0
}

func newAPIError(op string, status int, body []byte) *APIError {
	apiErr := &APIError{Op: op, StatusCode: status, Body: body}

	var envelope struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		apiErr.Code = envelope.Code
		apiErr.Message = envelope.Message
	}
	return apiErr
}

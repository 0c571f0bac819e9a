package spotify

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/desertthunder/sona/internal/shared"
)

var (
	// ErrNoAccessToken is returned when a request is attempted without a bearer token.
	ErrNoAccessToken = errors.New("No access token available") //nolint:staticcheck // user-facing message

	// ErrParse matches every [*ParseError].
	ErrParse = errors.New("parse error")

	// ErrUnknownEndpoint is returned by [Client.Call] for names missing from the catalog.
	ErrUnknownEndpoint = errors.New("unknown endpoint")
)

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Status     string // HTTP status text, e.g. "Not Found"
	Message    string // envelope message, or Status when the body carried none
	Reason     string // player error reason such as "NO_ACTIVE_DEVICE", when sent
}

func (e *APIError) Error() string {
	return e.Message
}

// Is lets callers match API errors against the shared sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case shared.ErrAPIRequest:
		return true
	case shared.ErrNotAuthenticated:
		return e.StatusCode == http.StatusUnauthorized
	case shared.ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	case shared.ErrServiceUnavailable:
		switch e.StatusCode {
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
	}
	return false
}

// ParseError is a 2xx response whose body could not be decoded as JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// newAPIError builds an [APIError] from a failed response body.
//
// Recognises the Web API envelope {"error": {"status", "message", "reason"}} and the accounts
// envelope {"error": "invalid_grant", "error_description": "..."}.
func newAPIError(statusCode int, body []byte) *APIError {
	status := http.StatusText(statusCode)
	if status == "" {
		status = fmt.Sprintf("status %d", statusCode)
	}

	apiErr := &APIError{StatusCode: statusCode, Status: status, Message: status}

	var envelope struct {
		Error       json.RawMessage `json:"error"`
		Description string          `json:"error_description"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Error) == 0 {
		return apiErr
	}

	var detail struct {
		Message string `json:"message"`
		Reason  string `json:"reason"`
	}
	if err := json.Unmarshal(envelope.Error, &detail); err == nil {
		if detail.Message != "" {
			apiErr.Message = detail.Message
		}
		apiErr.Reason = detail.Reason
		return apiErr
	}

	var code string
	if err := json.Unmarshal(envelope.Error, &code); err == nil && code != "" {
		apiErr.Reason = code
		if envelope.Description != "" {
			apiErr.Message = envelope.Description
		} else {
			apiErr.Message = code
		}
	}

	return apiErr
}

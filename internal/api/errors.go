package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Error is a non-2xx response from the service. Detail is the service's
// "detail" message, or the HTTP status text when the body has none.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	return e.Detail
}

// ErrInvalidResponse indicates a 2xx response whose body does not match
// the expected payload.
type ErrInvalidResponse struct {
	Endpoint string
	Body     json.RawMessage
	Err      error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid response from %s: %v", e.Endpoint, e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrUnavailable indicates the request never produced an HTTP response.
type ErrUnavailable struct {
	Endpoint string
	Err      error
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("service unavailable (%s): %v", e.Endpoint, e.Err)
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// newError builds an *Error from a failed response body.
func newError(status int, body []byte) *Error {
	return &Error{StatusCode: status, Detail: detailMessage(status, body)}
}

// detailMessage extracts {"detail": "..."} from body. Structured details are
// flattened to their JSON text. Anything else falls back to the status text.
func detailMessage(status int, body []byte) string {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && len(er.Detail) > 0 && string(er.Detail) != "null" {
		var s string
		if err := json.Unmarshal(er.Detail, &s); err == nil {
			if s != "" {
				return s
			}
		} else {
			return strings.TrimSpace(string(er.Detail))
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", status)
}

package apiclient

import (
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-jobportal-client/apimodel"
	"github.com/jrsteele09/go-jobportal-client/internal/errors"
)

// APIError is returned for every response with status 400 or above
type APIError struct {
	StatusCode int    // HTTP status
	Message    string // Backend-provided message, verbatim
	Err        error  // Why a 401 could not be recovered, if it was tried
}

func newAPIError(resp *Response, cause error) *APIError {
	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    apimodel.ErrorMessage(resp.Body),
		Err:        cause,
	}
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("api error %d: %s: %v", e.StatusCode, msg, e.Err)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, msg)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is matches errors.ErrUnauthorized for 401 responses
func (e *APIError) Is(target error) bool {
	return target == errors.ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// ErrorMessage returns the backend's message carried by err, or "" if there is none
func ErrorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not an APIError
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

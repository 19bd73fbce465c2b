package apimodel

import (
	"encoding/json"
	"strings"
)

// ErrorResponse is the backend's error payload. Business-rule failures (validation,
// duplicate application, bad credentials) arrive here and are relayed verbatim.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ErrorMessage extracts the human-readable message from an error body, preferring "error"
// over "message". It returns "" when the body is not a recognisable error payload.
func ErrorMessage(body []byte) string {
	var er ErrorResponse
	if err := json.Unmarshal(body, &er); err != nil {
		return ""
	}
	if msg := strings.TrimSpace(er.Error); msg != "" {
		return msg
	}
	return strings.TrimSpace(er.Message)
}

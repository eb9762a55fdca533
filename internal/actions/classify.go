package actions

import (
	"encoding/json"
	"fmt"
)

// ErrorKind separates rejections explained by the backend from everything else.
type ErrorKind int

const (
	// KindBusiness is a rejection carrying a human readable reason.
	KindBusiness ErrorKind = iota + 1
	// KindGeneric covers malformed error responses and transport failures.
	KindGeneric
)

// APIError is the classified failure of a call.
type APIError struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Kind == KindBusiness {
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
	}
	if e.Status == 0 {
		return "request failed"
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// Classify turns a non-success response into an APIError. A JSON object body with a
// non-empty string "message" is a business error, anything else is generic.
func Classify(status int, body []byte) *APIError {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return &APIError{Kind: KindGeneric, Status: status}
	}
	raw, ok := payload["message"]
	if !ok {
		return &APIError{Kind: KindGeneric, Status: status}
	}
	var msg string
	if err := json.Unmarshal(raw, &msg); err != nil || msg == "" {
		return &APIError{Kind: KindGeneric, Status: status}
	}
	return &APIError{Kind: KindBusiness, Status: status, Message: msg}
}

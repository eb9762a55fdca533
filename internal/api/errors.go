package api

import (
	"fmt"
	"net/http"
)

// StatusError is an error answered by the console server itself rather than the backend.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("%d %s: %s", e.Code, http.StatusText(e.Code), e.Message)
}

var (
	errTooManyRequests  = &StatusError{Code: http.StatusTooManyRequests, Message: "too many requests, try again shortly"}
	errMethodNotAllowed = &StatusError{Code: http.StatusMethodNotAllowed}

	// No "message" field: the console treats an unreachable backend as a generic failure.
	errBadGateway = &StatusError{Code: http.StatusBadGateway}
)

// write answers with the JSON error shape the console action layer understands.
func (e *StatusError) write(w http.ResponseWriter) {
	if e.Message == "" {
		writeJSON(w, e.Code, map[string]string{"error": http.StatusText(e.Code)})
		return
	}
	writeJSON(w, e.Code, map[string]string{"message": e.Message})
}

package actions

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Severity of a user notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is the value shown to the user after a call (the console's snackbar).
type Notification struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message,omitempty"`
	IntlID   string   `json:"intlId,omitempty"`
}

// Navigation tells the caller where to go after a successful call.
type Navigation struct {
	Route string `json:"route"`
	State any    `json:"state,omitempty"`
}

// Outcome is the terminal state of a call.
type Outcome int

const (
	OutcomeSuccess Outcome = iota + 1
	OutcomeBusinessFailure
	OutcomeGenericFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeBusinessFailure:
		return "business-failure"
	case OutcomeGenericFailure:
		return "generic-failure"
	default:
		return "pending"
	}
}

// ErrNoBody is returned by Result.Decode when the call produced no JSON body.
var ErrNoBody = errors.New("result has no body")

// Result is what every action returns. A zero or failed Result means "do not proceed".
type Result struct {
	Outcome      Outcome
	Notification *Notification
	Navigation   *Navigation
	// Body is the parsed JSON response for UpdateEntry and MakeAPIRequest.
	Body json.RawMessage
	// SavedPath is where DownloadFile stored the file.
	SavedPath string
	// Error classifies the failure when Outcome is not OutcomeSuccess.
	Error *APIError
}

// OK reports whether the call succeeded.
func (r Result) OK() bool {
	return r.Outcome == OutcomeSuccess
}

// Decode unmarshals Body into v.
func (r Result) Decode(v any) error {
	if len(r.Body) == 0 {
		return ErrNoBody
	}
	return json.Unmarshal(r.Body, v)
}

package actions

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"idreg/internal/fetch"
)

// ErrInvalidJSON is logged when a success response does not carry the expected JSON body.
var ErrInvalidJSON = errors.New("response body is not valid JSON")

type bodyMode int

const (
	bodyNone bodyMode = iota
	bodyStripped
	bodyOptionalStrip
)

type navMode int

const (
	navNever navMode = iota
	navIfRoute
	navOnRequest
)

// verb is the per-action part of the shared call contract.
type verb struct {
	name       string
	method     string
	success    func(status int) bool
	body       bodyMode
	nav        navMode
	parseJSON  bool
	allowEmpty bool // a success response may carry no body
	quietSafe  bool // no success notification for GET/HEAD/OPTIONS
}

func exactly(code int) func(int) bool {
	return func(status int) bool { return status == code }
}

func isOK(status int) bool {
	return status >= 200 && status < 300
}

var (
	createVerb = verb{name: "createRequest", method: http.MethodPost, success: exactly(http.StatusCreated), body: bodyStripped, nav: navIfRoute}
	updateVerb = verb{name: "updateEntry", method: http.MethodPut, success: exactly(http.StatusOK), body: bodyStripped, parseJSON: true}
	deleteVerb = verb{name: "deleteEntry", method: http.MethodDelete, success: exactly(http.StatusNoContent), nav: navIfRoute}
	batchVerb  = verb{name: "removeBatch", method: http.MethodDelete, success: exactly(http.StatusNoContent)}
	apiVerb    = verb{name: "makeApiRequest", success: isOK, body: bodyOptionalStrip, nav: navOnRequest, parseJSON: true, allowEmpty: true, quietSafe: true}
)

// CreateRequest POSTs the metadata-stripped values and succeeds on 201 Created.
// It navigates to RedirectRoute when one is given.
func (c *Client) CreateRequest(ctx context.Context, req Request) Result {
	return c.execute(ctx, createVerb, req)
}

// UpdateEntry PUTs the metadata-stripped values and succeeds on 200 OK with the
// parsed response as Result.Body.
func (c *Client) UpdateEntry(ctx context.Context, req Request) Result {
	return c.execute(ctx, updateVerb, req)
}

// DeleteEntry sends DELETE, succeeds on 204 No Content and navigates to RedirectRoute.
func (c *Client) DeleteEntry(ctx context.Context, req Request) Result {
	return c.execute(ctx, deleteVerb, req)
}

// RemoveBatch is DeleteEntry without navigation, used for identifier batches.
func (c *Client) RemoveBatch(ctx context.Context, req Request) Result {
	return c.execute(ctx, batchVerb, req)
}

// MakeAPIRequest sends req.Method and succeeds on any 2xx status. With req.Navigate set it
// returns a navigation to RedirectRoute, otherwise the parsed JSON body.
func (c *Client) MakeAPIRequest(ctx context.Context, req Request) Result {
	v := apiVerb
	v.method = methodOrGet(req.Method)
	return c.execute(ctx, v, req)
}

func methodOrGet(m string) string {
	if m == "" {
		return http.MethodGet
	}
	return m
}

func isSafeMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func (c *Client) execute(ctx context.Context, v verb, req Request) Result {
	log := c.logger.WithFields(logrus.Fields{"action": v.name, "method": v.method, "url": req.URL})

	body, err := requestBody(v.body, req)
	if err != nil {
		return c.genericFailure(log, 0, err)
	}

	resp, err := c.do(ctx, v.method, req.URL, fetch.Headers(req.AuthenticationToken), body)
	if err != nil {
		return c.genericFailure(log, 0, err)
	}
	if !v.success(resp.StatusCode) {
		return c.rejected(log, resp)
	}

	res := Result{Outcome: OutcomeSuccess}
	wantBody := v.parseJSON && !(v.nav == navOnRequest && req.Navigate)
	if wantBody && (len(resp.Body) > 0 || !v.allowEmpty) {
		if !json.Valid(resp.Body) {
			return c.genericFailure(log, resp.StatusCode, ErrInvalidJSON)
		}
		res.Body = json.RawMessage(resp.Body)
	}

	res.Navigation = navigation(v.nav, req)
	// A navigation always follows a success notification, even for reads.
	if !v.quietSafe || !isSafeMethod(v.method) || req.SuccessIntlID != "" || res.Navigation != nil {
		res.Notification = c.success(req.SuccessIntlID)
	}

	log.WithField("status", resp.StatusCode).Debug("request succeeded")
	return res
}

func requestBody(mode bodyMode, req Request) ([]byte, error) {
	switch mode {
	case bodyStripped:
		values, err := fetch.StripMetadata(req.Values)
		if err != nil {
			return nil, err
		}
		return fetch.FormatBody(values)
	case bodyOptionalStrip:
		if req.Values == nil {
			return nil, nil
		}
		if !req.FilterMetadataFields {
			return fetch.FormatBody(req.Values)
		}
		values, err := fetch.StripMetadata(req.Values)
		if err != nil {
			return nil, err
		}
		return fetch.FormatBody(values)
	default:
		return nil, nil
	}
}

func navigation(mode navMode, req Request) *Navigation {
	switch mode {
	case navIfRoute:
		if req.RedirectRoute == "" {
			return nil
		}
	case navOnRequest:
		if !req.Navigate || req.RedirectRoute == "" {
			return nil
		}
	default:
		return nil
	}
	return &Navigation{Route: req.RedirectRoute, State: req.RedirectState}
}

func (c *Client) success(intlID string) *Notification {
	if intlID == "" {
		intlID = IntlSuccess
	}
	return &Notification{
		Severity: SeveritySuccess,
		IntlID:   intlID,
		Message:  c.catalog.Text(intlID, nil),
	}
}

// rejected handles a response whose status is not the verb's success status.
func (c *Client) rejected(log logrus.FieldLogger, resp *response) Result {
	apiErr := Classify(resp.StatusCode, resp.Body)
	if apiErr.Kind != KindBusiness {
		log.WithField("status", resp.StatusCode).Debug("request failed without a usable message")
		return c.genericResult(apiErr)
	}
	log.WithFields(logrus.Fields{"status": resp.StatusCode, "detail": apiErr.Message}).Debug("request rejected")
	return Result{
		Outcome: OutcomeBusinessFailure,
		Error:   apiErr,
		Notification: &Notification{
			Severity: SeverityError,
			IntlID:   IntlErrorDetail,
			Message:  c.catalog.Text(IntlErrorDetail, map[string]string{"message": apiErr.Message}),
		},
	}
}

// genericFailure logs the raw error for debugging only; the user sees the default message.
func (c *Client) genericFailure(log logrus.FieldLogger, status int, err error) Result {
	log.WithError(err).Debug("request failed")
	return c.genericResult(&APIError{Kind: KindGeneric, Status: status})
}

func (c *Client) genericResult(apiErr *APIError) Result {
	return Result{
		Outcome: OutcomeGenericFailure,
		Error:   apiErr,
		Notification: &Notification{
			Severity: SeverityError,
			IntlID:   IntlDefaultError,
			Message:  c.catalog.Text(IntlDefaultError, nil),
		},
	}
}

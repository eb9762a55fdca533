// Package actions performs the console's calls against the registry API and turns
// every HTTP outcome into a uniform Result: a success with an optional navigation,
// a business error carrying the backend's reason, or a generic error.
//
// No action returns an error or retries. Callers inspect Result.OK and hand the
// Result to Dispatch (or their own adapter) to show the notification and navigate.
package actions

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"idreg/internal/files"
	"idreg/internal/utils"
)

// Request describes a single call. It is built per call and never stored.
type Request struct {
	URL                 string
	Method              string // MakeAPIRequest and DownloadFile only; defaults to GET
	Values              any
	AuthenticationToken string

	RedirectRoute string
	RedirectState any
	// Navigate marks that the caller can navigate. MakeAPIRequest returns a navigation
	// instead of the response body when it is set.
	Navigate bool

	// FilterMetadataFields strips server-managed fields from the MakeAPIRequest body.
	FilterMetadataFields bool
	// DownloadName overrides the file name derived from the response content type.
	DownloadName string
	// SuccessIntlID overrides the success message id.
	SuccessIntlID string
}

// Client runs actions against one console/backend base URL. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logrus.FieldLogger
	saver      files.Saver
	catalog    Catalog
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the URL relative request URLs are resolved against.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient replaces the HTTP client (tests, custom transports).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger receiving debug details of failures.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithSaver sets where DownloadFile stores files.
func WithSaver(s files.Saver) Option {
	return func(c *Client) {
		c.saver = s
	}
}

// WithCatalog overrides notification texts. Ids missing from cat keep their default text.
func WithCatalog(cat Catalog) Option {
	return func(c *Client) {
		merged := Catalog{}
		for k, v := range DefaultCatalog {
			merged[k] = v
		}
		for k, v := range cat {
			merged[k] = v
		}
		c.catalog = merged
	}
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		logger:     utils.Discard(),
		saver:      files.NewDirSaver(""),
		catalog:    DefaultCatalog,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// response is a fully read HTTP response.
type response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (c *Client) resolve(target string) (string, error) {
	u, err := url.Parse(target)
	if err != nil {
		return "", errors.Wrap(err, "invalid url")
	}
	if u.IsAbs() || c.baseURL == "" {
		return target, nil
	}
	return c.baseURL + "/" + strings.TrimPrefix(target, "/"), nil
}

// do performs exactly one HTTP call.
func (c *Client) do(ctx context.Context, method, target string, header http.Header, body []byte) (*response, error) {
	full, err := c.resolve(target)
	if err != nil {
		return nil, err
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, full, reader)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header = header

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "http request")
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Debugf("failed to close response body: %v", err)
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}
	return &response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

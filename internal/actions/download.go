package actions

import (
	"context"
	"mime"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"idreg/internal/fetch"
)

// DefaultDownloadBase is the file name used when the caller gives none.
const DefaultDownloadBase = "statistics"

// ErrUnknownContentType is returned when no file name can be derived for a download.
var ErrUnknownContentType = errors.New("unknown download content type")

var downloadExtensions = map[string]string{
	"application/json":         ".json",
	"application/vnd.ms-excel": ".xlsx",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": ".xlsx",
}

// DownloadName picks the saved file name: the explicit name when given, otherwise
// DefaultDownloadBase with an extension derived from the content type.
func DownloadName(explicit, contentType string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", errors.Wrapf(ErrUnknownContentType, "%q", contentType)
	}
	ext, ok := downloadExtensions[mediaType]
	if !ok {
		return "", errors.Wrapf(ErrUnknownContentType, "%q", mediaType)
	}
	return DefaultDownloadBase + ext, nil
}

// DownloadFile sends req.Method (GET by default) with Values as an optional JSON body,
// succeeds on 200 OK and stores the response body through the client's Saver.
func (c *Client) DownloadFile(ctx context.Context, req Request) Result {
	method := methodOrGet(req.Method)
	log := c.logger.WithFields(logrus.Fields{"action": "downloadFile", "method": method, "url": req.URL})

	body, err := fetch.FormatBody(req.Values)
	if err != nil {
		return c.genericFailure(log, 0, err)
	}
	resp, err := c.do(ctx, method, req.URL, fetch.DownloadHeaders(req.AuthenticationToken), body)
	if err != nil {
		return c.genericFailure(log, 0, err)
	}
	if resp.StatusCode != http.StatusOK {
		return c.rejected(log, resp)
	}

	name, err := DownloadName(req.DownloadName, resp.Header.Get("Content-Type"))
	if err != nil {
		return c.genericFailure(log, resp.StatusCode, err)
	}
	path, err := c.saver.Save(name, resp.Body)
	if err != nil {
		return c.genericFailure(log, resp.StatusCode, err)
	}

	intlID := req.SuccessIntlID
	if intlID == "" {
		intlID = IntlDownloadDone
	}
	log.WithFields(logrus.Fields{"file": path, "bytes": len(resp.Body)}).Debug("download saved")
	return Result{
		Outcome:      OutcomeSuccess,
		Notification: c.success(intlID),
		SavedPath:    path,
	}
}

package actions

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idreg/internal/files"
)

func fileServer(t *testing.T, contentType, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "*/*", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", contentType)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDownloadName(t *testing.T) {
	cases := []struct {
		explicit, contentType, want string
	}{
		{"", "application/json", "statistics.json"},
		{"", "application/json; charset=utf-8", "statistics.json"},
		{"", "application/vnd.ms-excel", "statistics.xlsx"},
		{"", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "statistics.xlsx"},
		{"marc-5.mrc", "application/octet-stream", "marc-5.mrc"},
		{"report.json", "application/vnd.ms-excel", "report.json"},
	}
	for _, tc := range cases {
		got, err := DownloadName(tc.explicit, tc.contentType)
		require.NoError(t, err, tc.contentType)
		assert.Equal(t, tc.want, got)
	}

	_, err := DownloadName("", "text/csv")
	assert.ErrorIs(t, err, ErrUnknownContentType)
	_, err = DownloadName("", "")
	assert.ErrorIs(t, err, ErrUnknownContentType)
}

func TestDownloadFileExcel(t *testing.T) {
	srv := fileServer(t, "application/vnd.ms-excel", "xls-bytes")
	dir := t.TempDir()
	c := New(WithBaseURL(srv.URL), WithSaver(files.NewDirSaver(dir)))

	res := c.DownloadFile(context.Background(), Request{URL: "/api/report", Method: http.MethodGet})

	require.True(t, res.OK())
	assert.Equal(t, filepath.Join(dir, "statistics.xlsx"), res.SavedPath)
	data, err := os.ReadFile(res.SavedPath)
	require.NoError(t, err)
	assert.Equal(t, "xls-bytes", string(data))
	assert.Equal(t, SeveritySuccess, res.Notification.Severity)
}

func TestDownloadFileJSONAndExplicitName(t *testing.T) {
	srv := fileServer(t, "application/json", `{"rows":[]}`)
	dir := t.TempDir()
	c := New(WithBaseURL(srv.URL), WithSaver(files.NewDirSaver(dir)))

	res := c.DownloadFile(context.Background(), Request{URL: "/api/report"})
	require.True(t, res.OK())
	assert.Equal(t, "statistics.json", filepath.Base(res.SavedPath))

	res = c.DownloadFile(context.Background(), Request{URL: "/api/report", DownloadName: "publishers.json"})
	require.True(t, res.OK())
	assert.Equal(t, "publishers.json", filepath.Base(res.SavedPath))
}

func TestDownloadFileUnknownTypeFails(t *testing.T) {
	srv := fileServer(t, "text/csv", "a,b")
	dir := t.TempDir()
	c := New(WithBaseURL(srv.URL), WithSaver(files.NewDirSaver(dir)))

	res := c.DownloadFile(context.Background(), Request{URL: "/api/report"})

	assert.False(t, res.OK())
	assert.Equal(t, genericNotification(), *res.Notification)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDownloadFileSendsValues(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got = string(b)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL), WithSaver(files.NewDirSaver(t.TempDir())))
	res := c.DownloadFile(context.Background(), Request{
		URL:    "/api/statistics",
		Method: http.MethodPost,
		Values: map[string]any{"type": "MONTHLY"},
	})

	assert.True(t, res.OK())
	assert.JSONEq(t, `{"type":"MONTHLY"}`, got)
}

type failingSaver struct{}

func (failingSaver) Save(string, []byte) (string, error) { return "", errors.New("disk full") }

func TestDownloadFileSaveFailure(t *testing.T) {
	srv := fileServer(t, "application/json", `{}`)
	res := New(WithBaseURL(srv.URL), WithSaver(failingSaver{})).DownloadFile(context.Background(), Request{URL: "/api/report"})

	assert.False(t, res.OK())
	assert.NotContains(t, res.Notification.Message, "disk full")
}

func TestDownloadFileBusinessError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"message":"invalid date range"}`)
	}))
	defer srv.Close()

	res := New(WithBaseURL(srv.URL)).DownloadFile(context.Background(), Request{URL: "/api/report"})
	assert.Equal(t, OutcomeBusinessFailure, res.Outcome)
	assert.Contains(t, res.Notification.Message, "invalid date range")
}

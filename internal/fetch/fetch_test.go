package fetch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaders(t *testing.T) {
	h := Headers("")
	assert.Equal(t, "application/json", h.Get("Content-Type"))
	assert.Equal(t, "application/json", h.Get("Accept"))
	assert.Empty(t, h.Get("Authorization"))

	h = Headers("abc")
	assert.Equal(t, "Bearer abc", h.Get("Authorization"))
}

func TestDownloadHeaders(t *testing.T) {
	h := DownloadHeaders("abc")
	assert.Equal(t, "*/*", h.Get("Accept"))
	assert.Equal(t, "Bearer abc", h.Get("Authorization"))
}

func TestFormatBody(t *testing.T) {
	b, err := FormatBody(nil)
	require.NoError(t, err)
	assert.Nil(t, b)

	b, err = FormatBody(map[string]any{"a": 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(b))

	_, err = FormatBody(map[string]any{"ch": make(chan int)})
	assert.Error(t, err)
}

func TestStripMetadataMap(t *testing.T) {
	in := map[string]any{
		"a":          1,
		"created":    "2020",
		"createdBy":  "u",
		"modified":   "2021",
		"modifiedBy": "v",
	}
	out, err := StripMetadata(in)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1}, out)
	assert.Len(t, in, 5, "input must not be mutated")
}

func TestStripMetadataStruct(t *testing.T) {
	type publisher struct {
		Name      string `json:"name"`
		Created   string `json:"created"`
		CreatedBy string `json:"createdBy"`
	}
	out, err := StripMetadata(publisher{Name: "Otava", Created: "2020", CreatedBy: "admin"})
	require.NoError(t, err)

	b, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Otava"}`, string(b))
}

func TestStripMetadataRejectsNonObject(t *testing.T) {
	_, err := StripMetadata([]int{1, 2})
	assert.ErrorIs(t, err, ErrNotObject)

	_, err = StripMetadata("text")
	assert.ErrorIs(t, err, ErrNotObject)
}

// Package fetch holds the request primitives shared by every console API call:
// header construction, JSON body formatting and removal of server-managed fields.
package fetch

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
)

// MetadataFields are maintained by the backend and must never be sent back in a mutation.
var MetadataFields = []string{"created", "createdBy", "modified", "modifiedBy"}

// ErrNotObject is returned when metadata stripping is asked for a payload that is not a JSON object.
var ErrNotObject = errors.New("payload is not a JSON object")

// Headers returns the JSON request headers. The Authorization header is only set when a token is given.
func Headers(token string) http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json")
	applyBearer(h, token)
	return h
}

// DownloadHeaders is Headers for calls whose response is a binary file.
func DownloadHeaders(token string) http.Header {
	h := Headers(token)
	h.Set("Accept", "*/*")
	return h
}

func applyBearer(h http.Header, token string) {
	if token == "" {
		return
	}
	h.Set("Authorization", "Bearer "+token)
}

// FormatBody serializes values as JSON. Nil values produce no body.
func FormatBody(values any) ([]byte, error) {
	if values == nil {
		return nil, nil
	}
	b, err := json.Marshal(values)
	if err != nil {
		return nil, errors.Wrap(err, "failed to format request body")
	}
	return b, nil
}

// StripMetadata returns a copy of values as a JSON object without MetadataFields.
// Structs are converted through their JSON representation; the input is never mutated.
func StripMetadata(values any) (map[string]any, error) {
	if values == nil {
		return map[string]any{}, nil
	}

	var obj map[string]any
	switch v := values.(type) {
	case map[string]any:
		obj = make(map[string]any, len(v))
		for k, val := range v {
			obj[k] = val
		}
	default:
		raw, err := json.Marshal(values)
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode payload")
		}
		if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
			return nil, ErrNotObject
		}
	}

	for _, f := range MetadataFields {
		delete(obj, f)
	}
	return obj, nil
}

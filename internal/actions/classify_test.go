package actions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	e := Classify(409, []byte(`{"message":"duplicate ISBN","code":"E1"}`))
	assert.Equal(t, KindBusiness, e.Kind)
	assert.Equal(t, "duplicate ISBN", e.Message)
	assert.Equal(t, "HTTP 409: duplicate ISBN", e.Error())

	for _, body := range []string{"", "null", "{}", `{"message":null}`, `{"message":""}`, `{"message":{"x":1}}`, "oops"} {
		e := Classify(500, []byte(body))
		assert.Equal(t, KindGeneric, e.Kind, body)
		assert.Equal(t, 500, e.Status, body)
	}
}

func TestCatalogText(t *testing.T) {
	assert.Equal(t, "Operation failed with the following detail: boom",
		DefaultCatalog.Text(IntlErrorDetail, map[string]string{"message": "boom"}))
	assert.Equal(t, "unknown.id", DefaultCatalog.Text("unknown.id", nil))
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "success", OutcomeSuccess.String())
	assert.Equal(t, "business-failure", OutcomeBusinessFailure.String())
	assert.Equal(t, "generic-failure", OutcomeGenericFailure.String())
	assert.Equal(t, "pending", Outcome(0).String())
}

package actions

import "strings"

// Message ids used in notifications.
const (
	IntlSuccess      = "notification.success"
	IntlErrorDetail  = "notification.error.detail"
	IntlDefaultError = "errorPage.message.defaultError"
	IntlDownloadDone = "notification.download.success"
)

// Catalog maps message ids to display text. Placeholders are written as {name}.
type Catalog map[string]string

// DefaultCatalog is the English message set.
var DefaultCatalog = Catalog{
	IntlSuccess:      "Operation completed successfully",
	IntlErrorDetail:  "Operation failed with the following detail: {message}",
	IntlDefaultError: "Something went wrong. Please try again later.",
	IntlDownloadDone: "File saved",
}

// Text renders id with the given placeholder values. Unknown ids render as the id itself.
func (c Catalog) Text(id string, args map[string]string) string {
	text, ok := c[id]
	if !ok {
		text = id
	}
	for k, v := range args {
		text = strings.ReplaceAll(text, "{"+k+"}", v)
	}
	return text
}

// Package registry names the backend collections managed through the console
// and builds their API paths and console routes.
package registry

import (
	"net/url"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ErrUnknownResource is returned for resource names not in the catalogue.
var ErrUnknownResource = errors.New("unknown resource")

// Resource is one collection of a registry.
type Resource struct {
	Name       string // CLI name, e.g. "publishers"
	Registry   string // "isbn-registry" or "issn-registry"
	Collection string // path segment under the registry
	Route      string // console route of the list view
	// Batch marks identifier batches, which are removed with RemoveBatch.
	Batch bool
	// Downloadable resources can be exported with DownloadFile.
	Downloadable bool
}

var resources = map[string]Resource{
	"publishers":           {Name: "publishers", Registry: "isbn-registry", Collection: "publishers", Route: "/isbn-registry/publishers"},
	"publication-requests": {Name: "publication-requests", Registry: "isbn-registry", Collection: "requests/publications", Route: "/isbn-registry/requests/publications"},
	"publisher-requests":   {Name: "publisher-requests", Registry: "isbn-registry", Collection: "requests/publishers", Route: "/isbn-registry/requests/publishers"},
	"isbn-ranges":          {Name: "isbn-ranges", Registry: "isbn-registry", Collection: "ranges/isbn", Route: "/isbn-registry/ranges/isbn"},
	"ismn-ranges":          {Name: "ismn-ranges", Registry: "isbn-registry", Collection: "ranges/ismn", Route: "/isbn-registry/ranges/ismn"},
	"identifier-batches":   {Name: "identifier-batches", Registry: "isbn-registry", Collection: "identifierbatches", Route: "/isbn-registry/identifierbatches", Batch: true, Downloadable: true},
	"message-templates":    {Name: "message-templates", Registry: "isbn-registry", Collection: "messagetemplates", Route: "/isbn-registry/messagetemplates"},
	"marc":                 {Name: "marc", Registry: "isbn-registry", Collection: "marc", Route: "/isbn-registry/requests/publications", Downloadable: true},
	"statistics":           {Name: "statistics", Registry: "isbn-registry", Collection: "statistics", Route: "/isbn-registry/statistics", Downloadable: true},
	"issn-publishers":      {Name: "issn-publishers", Registry: "issn-registry", Collection: "publishers", Route: "/issn-registry/publishers"},
	"issn-requests":        {Name: "issn-requests", Registry: "issn-registry", Collection: "requests", Route: "/issn-registry/requests"},
	"issn-ranges":          {Name: "issn-ranges", Registry: "issn-registry", Collection: "ranges", Route: "/issn-registry/ranges"},
}

// Lookup returns the resource with the given name.
func Lookup(name string) (Resource, error) {
	r, ok := resources[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Resource{}, errors.Wrapf(ErrUnknownResource, "%q", name)
	}
	return r, nil
}

// All returns every resource sorted by name.
func All() []Resource {
	out := make([]Resource, 0, len(resources))
	for _, r := range resources {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Path is the API path of the collection, or of one entry when id is set.
func (r Resource) Path(id string) string {
	p := "/api/" + r.Registry + "/" + r.Collection
	if id != "" {
		p += "/" + url.PathEscape(id)
	}
	return p
}

// RedirectRoute is the console route shown after a create (entry view) or a delete (list view).
func (r Resource) RedirectRoute(id string) string {
	if id == "" {
		return r.Route
	}
	return r.Route + "/" + url.PathEscape(id)
}

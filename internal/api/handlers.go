package api

import (
	"encoding/json"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"idreg/internal/actions"
	"idreg/internal/config"
)

// HealthHandler answers liveness probes.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}

// ConfigHandler serves the runtime configuration read by the console at startup.
// Methods other than GET and HEAD get 405.
func ConfigHandler(cfg *config.Config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			errMethodNotAllowed.write(w)
			return
		}
		writeJSON(w, http.StatusOK, actions.RuntimeConfig{
			Maintenance: cfg.Maintenance,
			OIDCConfig: actions.OIDCConfig{
				Authority:             cfg.OIDC.Authority,
				ClientID:              cfg.OIDC.ClientID,
				PostLogoutRedirectURI: cfg.OIDC.PostLogoutRedirectURI,
			},
		})
	})
}

// StaticHandler serves the built console. Paths that are not files get index.html so
// client-side routes survive a reload.
type StaticHandler struct {
	dir string
}

func NewStaticHandler(dir string) *StaticHandler {
	return &StaticHandler{dir: dir}
}

func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	clean := path.Clean("/" + r.URL.Path)
	target := filepath.Join(h.dir, filepath.FromSlash(clean))
	if fi, err := os.Stat(target); err == nil && !fi.IsDir() {
		serveFile(w, r, target)
		return
	}
	serveFile(w, r, filepath.Join(h.dir, "index.html"))
}

func serveFile(w http.ResponseWriter, r *http.Request, name string) {
	f, err := os.Open(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil || fi.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, fi.Name(), fi.ModTime(), f)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

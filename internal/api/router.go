package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"idreg/internal/config"
	"idreg/internal/utils"
)

// NewRouter wires the console routes: health, runtime config, the /api proxy and the static bundle.
func NewRouter(cfg *config.Config, logger logrus.FieldLogger) (*mux.Router, error) {
	proxy, err := NewProxy(cfg, logger)
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()
	r.Use(requestIDMiddleware, loggingMiddleware(logger))

	r.HandleFunc("/health", HealthHandler).Methods(http.MethodGet)
	// Every method is answered here so that /api/config never reaches the backend.
	r.Handle("/api/config", ConfigHandler(cfg))
	r.PathPrefix("/api/").Handler(proxy)

	// Everything else is the single-page console bundle.
	r.PathPrefix("/").Handler(NewStaticHandler(utils.ResolvePath(cfg.StaticDir))).Methods(http.MethodGet, http.MethodHead)
	return r, nil
}

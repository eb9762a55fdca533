package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"idreg/internal/certs"
	"idreg/internal/config"
)

const (
	shutdownTimeout = 10 * time.Second
	certWarnWindow  = 30 * 24 * time.Hour
)

// Server is the console HTTP(S) server.
type Server struct {
	cfg    *config.Config
	logger logrus.FieldLogger
	http   *http.Server
}

// NewServer prepares the server. TLS is used when both key and certificate are configured.
func NewServer(cfg *config.Config, logger logrus.FieldLogger) (*Server, error) {
	router, err := NewRouter(cfg, logger)
	if err != nil {
		return nil, err
	}
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if cfg.TLSEnabled() {
		cm := certs.NewCertManager(cfg.TLSKey, cfg.TLSCert)
		tlsCfg, err := cm.TLSConfig()
		if err != nil {
			return nil, err
		}
		if leaf, err := cm.LeafCertificate(); err == nil && cm.ExpiresWithin(leaf, certWarnWindow) {
			logger.WithField("notAfter", leaf.NotAfter).Warn("tls certificate expires soon")
		}
		srv.Addr = ":" + strconv.Itoa(cfg.HTTPSPort)
		srv.TLSConfig = tlsCfg
	}
	return &Server{cfg: cfg, logger: logger, http: srv}, nil
}

// Handler exposes the routed handler (tests, embedding).
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.WithFields(logrus.Fields{
			"addr":        s.http.Addr,
			"tls":         s.cfg.TLSEnabled(),
			"maintenance": s.cfg.Maintenance,
			"backend":     s.cfg.APIURL,
		}).Info("console server listening")

		var err error
		if s.http.TLSConfig != nil {
			err = s.http.ListenAndServeTLS("", "")
		} else {
			err = s.http.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- errors.Wrap(err, "server error")
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "error shutting down server")
	}
	return <-errCh
}

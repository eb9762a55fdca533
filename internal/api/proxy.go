package api

import (
	"crypto/tls"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"idreg/internal/config"
)

// APIKeyHeader carries the backend API key on proxied requests.
const APIKeyHeader = "X-API-Key"

// Proxy forwards /api/* to the registry backend.
type Proxy struct {
	cfg     *config.Config
	logger  logrus.FieldLogger
	target  *url.URL
	reverse *httputil.ReverseProxy
	limiter *rate.Limiter
}

// NewProxy builds the backend proxy from the server configuration.
func NewProxy(cfg *config.Config, logger logrus.FieldLogger) (*Proxy, error) {
	target, err := url.Parse(cfg.APIURL)
	if err != nil || target.Scheme == "" || target.Host == "" {
		return nil, errors.Errorf("invalid api url %q", cfg.APIURL)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.AllowSelfSigned {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for test backends
	}

	p := &Proxy{cfg: cfg, logger: logger, target: target}
	p.reverse = &httputil.ReverseProxy{
		Rewrite:      p.rewrite,
		Transport:    transport,
		ErrorHandler: p.handleError,
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst == 0 {
			burst = 1
		}
		p.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return p, nil
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// While in maintenance the backend is unreachable by design: behave as if /api did not exist.
	if p.cfg.Maintenance {
		http.NotFound(w, r)
		return
	}
	if p.limiter != nil && !p.limiter.Allow() {
		errTooManyRequests.write(w)
		return
	}
	p.reverse.ServeHTTP(w, r)
}

// UpstreamPath maps a console path (/api/...) to the backend path.
func (p *Proxy) UpstreamPath(consolePath string) string {
	return upstreamPath(p.target.Path, p.cfg.APIPathPrefix, consolePath)
}

// upstreamRawPath is UpstreamPath on the escaped form, so encoded segments such as %2F survive.
func (p *Proxy) upstreamRawPath(escapedPath string) string {
	return upstreamPath(p.target.EscapedPath(), p.cfg.APIPathPrefix, escapedPath)
}

func upstreamPath(base, prefix, consolePath string) string {
	return strings.TrimRight(base, "/") + prefix + strings.TrimPrefix(consolePath, "/api")
}

func (p *Proxy) rewrite(pr *httputil.ProxyRequest) {
	pr.Out.URL.Scheme = p.target.Scheme
	pr.Out.URL.Host = p.target.Host
	pr.Out.URL.Path = p.UpstreamPath(pr.In.URL.Path)
	pr.Out.URL.RawPath = p.upstreamRawPath(pr.In.URL.EscapedPath())
	pr.Out.Host = p.target.Host
	pr.SetXForwarded()

	pr.Out.Header.Del(APIKeyHeader)
	if p.cfg.APIKey != "" {
		pr.Out.Header.Set(APIKeyHeader, p.cfg.APIKey)
	}
	if p.cfg.CustomIPHeader != "" {
		pr.Out.Header.Set(p.cfg.CustomIPHeader, clientIP(pr.In, p.cfg.TrustForwardedFor))
	}
}

func (p *Proxy) handleError(w http.ResponseWriter, r *http.Request, err error) {
	p.logger.WithError(err).WithFields(logrus.Fields{
		"path":      r.URL.Path,
		"requestId": r.Header.Get(RequestIDHeader),
	}).Error("backend request failed")
	errBadGateway.write(w)
}

// clientIP is the remote address host. Behind a trusted proxy it is the last
// X-Forwarded-For hop, the address that proxy accepted the connection from.
func clientIP(r *http.Request, trustForwarded bool) string {
	if trustForwarded {
		if hops := r.Header.Values("X-Forwarded-For"); len(hops) > 0 {
			last := hops[len(hops)-1]
			if i := strings.LastIndex(last, ","); i >= 0 {
				last = last[i+1:]
			}
			if last = strings.TrimSpace(last); last != "" {
				return last
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

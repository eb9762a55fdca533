// Package config loads the console server configuration: defaults, an optional
// YAML file, then environment variable overrides.
package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	ErrMissingAPIURL = errors.New("api url is required")
	ErrInvalidPort   = errors.New("invalid port")
	ErrPartialTLS    = errors.New("tls key and certificate must be set together")
)

// OIDC holds the identity provider settings handed to the browser through /api/config.
type OIDC struct {
	Authority             string `yaml:"authority" json:"authority,omitempty"`
	ClientID              string `yaml:"clientId" json:"clientId,omitempty"`
	PostLogoutRedirectURI string `yaml:"postLogoutRedirectUri" json:"postLogoutRedirectUri,omitempty"`
}

// Config is the console server configuration.
type Config struct {
	APIURL          string `yaml:"apiUrl"`
	APIPathPrefix   string `yaml:"apiPathPrefix"`
	APIKey          string `yaml:"apiKey"`
	AllowSelfSigned bool   `yaml:"allowSelfSigned"`

	HTTPPort  int    `yaml:"httpPort"`
	HTTPSPort int    `yaml:"httpsPort"`
	TLSKey    string `yaml:"tlsKey"`
	TLSCert   string `yaml:"tlsCert"`

	Maintenance    bool   `yaml:"maintenance"`
	CustomIPHeader string `yaml:"customIpHeader"`
	StaticDir      string `yaml:"staticDir"`

	// TrustForwardedFor takes the client IP from X-Forwarded-For; only for deployments behind a proxy.
	TrustForwardedFor bool `yaml:"trustForwardedFor"`

	// RateLimit is the number of proxied requests per second; 0 disables limiting.
	RateLimit float64 `yaml:"rateLimit"`
	RateBurst int     `yaml:"rateBurst"`

	LogLevel  string `yaml:"logLevel"`
	LogFormat string `yaml:"logFormat"`
	LogFile   string `yaml:"logFile"`

	OIDC OIDC `yaml:"oidc"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		APIURL:    "http://localhost:8081",
		HTTPPort:  8080,
		HTTPSPort: 8443,
		StaticDir: "public",
		RateBurst: 20,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load builds the configuration from defaults, the YAML file at path (optional) and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read config file")
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse config file")
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.APIURL, "API_URL")
	setString(&c.APIPathPrefix, "API_PATH_PREFIX")
	setString(&c.APIKey, "API_KEY")
	setString(&c.TLSKey, "TLS_KEY")
	setString(&c.TLSCert, "TLS_CERT")
	setString(&c.CustomIPHeader, "CUSTOM_IP_HEADER")
	setString(&c.StaticDir, "STATIC_DIR")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.LogFormat, "LOG_FORMAT")
	setString(&c.LogFile, "LOG_FILE")
	setString(&c.OIDC.Authority, "OIDC_AUTHORITY")
	setString(&c.OIDC.ClientID, "OIDC_CLIENT_ID")
	setString(&c.OIDC.PostLogoutRedirectURI, "OIDC_POST_LOGOUT_REDIRECT_URI")

	for key, dst := range map[string]*bool{
		"ALLOW_SELF_SIGNED":   &c.AllowSelfSigned,
		"MAINTENANCE_MODE":    &c.Maintenance,
		"TRUST_FORWARDED_FOR": &c.TrustForwardedFor,
	} {
		if err := setBool(dst, key); err != nil {
			return err
		}
	}
	for key, dst := range map[string]*int{
		"HTTP_PORT":  &c.HTTPPort,
		"HTTPS_PORT": &c.HTTPSPort,
		"RATE_BURST": &c.RateBurst,
	} {
		if err := setInt(dst, key); err != nil {
			return err
		}
	}
	if v := os.Getenv("RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid RATE_LIMIT %q", v)
		}
		c.RateLimit = f
	}
	return nil
}

// Validate checks the values that the server cannot start without.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return ErrMissingAPIURL
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.Errorf("invalid api url %q", c.APIURL)
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return errors.Wrapf(ErrInvalidPort, "http port %d", c.HTTPPort)
	}
	if c.HTTPSPort <= 0 || c.HTTPSPort > 65535 {
		return errors.Wrapf(ErrInvalidPort, "https port %d", c.HTTPSPort)
	}
	if (c.TLSKey == "") != (c.TLSCert == "") {
		return ErrPartialTLS
	}
	if c.RateLimit < 0 || c.RateBurst < 0 {
		return errors.New("rate limit values must not be negative")
	}
	if c.APIPathPrefix != "" && !strings.HasPrefix(c.APIPathPrefix, "/") {
		c.APIPathPrefix = "/" + c.APIPathPrefix
	}
	c.APIPathPrefix = strings.TrimSuffix(c.APIPathPrefix, "/")
	return nil
}

// TLSEnabled reports whether the server should listen with TLS.
func (c *Config) TLSEnabled() bool {
	return c.TLSKey != "" && c.TLSCert != ""
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return errors.Wrapf(err, "invalid %s %q", key, v)
	}
	*dst = b
	return nil
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return errors.Wrapf(err, "invalid %s %q", key, v)
	}
	*dst = i
	return nil
}

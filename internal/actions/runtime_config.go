package actions

import (
	"context"
	"encoding/json"
	"net/http"

	"idreg/internal/fetch"
)

// ConfigPath is the console endpoint serving the runtime configuration.
const ConfigPath = "/api/config"

// OIDCConfig is the identity provider configuration used by the console.
type OIDCConfig struct {
	Authority             string `json:"authority,omitempty"`
	ClientID              string `json:"clientId,omitempty"`
	PostLogoutRedirectURI string `json:"postLogoutRedirectUri,omitempty"`
}

// RuntimeConfig is the payload of ConfigPath.
type RuntimeConfig struct {
	Maintenance bool       `json:"maintenance"`
	OIDCConfig  OIDCConfig `json:"oidcConfig"`
}

// FallbackConfig is used whenever the configuration cannot be fetched: maintenance
// on and no identity provider, so an outage shows the maintenance banner.
func FallbackConfig() RuntimeConfig {
	return RuntimeConfig{Maintenance: true, OIDCConfig: OIDCConfig{}}
}

// GetConfig fetches the runtime configuration, returning FallbackConfig on any failure.
func (c *Client) GetConfig(ctx context.Context) RuntimeConfig {
	log := c.logger.WithField("action", "getConfig")

	resp, err := c.do(ctx, http.MethodGet, ConfigPath, fetch.Headers(""), nil)
	if err != nil {
		log.WithError(err).Debug("config request failed")
		return FallbackConfig()
	}
	if resp.StatusCode != http.StatusOK {
		log.WithField("status", resp.StatusCode).Debug("config request rejected")
		return FallbackConfig()
	}
	var cfg RuntimeConfig
	if err := json.Unmarshal(resp.Body, &cfg); err != nil {
		log.WithError(err).Debug("config response is not valid JSON")
		return FallbackConfig()
	}
	return cfg
}

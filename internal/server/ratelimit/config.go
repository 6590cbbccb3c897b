package ratelimit

import (
	"net/http"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Default limits for routes without an endpoint configuration
const (
	DefaultLimit           = 300
	DefaultWindow          = time.Minute
	DefaultCleanupInterval = 5 * time.Minute
	idleBucketTTL          = time.Hour
)

// NewConfig builds the limiter configuration. Generation requests are limited
// to ratePerMinute per client with the given burst; site builds get a tenth of that.
func NewConfig(ratePerMinute, burst int) *Config {
	return &Config{
		Enabled:         ratePerMinute > 0,
		DefaultLimit:    DefaultLimit,
		DefaultWindow:   DefaultWindow,
		CleanupInterval: DefaultCleanupInterval,
		EndpointConfigs: EndpointConfigs(ratePerMinute, burst),
	}
}

// EndpointConfigs returns the per-endpoint limits of the site API.
func EndpointConfigs(ratePerMinute, burst int) []EndpointConfig {
	buildLimit := max(ratePerMinute/10, 1)
	return []EndpointConfig{
		// LLM-backed, most expensive
		{Path: "/api/generate-content", Method: http.MethodPost, Limit: ratePerMinute, Window: time.Minute, Burst: burst},
		{Path: "/sites/content", Method: http.MethodPost, Limit: ratePerMinute, Window: time.Minute, Burst: burst},

		// Writes a site to disk and the store
		{Path: "/sites", Method: http.MethodPost, Limit: buildLimit, Window: time.Minute, Burst: min(burst, buildLimit)},
	}
}

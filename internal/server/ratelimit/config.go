package ratelimit

import (
	"net/http"
	"time"
)

// EndpointConfig is the limit applied to one route.
type EndpointConfig struct {
	Path   string        // exact path, or a prefix when it ends with "/" and is longer than "/"
	Method string        // HTTP method
	Limit  int           // requests per window
	Window time.Duration // refill window
	Burst  int           // bucket size, defaults to Limit
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int // applied to unmatched routes; 0 leaves them unlimited
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// NewConfig limits the form and API submission routes to perMinute requests per
// client with the given burst. Page loads and health checks stay unlimited.
func NewConfig(enabled bool, perMinute, burst int) *Config {
	if !enabled {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Whitelist:       make(map[string]bool),
		Blacklist:       make(map[string]bool),
		EndpointConfigs: SubmissionEndpoints(perMinute, burst),
	}
}

// SubmissionEndpoints returns the limits for the submission routes. The server
// charges the POST / entry for submit actions only, not for list edits.
func SubmissionEndpoints(perMinute, burst int) []EndpointConfig {
	return []EndpointConfig{
		{Path: "/", Method: http.MethodPost, Limit: perMinute, Window: time.Minute, Burst: burst},
		{Path: "/api/cvs", Method: http.MethodPost, Limit: perMinute, Window: time.Minute, Burst: burst},
	}
}

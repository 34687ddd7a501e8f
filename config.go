package sportsdb

import "fmt"

// DefaultAPIKey is TheSportsDB's shared free-tier key. Paid keys unlock
// higher rate limits but the API shape is identical.
const DefaultAPIKey = "3"

const (
	defaultCacheTTLDays         = 7
	defaultMaxRequestsPerMinute = 30

	minCacheTTLDays = 1
	maxCacheTTLDays = 365
)

// Config holds the settings consumed by the client and resolver. The host
// application owns where these values come from; they are passed into
// constructors explicitly rather than read from any global state.
type Config struct {
	// APIKey becomes part of every request path (and therefore of every
	// cache key, so switching keys never serves stale entries).
	APIKey string

	// CacheTTLDays controls how long cached responses stay valid.
	CacheTTLDays int

	// MaxRequestsPerMinute caps the trailing 60 second request window.
	MaxRequestsPerMinute int

	// Enabled short-circuits the whole subsystem when false: every
	// resolution returns empty without touching the network.
	Enabled bool

	// CacheDir overrides the on-disk cache location. Empty means a
	// "sportsdb_cache" directory under the user cache dir.
	CacheDir string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		APIKey:               DefaultAPIKey,
		CacheTTLDays:         defaultCacheTTLDays,
		MaxRequestsPerMinute: defaultMaxRequestsPerMinute,
		Enabled:              true,
	}
}

// Validate checks ranges and fills empty fields with defaults.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		c.APIKey = DefaultAPIKey
	}
	if c.CacheTTLDays == 0 {
		c.CacheTTLDays = defaultCacheTTLDays
	}
	if c.CacheTTLDays < minCacheTTLDays || c.CacheTTLDays > maxCacheTTLDays {
		return fmt.Errorf("cache TTL %d days out of range [%d, %d]", c.CacheTTLDays, minCacheTTLDays, maxCacheTTLDays)
	}
	if c.MaxRequestsPerMinute == 0 {
		c.MaxRequestsPerMinute = defaultMaxRequestsPerMinute
	}
	if c.MaxRequestsPerMinute < 1 {
		return fmt.Errorf("max requests per minute must be at least 1, got %d", c.MaxRequestsPerMinute)
	}
	return nil
}

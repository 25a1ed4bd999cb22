package printful

import (
	"errors"
	"strings"
	"time"

	appconfig "github.com/podsync/backend/internal/infrastructure/config"
)

// Config holds the provider API configuration
type Config struct {
	// BaseURL is the API root, without a trailing slash
	BaseURL string
	// APIKey is the bearer token for all requests
	APIKey string
	// Timeout is the per-call HTTP budget
	Timeout time.Duration
	// CatalogCap bounds how many variant IDs one enrichment call may fetch
	CatalogCap int
	// RetryAttempts bounds retries of rate-limited catalog fetches
	RetryAttempts int
	// RetryBaseDelay is the first retry delay; later delays double
	RetryBaseDelay time.Duration
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("printful: base URL is required")
	}
	if c.APIKey == "" {
		return errors.New("printful: API key is required")
	}
	if c.Timeout <= 0 {
		return errors.New("printful: timeout must be positive")
	}
	if c.CatalogCap <= 0 {
		return errors.New("printful: catalog cap must be positive")
	}
	return nil
}

// NewConfig builds a provider config from application configuration
func NewConfig(cfg appconfig.ProviderConfig) *Config {
	return &Config{
		BaseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		APIKey:         cfg.APIKey,
		Timeout:        cfg.RequestTimeout,
		CatalogCap:     cfg.CatalogCap,
		RetryAttempts:  cfg.RetryAttempts,
		RetryBaseDelay: cfg.RetryBaseDelay,
	}
}

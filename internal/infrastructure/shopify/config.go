package shopify

import (
	"errors"
	"fmt"
	"time"

	appconfig "github.com/podsync/backend/internal/infrastructure/config"
)

// Config holds the storefront Admin API configuration
type Config struct {
	// ShopDomain is the myshopify domain, e.g. "acme.myshopify.com"
	ShopDomain string
	// AccessToken is the Admin API access token
	AccessToken string
	// APIVersion selects the Admin API version, e.g. "2024-10"
	APIVersion string
	// Endpoint overrides the GraphQL endpoint; used in tests
	Endpoint string
	// Timeout is the per-call HTTP budget
	Timeout time.Duration
	// PageSize is the page size for cursor-paginated listings
	PageSize int
}

// Validate checks the configuration and derives the endpoint
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		if c.ShopDomain == "" {
			return errors.New("shopify: shop domain is required")
		}
		if c.APIVersion == "" {
			return errors.New("shopify: API version is required")
		}
		c.Endpoint = fmt.Sprintf("https://%s/admin/api/%s/graphql.json", c.ShopDomain, c.APIVersion)
	}
	if c.AccessToken == "" {
		return errors.New("shopify: access token is required")
	}
	if c.Timeout <= 0 {
		return errors.New("shopify: timeout must be positive")
	}
	if c.PageSize <= 0 {
		return errors.New("shopify: page size must be positive")
	}
	return nil
}

// NewConfig builds a storefront config from application configuration
func NewConfig(cfg appconfig.StorefrontConfig) *Config {
	return &Config{
		ShopDomain:  cfg.ShopDomain,
		AccessToken: cfg.AccessToken,
		APIVersion:  cfg.APIVersion,
		Timeout:     cfg.RequestTimeout,
		PageSize:    cfg.PageSize,
	}
}

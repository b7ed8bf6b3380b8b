package shopify

import (
	"errors"
	"fmt"
	"time"
)

// Config holds configuration for the Shopify Admin GraphQL API client
type Config struct {
	// ShopDomain is the myshopify domain, e.g. "acme.myshopify.com"
	ShopDomain string
	// AccessToken is the Admin API access token
	AccessToken string
	// APIVersion is the Admin API version, e.g. "2024-10"
	APIVersion string
	// Endpoint overrides the computed GraphQL endpoint URL when set
	Endpoint string
	// Timeout is the per-request HTTP timeout
	Timeout time.Duration
}

// DefaultAPIVersion is the Admin API version used when none is configured
const DefaultAPIVersion = "2024-10"

// Errors for Shopify configuration
var (
	ErrConfigMissingShopDomain = errors.New("shopify: shop domain is required")
	ErrConfigMissingToken      = errors.New("shopify: access token is required")
)

// NewConfig creates a new Shopify configuration with defaults
func NewConfig(shopDomain, accessToken string) *Config {
	return &Config{
		ShopDomain:  shopDomain,
		AccessToken: accessToken,
		APIVersion:  DefaultAPIVersion,
		Timeout:     30 * time.Second,
	}
}

// Validate validates the Shopify configuration, filling defaults for
// optional fields
func (c *Config) Validate() error {
	if c.ShopDomain == "" && c.Endpoint == "" {
		return ErrConfigMissingShopDomain
	}
	if c.AccessToken == "" {
		return ErrConfigMissingToken
	}
	if c.APIVersion == "" {
		c.APIVersion = DefaultAPIVersion
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return nil
}

// endpointURL returns the GraphQL endpoint the client posts to
func (c *Config) endpointURL() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return fmt.Sprintf("https://%s/admin/api/%s/graphql.json", c.ShopDomain, c.APIVersion)
}

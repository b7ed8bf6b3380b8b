package bling

import (
	"errors"
	"time"
)

// Config holds configuration for the Bling ERP API client
type Config struct {
	// BaseURL is the base URL for the Bling API
	BaseURL string
	// AccessToken is the OAuth access token for API calls
	AccessToken string
	// PageSize is the number of products requested per catalog page
	PageSize int
	// Timeout is the per-request HTTP timeout
	Timeout time.Duration
}

// DefaultBaseURL is the production Bling API endpoint
const DefaultBaseURL = "https://api.bling.com.br/Api/v3"

// Errors for Bling configuration
var (
	ErrConfigMissingBaseURL = errors.New("bling: base URL is required")
	ErrConfigMissingToken   = errors.New("bling: access token is required")
)

// NewConfig creates a new Bling configuration with defaults
func NewConfig(accessToken string) *Config {
	return &Config{
		BaseURL:     DefaultBaseURL,
		AccessToken: accessToken,
		PageSize:    100,
		Timeout:     30 * time.Second,
	}
}

// Validate validates the Bling configuration, filling defaults for
// optional fields
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrConfigMissingBaseURL
	}
	if c.AccessToken == "" {
		return ErrConfigMissingToken
	}
	if c.PageSize <= 0 {
		c.PageSize = 100
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return nil
}

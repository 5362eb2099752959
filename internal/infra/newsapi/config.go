package newsapi

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DefaultBaseURL is the News API v2 root.
const DefaultBaseURL = "https://newsapi.org/v2"

// Config holds the configuration for the News API client.
type Config struct {
	// APIKey is sent as the apiKey query parameter. Required.
	APIKey string

	// BaseURL is the API root without trailing slash.
	// Default: https://newsapi.org/v2
	BaseURL string

	// Timeout bounds a single API request.
	// Default: 30s
	Timeout time.Duration

	// PageSize is forwarded as pageSize when positive. The API caps it at 100.
	// Default: 0 (API default)
	PageSize int

	// MaxResponseSize rejects bodies larger than this many bytes.
	// Default: 10485760 (10MB)
	MaxResponseSize int64
}

// DefaultConfig returns the default client configuration without an API key.
func DefaultConfig() Config {
	return Config{
		BaseURL:         DefaultBaseURL,
		Timeout:         30 * time.Second,
		PageSize:        0,
		MaxResponseSize: 10 * 1024 * 1024,
	}
}

// Validate checks that the configuration can be used to call the API.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("api key is required")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base url is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.PageSize < 0 || c.PageSize > 100 {
		return fmt.Errorf("page size must be between 0 and 100, got %d", c.PageSize)
	}
	if c.MaxResponseSize < 1024 {
		return fmt.Errorf("max response size must be at least 1024 bytes, got %d", c.MaxResponseSize)
	}
	return nil
}

// LoadConfigFromEnv loads configuration from environment variables.
// Unset variables keep their defaults; malformed values are reported as errors.
//
// Environment variables:
//   - API_KEY: News API key (required)
//   - NEWSAPI_BASE_URL: API root (default: https://newsapi.org/v2)
//   - NEWSAPI_TIMEOUT: duration string, e.g. "30s"
//   - NEWSAPI_PAGE_SIZE: integer 0-100
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	cfg.APIKey = os.Getenv("API_KEY")

	if val := os.Getenv("NEWSAPI_BASE_URL"); val != "" {
		cfg.BaseURL = val
	}

	if val := os.Getenv("NEWSAPI_TIMEOUT"); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid NEWSAPI_TIMEOUT: %v (expected format: '30s', '1m')", err)
		}
		cfg.Timeout = parsed
	}

	if val := os.Getenv("NEWSAPI_PAGE_SIZE"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid NEWSAPI_PAGE_SIZE: %v", err)
		}
		cfg.PageSize = parsed
	}

	return cfg, nil
}

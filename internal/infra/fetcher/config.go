package fetcher

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ContentFetchConfig holds the configuration for full-text scraping.
//
// Security settings:
//   - DenyPrivateIPs: Prevents SSRF attacks by blocking private IP addresses
//   - MaxBodySize: Prevents memory exhaustion from oversized responses
//   - MaxRedirects: Prevents infinite redirect loops
//   - Timeout: Bounds every page download
//
// Throughput settings:
//   - Parallelism: Concurrent downloads in the enrichment pool
//   - RatePerSecond / Burst: Global request rate across all hosts
type ContentFetchConfig struct {
	// Enabled controls whether full-text scraping runs.
	// When false every record is stored without scraped content.
	// Default: true
	Enabled bool

	// Timeout is the maximum duration for a single page download.
	// Default: 15s
	Timeout time.Duration

	// Parallelism is the number of concurrent downloads.
	// 1 scrapes articles one at a time in fetch order.
	// Default: 5
	Parallelism int

	// MaxBodySize is the maximum HTTP response body size in bytes.
	// Default: 10485760 (10MB)
	MaxBodySize int64

	// MaxRedirects is the maximum number of HTTP redirects to follow.
	// Each redirect target is validated like the original URL.
	// Default: 5
	MaxRedirects int

	// DenyPrivateIPs rejects URLs resolving to private/loopback/link-local IPs.
	// Default: true
	DenyPrivateIPs bool

	// RatePerSecond limits page downloads across all hosts. 0 disables limiting.
	// Default: 0
	RatePerSecond float64

	// Burst is the limiter bucket size when RatePerSecond is positive.
	// Default: 1
	Burst int

	// CircuitBreaker isolates publishers whose pages keep failing.
	// Default: true
	CircuitBreaker bool

	// UserAgent is sent with every page request.
	UserAgent string
}

// DefaultUserAgent identifies the scraper to publishers.
const DefaultUserAgent = "Mozilla/5.0 (compatible; NewsETLBot/1.0)"

// DefaultConfig returns the default configuration for full-text scraping.
func DefaultConfig() ContentFetchConfig {
	return ContentFetchConfig{
		Enabled:        true,
		Timeout:        15 * time.Second,
		Parallelism:    5,
		MaxBodySize:    10 * 1024 * 1024, // 10MB
		MaxRedirects:   5,
		DenyPrivateIPs: true,
		RatePerSecond:  0,
		Burst:          1,
		CircuitBreaker: true,
		UserAgent:      DefaultUserAgent,
	}
}

// Validate checks if the configuration values are valid and safe.
//
// Validation rules:
//   - Timeout: > 0
//   - Parallelism: 1-50
//   - MaxBodySize: 1KB-100MB
//   - MaxRedirects: 0-10
//   - RatePerSecond: >= 0, Burst >= 1 when limiting
func (c *ContentFetchConfig) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	if c.Parallelism < 1 || c.Parallelism > 50 {
		return fmt.Errorf("parallelism must be between 1 and 50, got %d", c.Parallelism)
	}

	minBodySize := int64(1024)              // 1KB
	maxBodySize := int64(100 * 1024 * 1024) // 100MB
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}

	if c.RatePerSecond < 0 {
		return fmt.Errorf("rate per second must be non-negative, got %v", c.RatePerSecond)
	}

	if c.RatePerSecond > 0 && c.Burst < 1 {
		return fmt.Errorf("burst must be at least 1 when rate limiting, got %d", c.Burst)
	}

	return nil
}

// LoadConfigFromEnv loads configuration from environment variables.
// If a variable is not set the default value is used. Malformed values are errors.
//
// Environment variables:
//   - CONTENT_FETCH_ENABLED: "true" or "false" (default: true)
//   - CONTENT_FETCH_TIMEOUT: duration string, e.g., "15s" (default: 15s)
//   - CONTENT_FETCH_PARALLELISM: integer (default: 5)
//   - CONTENT_FETCH_MAX_BODY_SIZE: integer in bytes (default: 10485760)
//   - CONTENT_FETCH_MAX_REDIRECTS: integer (default: 5)
//   - CONTENT_FETCH_DENY_PRIVATE_IPS: "true" or "false" (default: true)
//   - CONTENT_FETCH_RATE: requests per second, float (default: 0, unlimited)
//   - CONTENT_FETCH_BURST: integer (default: 1)
//   - CONTENT_FETCH_CIRCUIT_BREAKER: "true" or "false" (default: true)
//   - CONTENT_FETCH_USER_AGENT: string
func LoadConfigFromEnv() (ContentFetchConfig, error) {
	cfg := DefaultConfig()

	if val := os.Getenv("CONTENT_FETCH_ENABLED"); val != "" {
		cfg.Enabled = val == "true"
	}

	if val := os.Getenv("CONTENT_FETCH_TIMEOUT"); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid CONTENT_FETCH_TIMEOUT: %v (expected format: '10s', '1m')", err)
		}
		cfg.Timeout = parsed
	}

	if val := os.Getenv("CONTENT_FETCH_PARALLELISM"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid CONTENT_FETCH_PARALLELISM: %v", err)
		}
		cfg.Parallelism = parsed
	}

	if val := os.Getenv("CONTENT_FETCH_MAX_BODY_SIZE"); val != "" {
		parsed, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid CONTENT_FETCH_MAX_BODY_SIZE: %v", err)
		}
		cfg.MaxBodySize = parsed
	}

	if val := os.Getenv("CONTENT_FETCH_MAX_REDIRECTS"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid CONTENT_FETCH_MAX_REDIRECTS: %v", err)
		}
		cfg.MaxRedirects = parsed
	}

	if val := os.Getenv("CONTENT_FETCH_DENY_PRIVATE_IPS"); val != "" {
		cfg.DenyPrivateIPs = val == "true"
	}

	if val := os.Getenv("CONTENT_FETCH_RATE"); val != "" {
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid CONTENT_FETCH_RATE: %v", err)
		}
		cfg.RatePerSecond = parsed
	}

	if val := os.Getenv("CONTENT_FETCH_BURST"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid CONTENT_FETCH_BURST: %v", err)
		}
		cfg.Burst = parsed
	}

	if val := os.Getenv("CONTENT_FETCH_CIRCUIT_BREAKER"); val != "" {
		cfg.CircuitBreaker = val == "true"
	}

	if val := os.Getenv("CONTENT_FETCH_USER_AGENT"); val != "" {
		cfg.UserAgent = val
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

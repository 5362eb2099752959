package fetcher

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if !config.Enabled {
		t.Error("expected Enabled=true")
	}
	if config.Timeout != 15*time.Second {
		t.Errorf("expected Timeout=15s, got %v", config.Timeout)
	}
	if config.Parallelism != 5 {
		t.Errorf("expected Parallelism=5, got %d", config.Parallelism)
	}
	if !config.DenyPrivateIPs {
		t.Error("expected DenyPrivateIPs=true")
	}
	if config.RatePerSecond != 0 {
		t.Errorf("expected unlimited rate, got %v", config.RatePerSecond)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("default config must be valid: %v", err)
	}
}

func TestConfigValidate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ContentFetchConfig)
	}{
		{"zero timeout", func(c *ContentFetchConfig) { c.Timeout = 0 }},
		{"negative timeout", func(c *ContentFetchConfig) { c.Timeout = -time.Second }},
		{"zero parallelism", func(c *ContentFetchConfig) { c.Parallelism = 0 }},
		{"parallelism too high", func(c *ContentFetchConfig) { c.Parallelism = 51 }},
		{"body too small", func(c *ContentFetchConfig) { c.MaxBodySize = 100 }},
		{"body too large", func(c *ContentFetchConfig) { c.MaxBodySize = 200 * 1024 * 1024 }},
		{"negative redirects", func(c *ContentFetchConfig) { c.MaxRedirects = -1 }},
		{"too many redirects", func(c *ContentFetchConfig) { c.MaxRedirects = 11 }},
		{"negative rate", func(c *ContentFetchConfig) { c.RatePerSecond = -1 }},
		{"zero burst with rate", func(c *ContentFetchConfig) { c.RatePerSecond = 2; c.Burst = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(&config)
			if err := config.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	config, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv() error = %v", err)
	}
	if config != DefaultConfig() {
		t.Errorf("expected defaults, got %+v", config)
	}
}

func TestLoadConfigFromEnv_CustomValues(t *testing.T) {
	t.Setenv("CONTENT_FETCH_ENABLED", "false")
	t.Setenv("CONTENT_FETCH_TIMEOUT", "3s")
	t.Setenv("CONTENT_FETCH_PARALLELISM", "1")
	t.Setenv("CONTENT_FETCH_MAX_BODY_SIZE", "2048")
	t.Setenv("CONTENT_FETCH_MAX_REDIRECTS", "0")
	t.Setenv("CONTENT_FETCH_DENY_PRIVATE_IPS", "false")
	t.Setenv("CONTENT_FETCH_RATE", "2.5")
	t.Setenv("CONTENT_FETCH_BURST", "3")
	t.Setenv("CONTENT_FETCH_CIRCUIT_BREAKER", "false")
	t.Setenv("CONTENT_FETCH_USER_AGENT", "test-agent")

	config, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv() error = %v", err)
	}

	want := ContentFetchConfig{
		Enabled:        false,
		Timeout:        3 * time.Second,
		Parallelism:    1,
		MaxBodySize:    2048,
		MaxRedirects:   0,
		DenyPrivateIPs: false,
		RatePerSecond:  2.5,
		Burst:          3,
		CircuitBreaker: false,
		UserAgent:      "test-agent",
	}
	if config != want {
		t.Errorf("LoadConfigFromEnv() = %+v, want %+v", config, want)
	}
}

func TestLoadConfigFromEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"CONTENT_FETCH_TIMEOUT", "fast"},
		{"CONTENT_FETCH_PARALLELISM", "many"},
		{"CONTENT_FETCH_MAX_BODY_SIZE", "big"},
		{"CONTENT_FETCH_MAX_REDIRECTS", "x"},
		{"CONTENT_FETCH_RATE", "quick"},
		{"CONTENT_FETCH_BURST", "y"},
		{"CONTENT_FETCH_PARALLELISM", "100"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := LoadConfigFromEnv(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

// Package circuitbreaker provides circuit breaker implementations for external service calls.
// It uses the github.com/sony/gobreaker library to prevent cascading failures.
package circuitbreaker

import (
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

// Config holds the configuration for a circuit breaker.
type Config struct {
	// Name is the circuit breaker name for logging
	Name string

	// MaxRequests is the maximum number of requests allowed in half-open state
	MaxRequests uint32

	// Interval is the cyclic period of the closed state to clear success/failure counts
	Interval time.Duration

	// Timeout is how long to wait in open state before trying again
	Timeout time.Duration

	// FailureThreshold is the failure ratio threshold to trip the circuit
	// For example, 0.6 means 60% failure rate
	FailureThreshold float64

	// MinRequests is the minimum number of requests before calculating failure ratio
	MinRequests uint32

	// IsSuccessful decides whether an error counts as a failure.
	// Nil counts every non-nil error.
	IsSuccessful func(err error) bool
}

// ScraperConfig returns configuration for full-text page downloads.
// A publisher that fails most of its pages stays open for the rest of a typical run.
func ScraperConfig() Config {
	return Config{
		Name:             "article-scraper",
		MaxRequests:      1,
		Interval:         5 * time.Minute,
		Timeout:          10 * time.Minute,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// CircuitBreaker wraps gobreaker.CircuitBreaker with additional functionality.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
}

// New creates a new circuit breaker with the given configuration.
func New(cfg Config) *CircuitBreaker {
	settings := gobreaker.Settings{
		Name:         cfg.Name,
		MaxRequests:  cfg.MaxRequests,
		Interval:     cfg.Interval,
		Timeout:      cfg.Timeout,
		IsSuccessful: cfg.IsSuccessful,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}

	return &CircuitBreaker{
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// Execute runs the given function through the circuit breaker.
// If the circuit is open, it returns gobreaker.ErrOpenState immediately.
func (cb *CircuitBreaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	return cb.breaker.Execute(fn)
}

// IsOpen returns true if the circuit breaker is in the open state.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.breaker.State() == gobreaker.StateOpen
}

// HostBreakers keeps one circuit breaker per host, created on first use.
// It is safe for concurrent use.
type HostBreakers struct {
	cfg      Config
	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
}

// NewHostBreakers creates an empty set. Breaker names are "<cfg.Name>:<host>".
func NewHostBreakers(cfg Config) *HostBreakers {
	return &HostBreakers{
		cfg:      cfg,
		breakers: make(map[string]*CircuitBreaker),
	}
}

// Get returns the breaker for host.
func (h *HostBreakers) Get(host string) *CircuitBreaker {
	host = strings.ToLower(host)

	h.mu.Lock()
	defer h.mu.Unlock()

	cb, ok := h.breakers[host]
	if !ok {
		cfg := h.cfg
		cfg.Name = h.cfg.Name + ":" + host
		cb = New(cfg)
		h.breakers[host] = cb
	}
	return cb
}

// Execute runs fn through the breaker of host.
func (h *HostBreakers) Execute(host string, fn func() (interface{}, error)) (interface{}, error) {
	return h.Get(host).Execute(fn)
}

// OpenHosts returns the hosts whose breaker is currently open, sorted.
func (h *HostBreakers) OpenHosts() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	var open []string
	for host, cb := range h.breakers {
		if cb.IsOpen() {
			open = append(open, host)
		}
	}
	sort.Strings(open)
	return open
}

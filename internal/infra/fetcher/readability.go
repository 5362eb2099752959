package fetcher

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"news-etl/internal/resilience/circuitbreaker"
)

// ReadabilityFetcher downloads article pages and extracts their text using
// Mozilla Readability, with a goquery paragraph heuristic as fallback.
//
// Every download is bounded by the configured timeout and body size. Redirect
// targets are validated like the original URL. When enabled, a circuit breaker
// per host stops requests to publishers that keep failing, and a shared rate
// limiter spaces requests out.
//
// Thread safety: ReadabilityFetcher is safe for concurrent use.
type ReadabilityFetcher struct {
	client   *http.Client
	breakers *circuitbreaker.HostBreakers
	limiter  *rate.Limiter
	config   ContentFetchConfig
}

// NewReadabilityFetcher creates a fetcher with its own HTTP transport.
//
// Example:
//
//	cfg := DefaultConfig()
//	f := NewReadabilityFetcher(cfg)
//	text, err := f.FetchContent(ctx, "https://example.com/article")
func NewReadabilityFetcher(config ContentFetchConfig) *ReadabilityFetcher {
	fetcher := &ReadabilityFetcher{config: config}

	if config.CircuitBreaker {
		cbConfig := circuitbreaker.ScraperConfig()
		cbConfig.IsSuccessful = pageLevelError
		fetcher.breakers = circuitbreaker.NewHostBreakers(cbConfig)
	}
	if config.RatePerSecond > 0 {
		fetcher.limiter = rate.NewLimiter(rate.Limit(config.RatePerSecond), config.Burst)
	}
	if fetcher.config.UserAgent == "" {
		fetcher.config.UserAgent = DefaultUserAgent
	}

	fetcher.client = &http.Client{
		Timeout: config.Timeout + 5*time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= fetcher.config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
			}
			if _, err := validateURL(req.URL.String(), fetcher.config.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}
			return nil
		},
	}

	return fetcher
}

// FetchContent downloads urlStr and returns its extracted article text.
//
// Errors wrap one of the package sentinels: ErrInvalidURL, ErrPrivateIP,
// ErrTooManyRedirects, ErrBodyTooLarge, ErrTimeout, ErrHTTPStatus,
// ErrExtractionFailed or ErrHostUnavailable.
func (f *ReadabilityFetcher) FetchContent(ctx context.Context, urlStr string) (string, error) {
	u, err := validateURL(urlStr, f.config.DenyPrivateIPs)
	if err != nil {
		return "", err
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}
	}

	if f.breakers == nil {
		return f.doFetch(ctx, u)
	}

	result, err := f.breakers.Execute(u.Hostname(), func() (interface{}, error) {
		return f.doFetch(ctx, u)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("%w: %s: %v", ErrHostUnavailable, u.Hostname(), err)
		}
		return "", err
	}
	return result.(string), nil
}

// OpenHosts returns the hosts currently skipped by their circuit breaker.
func (f *ReadabilityFetcher) OpenHosts() []string {
	if f.breakers == nil {
		return nil
	}
	return f.breakers.OpenHosts()
}

// pageLevelError reports whether err concerns a single page rather than the
// publisher's availability. Such errors do not count toward tripping the
// host breaker.
func pageLevelError(err error) bool {
	if err == nil {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode < 500 && statusErr.StatusCode != http.StatusTooManyRequests
	}
	return errors.Is(err, ErrInvalidURL) ||
		errors.Is(err, ErrPrivateIP) ||
		errors.Is(err, ErrTooManyRedirects) ||
		errors.Is(err, ErrBodyTooLarge) ||
		errors.Is(err, ErrExtractionFailed) ||
		errors.Is(err, context.Canceled)
}

func (f *ReadabilityFetcher) doFetch(ctx context.Context, u *url.URL) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return "", fmt.Errorf("%w: request exceeded %v", ErrTimeout, f.config.Timeout)
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Err != nil {
			if errors.Is(urlErr.Err, ErrTooManyRedirects) || errors.Is(urlErr.Err, ErrInvalidURL) || errors.Is(urlErr.Err, ErrPrivateIP) {
				return "", urlErr.Err
			}
		}
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	htmlBytes, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodySize+1))
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return "", fmt.Errorf("%w: reading body exceeded %v", ErrTimeout, f.config.Timeout)
		}
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(htmlBytes)) > f.config.MaxBodySize {
		return "", fmt.Errorf("%w: response size exceeds limit %d bytes", ErrBodyTooLarge, f.config.MaxBodySize)
	}

	// Relative links resolve against the final URL after redirects.
	pageURL := u
	if resp.Request != nil && resp.Request.URL != nil {
		pageURL = resp.Request.URL
	}

	return extractText(htmlBytes, pageURL)
}

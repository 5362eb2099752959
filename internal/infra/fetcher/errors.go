package fetcher

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by FetchContent. Callers match them with errors.Is.
var (
	// ErrInvalidURL indicates the URL is malformed or uses a scheme other than http/https.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrPrivateIP indicates the host resolves to a private, loopback or link-local address.
	ErrPrivateIP = errors.New("private IP address not allowed")

	// ErrTooManyRedirects indicates the redirect chain exceeded MaxRedirects.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrBodyTooLarge indicates the page exceeded MaxBodySize.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrTimeout indicates the page download exceeded the per-call timeout.
	ErrTimeout = errors.New("content fetch timeout")

	// ErrHTTPStatus indicates a non-200 response.
	ErrHTTPStatus = errors.New("unexpected HTTP status")

	// ErrExtractionFailed indicates no article text could be extracted from the page.
	ErrExtractionFailed = errors.New("content extraction failed")

	// ErrHostUnavailable indicates the host circuit breaker is open.
	ErrHostUnavailable = errors.New("host temporarily unavailable")
)

// StatusError is returned for a non-200 response. It matches ErrHTTPStatus.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: %s", ErrHTTPStatus, e.Status)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrHTTPStatus
}

package newsapi

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingArticles indicates a successful response without an "articles" field.
	ErrMissingArticles = errors.New("response has no articles field")

	// ErrMissingSources indicates a successful response without a "sources" field.
	ErrMissingSources = errors.New("response has no sources field")

	// ErrResponseTooLarge indicates the response body exceeded MaxResponseSize.
	ErrResponseTooLarge = errors.New("response body too large")
)

// APIError is returned when the API answers with a non-2xx status or status "error".
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" && e.Message == "" {
		return fmt.Sprintf("news api: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("news api: HTTP %d: %s: %s", e.StatusCode, e.Code, e.Message)
}

// Package newsapi implements a client for the News API v2 REST endpoints
// used by the pipeline: "everything" for article search and "sources" for the
// publisher catalog.
package newsapi

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"news-etl/internal/domain/entity"
)

// Query describes one everything request.
type Query = entity.ArticleQuery

type everythingResponse struct {
	Status       string                `json:"status"`
	TotalResults int                   `json:"totalResults"`
	Articles     *[]entity.NewsArticle `json:"articles"`
	Code         string                `json:"code"`
	Message      string                `json:"message"`
}

type sourcesResponse struct {
	Status  string            `json:"status"`
	Sources *[]map[string]any `json:"sources"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Client calls the News API. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	config     Config
}

// NewClient creates a client with its own HTTP transport.
func NewClient(cfg Config) *Client {
	return NewClientWithHTTPClient(cfg, &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	})
}

// NewClientWithHTTPClient creates a client on top of an existing HTTP client.
func NewClientWithHTTPClient(cfg Config, httpClient *http.Client) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{httpClient: httpClient, config: cfg}
}

// Everything runs a single everything search and returns the articles in response order.
//
// A non-2xx status or an error payload yields *APIError. A 2xx response that
// lacks the articles field yields ErrMissingArticles.
func (c *Client) Everything(ctx context.Context, q Query) ([]entity.NewsArticle, error) {
	params := url.Values{}
	if len(q.Sources) > 0 {
		params.Set("sources", strings.Join(q.Sources, ","))
	}
	if !q.From.IsZero() {
		params.Set("from", q.From.Format(entity.DateLayout))
	}
	if !q.To.IsZero() {
		params.Set("to", q.To.Format(entity.DateLayout))
	}
	if q.Language != "" {
		params.Set("language", q.Language)
	}
	if c.config.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(c.config.PageSize))
	}

	var resp everythingResponse
	status, err := c.get(ctx, "/everything", params, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Status != "" && resp.Status != "ok" {
		return nil, &APIError{StatusCode: status, Code: resp.Code, Message: resp.Message}
	}
	if resp.Articles == nil {
		return nil, ErrMissingArticles
	}
	return *resp.Articles, nil
}

// Sources returns the raw source objects of the catalog endpoint.
func (c *Client) Sources(ctx context.Context) ([]map[string]any, error) {
	var resp sourcesResponse
	status, err := c.get(ctx, "/sources", url.Values{}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Status != "" && resp.Status != "ok" {
		return nil, &APIError{StatusCode: status, Code: resp.Code, Message: resp.Message}
	}
	if resp.Sources == nil {
		return nil, ErrMissingSources
	}
	return *resp.Sources, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) (int, error) {
	params.Set("apiKey", c.config.APIKey)
	fullURL := c.config.BaseURL + path + "?" + params.Encode()

	slog.Info("Fetching", slog.String("url", redactURL(fullURL)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("news api request: %s", redactURL(err.Error()))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxResponseSize+1))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response body: %w", err)
	}
	if int64(len(body)) > c.config.MaxResponseSize {
		return resp.StatusCode, fmt.Errorf("%w: exceeds %d bytes", ErrResponseTooLarge, c.config.MaxResponseSize)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Error("news api error response",
			slog.Int("status", resp.StatusCode),
			slog.String("body", truncate(string(body), 512)))
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload errorResponse
		if json.Unmarshal(body, &payload) == nil {
			apiErr.Code = payload.Code
			apiErr.Message = payload.Message
		}
		return resp.StatusCode, apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}

// redactURL hides the apiKey query value in s.
func redactURL(s string) string {
	const marker = "apiKey="
	i := strings.Index(s, marker)
	if i < 0 {
		return s
	}
	start := i + len(marker)
	end := strings.IndexAny(s[start:], "&\" ")
	if end < 0 {
		return s[:start] + "REDACTED"
	}
	return s[:start] + "REDACTED" + s[start+end:]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

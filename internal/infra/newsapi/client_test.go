package newsapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-etl/internal/domain/entity"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := DefaultConfig()
	cfg.APIKey = "secret-key"
	cfg.BaseURL = server.URL + "/v2/"
	return NewClientWithHTTPClient(cfg, server.Client())
}

/* ───────────────────────── Everything ───────────────────────── */

func TestClient_Everything_Success(t *testing.T) {
	var gotQuery map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/everything", r.URL.Path)
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "ok",
			"totalResults": 2,
			"articles": [
				{"source": {"id": "fortune", "name": "Fortune"}, "author": null, "title": "A",
				 "description": "desc A", "url": "https://fortune.com/a",
				 "publishedAt": "2025-04-01T10:00:00Z", "content": "short A"},
				{"source": {"id": null, "name": "Bloomberg"}, "author": "Jane", "title": "B",
				 "url": "https://bloomberg.com/b", "publishedAt": "2025-04-01T11:00:00Z"}
			]
		}`))
	})

	articles, err := client.Everything(context.Background(), Query{
		Sources:  []string{"fortune", "bloomberg"},
		Language: "en",
		From:     time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		To:       time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	wantQuery := map[string]string{
		"sources":  "fortune,bloomberg",
		"from":     "2025-04-01",
		"to":       "2025-04-02",
		"language": "en",
		"apiKey":   "secret-key",
	}
	if diff := cmp.Diff(wantQuery, gotQuery); diff != "" {
		t.Errorf("query mismatch (-want +got):\n%s", diff)
	}

	want := []entity.NewsArticle{
		{
			Source:      entity.ArticleSource{ID: entity.StringPtr("fortune"), Name: "Fortune"},
			Title:       entity.StringPtr("A"),
			Description: entity.StringPtr("desc A"),
			URL:         "https://fortune.com/a",
			PublishedAt: "2025-04-01T10:00:00Z",
			Content:     entity.StringPtr("short A"),
		},
		{
			Source:      entity.ArticleSource{Name: "Bloomberg"},
			Author:      entity.StringPtr("Jane"),
			Title:       entity.StringPtr("B"),
			URL:         "https://bloomberg.com/b",
			PublishedAt: "2025-04-01T11:00:00Z",
		},
	}
	if diff := cmp.Diff(want, articles); diff != "" {
		t.Errorf("articles mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_Everything_PageSize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("pageSize"))
		_, _ = w.Write([]byte(`{"status":"ok","articles":[]}`))
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.APIKey = "k"
	cfg.BaseURL = server.URL
	cfg.PageSize = 100
	client := NewClientWithHTTPClient(cfg, server.Client())

	articles, err := client.Everything(context.Background(), Query{})
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestClient_Everything_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantErr    error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "rate limited",
			status:     http.StatusTooManyRequests,
			body:       `{"status":"error","code":"rateLimited","message":"too many"}`,
			wantStatus: http.StatusTooManyRequests,
			wantCode:   "rateLimited",
		},
		{
			name:       "unauthorized with non-json body",
			status:     http.StatusUnauthorized,
			body:       `nope`,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "error payload with 200",
			status:     http.StatusOK,
			body:       `{"status":"error","code":"parameterInvalid","message":"bad"}`,
			wantStatus: http.StatusOK,
			wantCode:   "parameterInvalid",
		},
		{
			name:    "missing articles",
			status:  http.StatusOK,
			body:    `{"status":"ok","totalResults":0}`,
			wantErr: ErrMissingArticles,
		},
		{
			name:    "null articles",
			status:  http.StatusOK,
			body:    `{"status":"ok","articles":null}`,
			wantErr: ErrMissingArticles,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Everything(context.Background(), Query{Sources: []string{"fortune"}})
			require.Error(t, err)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.NotContains(t, err.Error(), "secret-key")
		})
	}
}

func TestClient_Everything_ResponseTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 4096))
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.APIKey = "k"
	cfg.BaseURL = server.URL
	cfg.MaxResponseSize = 1024
	client := NewClientWithHTTPClient(cfg, server.Client())

	_, err := client.Everything(context.Background(), Query{})
	assert.ErrorIs(t, err, ErrResponseTooLarge)
}

/* ───────────────────────── Sources ───────────────────────── */

func TestClient_Sources(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/sources", r.URL.Path)
		assert.Equal(t, "secret-key", r.URL.Query().Get("apiKey"))
		_, _ = w.Write([]byte(`{"status":"ok","sources":[
			{"id":"abc-news","name":"ABC News","category":"general"},
			{"id":"fortune","name":"Fortune","category":"business"}
		]}`))
	})

	sources, err := client.Sources(context.Background())
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "ABC News", sources[0]["name"])
	assert.Equal(t, "business", sources[1]["category"])
}

func TestClient_Sources_Missing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	_, err := client.Sources(context.Background())
	assert.ErrorIs(t, err, ErrMissingSources)
}

/* ───────────────────────── helpers ───────────────────────── */

func TestRedactURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://x/v2/everything?apiKey=abc&from=2025", "https://x/v2/everything?apiKey=REDACTED&from=2025"},
		{"https://x/v2/sources?apiKey=abc", "https://x/v2/sources?apiKey=REDACTED"},
		{`Get "https://x/v2/sources?apiKey=abc": refused`, `Get "https://x/v2/sources?apiKey=REDACTED": refused`},
		{"https://x/v2/sources", "https://x/v2/sources"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, redactURL(tt.in))
	}
}

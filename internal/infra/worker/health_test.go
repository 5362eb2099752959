package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, healthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var body healthResponse
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHealthServer_Liveness(t *testing.T) {
	server := NewHealthServer(":0", testLogger(), nil)

	rec, body := get(t, server.Handler(), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body.Status)
}

func TestHealthServer_Readiness(t *testing.T) {
	server := NewHealthServer(":0", testLogger(), nil)
	h := server.Handler()

	rec, body := get(t, h, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not ready", body.Status)
	assert.Nil(t, body.LastRun)

	server.SetReady(true)
	finished := time.Date(2025, 4, 23, 5, 30, 0, 0, time.UTC)
	server.RecordRun("run-1", true, finished)

	rec, body = get(t, h, "/health/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, body.LastRun)
	assert.Equal(t, "run-1", body.LastRun.RunID)
	assert.True(t, body.LastRun.Success)
	assert.True(t, finished.Equal(body.LastRun.FinishedAt))

	server.SetReady(false)
	rec, _ = get(t, h, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthServer_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "news_etl_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	rec, _ := get(t, NewHealthServer(":0", testLogger(), reg).Handler(), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "news_etl_test_total 1")

	rec, _ = get(t, NewHealthServer(":0", testLogger(), nil).Handler(), "/metrics")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthServer_MethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthServer(":0", testLogger(), nil).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthServer_StartAndShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	server := NewHealthServer(addr, testLogger(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Start(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, http.ErrServerClosed))
	case <-time.After(6 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestHealthServer_StartFailsOnBusyPort(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = ln.Close() }()

	server := NewHealthServer(ln.Addr().String(), testLogger(), nil)
	err = server.Start(context.Background())
	assert.Error(t, err)
	assert.False(t, errors.Is(err, http.ErrServerClosed))
}

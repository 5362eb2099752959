// Package worker runs the pipeline on a cron schedule and exposes health and
// metrics endpoints while it waits between runs.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthServer serves:
//   - GET /health: liveness, always 200
//   - GET /health/ready: 200 once the scheduler is running, 503 before
//   - GET /metrics: the pipeline registry in Prometheus text format
type HealthServer struct {
	addr     string
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	isReady  atomic.Bool

	mu      sync.RWMutex
	lastRun *runStatus
}

type runStatus struct {
	RunID      string    `json:"run_id"`
	Success    bool      `json:"success"`
	FinishedAt time.Time `json:"finished_at"`
}

type healthResponse struct {
	Status  string     `json:"status"`
	LastRun *runStatus `json:"last_run,omitempty"`
}

// NewHealthServer creates a server listening on addr. A nil gatherer
// leaves /metrics unregistered.
func NewHealthServer(addr string, logger *slog.Logger, gatherer prometheus.Gatherer) *HealthServer {
	return &HealthServer{addr: addr, logger: logger, gatherer: gatherer}
}

// Handler returns the HTTP handler of the server.
func (h *HealthServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.handleLiveness)
	mux.HandleFunc("GET /health/ready", h.handleReadiness)
	if h.gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}

// Start serves until ctx is cancelled, then shuts down within 5 seconds.
// It returns http.ErrServerClosed after a graceful shutdown.
func (h *HealthServer) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              h.addr,
		Handler:           h.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		h.logger.Info("health server starting", slog.String("addr", h.addr))
		errChan <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			h.logger.Error("health server shutdown failed", slog.Any("error", err))
			return err
		}
		h.logger.Info("health server stopped")
		return http.ErrServerClosed
	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			h.logger.Error("health server failed", slog.Any("error", err))
		}
		return err
	}
}

// SetReady changes the readiness reported by /health/ready.
func (h *HealthServer) SetReady(ready bool) {
	h.isReady.Store(ready)
	h.logger.Info("health server readiness changed", slog.Bool("ready", ready))
}

// RecordRun stores the outcome of the latest run for /health/ready.
func (h *HealthServer) RecordRun(runID string, success bool, finishedAt time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastRun = &runStatus{RunID: runID, Success: success, FinishedAt: finishedAt}
}

func (h *HealthServer) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (h *HealthServer) handleReadiness(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	resp := healthResponse{Status: "ok", LastRun: h.lastRun}
	h.mu.RUnlock()

	status := http.StatusOK
	if !h.isReady.Load() {
		status = http.StatusServiceUnavailable
		resp.Status = "not ready"
	}
	h.writeJSON(w, status, resp)
}

func (h *HealthServer) writeJSON(w http.ResponseWriter, status int, body healthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode health response", slog.Any("error", err))
	}
}

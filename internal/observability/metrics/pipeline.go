package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// PipelineMetrics holds the metrics of ETL runs.
type PipelineMetrics struct {
	registry *prometheus.Registry

	// RunsTotal counts runs by status (success, failure)
	RunsTotal *prometheus.CounterVec

	// RunDuration measures run duration in seconds
	RunDuration prometheus.Histogram

	// LastSuccessTimestamp is the Unix time of the last successful run
	LastSuccessTimestamp prometheus.Gauge

	// APICallsTotal counts News API calls by result (ok, empty, error)
	APICallsTotal *prometheus.CounterVec

	// ArticlesFetchedTotal counts articles returned by the News API
	ArticlesFetchedTotal prometheus.Counter

	// ScrapeAttemptsTotal counts full-text scrapes by result (success, failure, skipped)
	ScrapeAttemptsTotal *prometheus.CounterVec

	// ScrapeDuration measures time to download and extract one page
	ScrapeDuration prometheus.Histogram

	// ScrapeSize measures extracted text size in bytes
	ScrapeSize prometheus.Histogram

	// RowsLoadedTotal counts rows written to the warehouse
	RowsLoadedTotal prometheus.Counter

	// ConfigFallbacksTotal counts configuration values replaced by defaults
	ConfigFallbacksTotal *prometheus.CounterVec
}

// NewPipelineMetrics creates and registers the pipeline metrics on reg.
func NewPipelineMetrics(reg *prometheus.Registry) *PipelineMetrics {
	factory := promauto.With(reg)
	return &PipelineMetrics{
		registry: reg,

		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "news_etl_runs_total",
			Help: "Total number of ETL runs by status",
		}, []string{"status"}),

		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "news_etl_run_duration_seconds",
			Help:    "Duration of ETL runs in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800, 3600},
		}),

		LastSuccessTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "news_etl_last_success_timestamp",
			Help: "Unix timestamp of the last successful ETL run",
		}),

		APICallsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "news_etl_api_calls_total",
			Help: "Total number of News API calls by result",
		}, []string{"result"}),

		ArticlesFetchedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "news_etl_articles_fetched_total",
			Help: "Total number of articles returned by the News API",
		}),

		ScrapeAttemptsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "news_etl_scrape_attempts_total",
			Help: "Total number of full-text scrape attempts by result",
		}, []string{"result"}),

		ScrapeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "news_etl_scrape_duration_seconds",
			Help:    "Time taken to download and extract an article page",
			Buckets: []float64{0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8},
		}),

		ScrapeSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "news_etl_scrape_size_bytes",
			Help:    "Extracted article text size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 2, 12),
		}),

		RowsLoadedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "news_etl_rows_loaded_total",
			Help: "Total number of rows written to the warehouse",
		}),

		ConfigFallbacksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "news_etl_config_fallbacks_total",
			Help: "Total number of configuration values replaced by their default",
		}, []string{"field"}),
	}
}

// Registry returns the registry the metrics are registered on.
func (m *PipelineMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordRun records the outcome and duration of a run.
func (m *PipelineMetrics) RecordRun(success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.Observe(duration.Seconds())
	if success {
		m.LastSuccessTimestamp.SetToCurrentTime()
	}
}

// RecordAPICall records one News API call with the number of articles it returned.
func (m *PipelineMetrics) RecordAPICall(articles int, err error) {
	switch {
	case err != nil:
		m.APICallsTotal.WithLabelValues("error").Inc()
	case articles == 0:
		m.APICallsTotal.WithLabelValues("empty").Inc()
	default:
		m.APICallsTotal.WithLabelValues("ok").Inc()
		m.ArticlesFetchedTotal.Add(float64(articles))
	}
}

// RecordScrapeSuccess records a successful page extraction.
func (m *PipelineMetrics) RecordScrapeSuccess(duration time.Duration, size int) {
	m.ScrapeAttemptsTotal.WithLabelValues("success").Inc()
	m.ScrapeDuration.Observe(duration.Seconds())
	m.ScrapeSize.Observe(float64(size))
}

// RecordScrapeFailure records a failed page extraction.
func (m *PipelineMetrics) RecordScrapeFailure(duration time.Duration) {
	m.ScrapeAttemptsTotal.WithLabelValues("failure").Inc()
	m.ScrapeDuration.Observe(duration.Seconds())
}

// RecordScrapeSkipped records an article that was not scraped.
func (m *PipelineMetrics) RecordScrapeSkipped() {
	m.ScrapeAttemptsTotal.WithLabelValues("skipped").Inc()
}

// RecordRowsLoaded adds rows written to the warehouse.
func (m *PipelineMetrics) RecordRowsLoaded(rows int64) {
	m.RowsLoadedTotal.Add(float64(rows))
}

// RecordConfigFallback records a configuration field that fell back to its default.
func (m *PipelineMetrics) RecordConfigFallback(field string) {
	m.ConfigFallbacksTotal.WithLabelValues(field).Inc()
}

// Push sends every metric of the registry to the Pushgateway at url,
// replacing the previous push of job.
func (m *PipelineMetrics) Push(ctx context.Context, url, job string) error {
	if err := push.New(url, job).Gatherer(m.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}

package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"news-etl/internal/domain/entity"
	"news-etl/internal/observability/logging"
	"news-etl/internal/observability/metrics"
	"news-etl/internal/observability/tracing"
	"news-etl/internal/report"
)

// ArticleSearcher queries the search endpoint of the news API.
type ArticleSearcher interface {
	Everything(ctx context.Context, q entity.ArticleQuery) ([]entity.NewsArticle, error)
}

// ContentFetcher downloads a page and returns its extracted body text.
type ContentFetcher interface {
	FetchContent(ctx context.Context, url string) (string, error)
}

// hostReporter is implemented by fetchers that stop requesting publishers
// which keep failing.
type hostReporter interface {
	OpenHosts() []string
}

// SnapshotWriter persists the assembled records to the local snapshot file,
// replacing any previous snapshot.
type SnapshotWriter func(path string, records []entity.ArticleRecord) error

// RecordLoader bulk-loads records into the warehouse table.
type RecordLoader interface {
	Load(ctx context.Context, records []entity.ArticleRecord) (entity.LoadResult, error)
	Table() string
}

// Config controls a pipeline run.
type Config struct {
	// Sources are the news API source identifiers to query.
	Sources []string
	// Language filters articles by language code.
	Language string
	// SnapshotPath is the CSV file written before the load.
	SnapshotPath string
	// Parallelism bounds concurrent scrapes. 1 scrapes sequentially.
	Parallelism int
	// PreviewRows is the number of records printed after the snapshot.
	PreviewRows int
}

// Service wires the pipeline stages together.
type Service struct {
	Searcher ArticleSearcher
	Fetcher  ContentFetcher // nil disables scraping
	Snapshot SnapshotWriter
	Loader   RecordLoader
	Metrics  *metrics.PipelineMetrics
	Out      io.Writer // console output; nil discards it

	config Config
}

// NewService creates a pipeline service. A nil fetcher leaves every
// content_scraped value absent; nil metrics are recorded on a private registry.
func NewService(
	searcher ArticleSearcher,
	fetcher ContentFetcher,
	snapshot SnapshotWriter,
	loader RecordLoader,
	m *metrics.PipelineMetrics,
	out io.Writer,
	config Config,
) *Service {
	if config.Parallelism < 1 {
		config.Parallelism = 1
	}
	if out == nil {
		out = io.Discard
	}
	if m == nil {
		m = metrics.NewPipelineMetrics(prometheus.NewRegistry())
	}
	return &Service{
		Searcher: searcher,
		Fetcher:  fetcher,
		Snapshot: snapshot,
		Loader:   loader,
		Metrics:  m,
		Out:      out,
		config:   config,
	}
}

// RunStats summarizes one pipeline run.
type RunStats struct {
	Window        entity.DateRange
	APICalls      int
	Articles      int
	ScrapeFailed  int
	ScrapeSkipped int    // not attempted because scraping is disabled
	HaltedOn      string // day collection stopped at, empty when every day was fetched
	SnapshotPath  string
	Load          entity.LoadResult
	Duration      time.Duration

	// UnavailableHosts lists publishers whose circuit breaker was open when
	// enrichment finished.
	UnavailableHosts []string
}

// Run executes the pipeline over window.
//
// Scrape failures degrade single records. Snapshot and load failures end the
// run with an error wrapping ErrSnapshotFailed or ErrLoadFailed.
func (s *Service) Run(ctx context.Context, window entity.DateRange) (*RunStats, error) {
	ctx, span := tracing.StartSpan(ctx, "ingest.run")
	defer span.End()

	logger := logging.FromContext(ctx)
	start := time.Now()
	stats := &RunStats{Window: window, SnapshotPath: s.config.SnapshotPath}

	err := s.run(ctx, window, stats)
	stats.Duration = time.Since(start)
	s.Metrics.RecordRun(err == nil, stats.Duration)
	if err != nil {
		tracing.RecordError(span, err)
		return stats, err
	}

	logger.Info("pipeline run completed",
		slog.String("window", window.String()),
		slog.Int("api_calls", stats.APICalls),
		slog.Int("articles", stats.Articles),
		slog.Int("scrape_failed", stats.ScrapeFailed),
		slog.Int("scrape_skipped", stats.ScrapeSkipped),
		slog.Int64("rows", stats.Load.Rows),
		slog.Duration("duration", stats.Duration),
	)
	return stats, nil
}

func (s *Service) run(ctx context.Context, window entity.DateRange, stats *RunStats) error {
	logger := logging.FromContext(ctx)

	articles, err := s.collect(ctx, window, stats)
	if err != nil {
		return err
	}

	results, err := s.enrich(ctx, articles)
	if err != nil {
		return err
	}
	for _, r := range results {
		switch {
		case errors.Is(r.Err, errScrapeDisabled):
			stats.ScrapeSkipped++
		case r.Err != nil:
			stats.ScrapeFailed++
		}
	}
	if hr, ok := s.Fetcher.(hostReporter); ok {
		stats.UnavailableHosts = hr.OpenHosts()
		if len(stats.UnavailableHosts) > 0 {
			logger.Warn("publishers skipped after repeated failures",
				slog.Any("hosts", stats.UnavailableHosts))
		}
	}

	records := Assemble(articles, results)

	if err := s.Snapshot(s.config.SnapshotPath, records); err != nil {
		return fmt.Errorf("%w %s: %w", ErrSnapshotFailed, s.config.SnapshotPath, err)
	}
	logger.Info("snapshot written",
		slog.String("path", s.config.SnapshotPath),
		slog.Int("records", len(records)))

	if s.config.PreviewRows > 0 {
		if err := report.PrintPreview(s.Out, records, s.config.PreviewRows); err != nil {
			logger.Warn("failed to print preview", slog.Any("error", err))
		}
	}

	ctx, span := tracing.StartSpan(ctx, "ingest.load")
	defer span.End()

	result, err := s.Loader.Load(ctx, records)
	stats.Load = result
	s.Metrics.RecordRowsLoaded(result.Rows)
	if err != nil {
		tracing.RecordError(span, err)
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	if err := report.PrintLoadResult(s.Out, s.Loader.Table(), result); err != nil {
		logger.Warn("failed to print load result", slog.Any("error", err))
	}
	if !result.Success {
		return fmt.Errorf("%w: %d of %d rows written to %s", ErrLoadFailed, result.Rows, len(records), s.Loader.Table())
	}
	return nil
}

package ingest

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"news-etl/internal/domain/entity"
	"news-etl/internal/observability/logging"
	"news-etl/internal/observability/tracing"
)

// ScrapeResult is the outcome of scraping one article page.
// Exactly one of Text and Err is meaningful.
type ScrapeResult struct {
	URL  string
	Text string
	Err  error
}

// OK reports whether the scrape produced text.
func (r ScrapeResult) OK() bool {
	return r.Err == nil
}

var errScrapeDisabled = errors.New("content scraping disabled")

// enrich scrapes every article with at most Parallelism requests in flight.
// results[i] belongs to articles[i]. A failed scrape is logged with its URL
// and never fails the batch; only context cancellation does.
func (s *Service) enrich(ctx context.Context, articles []entity.NewsArticle) ([]ScrapeResult, error) {
	ctx, span := tracing.StartSpan(ctx, "ingest.enrich")
	defer span.End()

	results := make([]ScrapeResult, len(articles))
	if s.Fetcher == nil {
		for i, a := range articles {
			results[i] = ScrapeResult{URL: a.URL, Err: errScrapeDisabled}
			s.Metrics.RecordScrapeSkipped()
		}
		return results, nil
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.config.Parallelism)

	for i, a := range articles {
		eg.Go(func() error {
			results[i] = s.scrape(egCtx, a.URL)
			return egCtx.Err()
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) scrape(ctx context.Context, url string) ScrapeResult {
	logger := logging.FromContext(ctx)
	start := time.Now()
	text, err := s.Fetcher.FetchContent(ctx, url)
	duration := time.Since(start)

	if err != nil {
		s.Metrics.RecordScrapeFailure(duration)
		logger.Warn("Failed to parse",
			slog.String("url", url),
			slog.Duration("duration", duration),
			slog.Any("error", err))
		return ScrapeResult{URL: url, Err: err}
	}

	s.Metrics.RecordScrapeSuccess(duration, len(text))
	logger.Debug("article scraped",
		slog.String("url", url),
		slog.Int("length", len(text)),
		slog.Duration("duration", duration))
	return ScrapeResult{URL: url, Text: text}
}

package ingest

import (
	"context"
	"errors"
	"log/slog"

	"news-etl/internal/domain/entity"
	"news-etl/internal/observability/logging"
	"news-etl/internal/observability/tracing"
)

// collect issues one search call per day of window, from day D to D+1.
//
// Collection stops at the first day whose call fails or returns no articles;
// articles gathered before that day are kept. Only context cancellation is
// returned as an error.
func (s *Service) collect(ctx context.Context, window entity.DateRange, stats *RunStats) ([]entity.NewsArticle, error) {
	ctx, span := tracing.StartSpan(ctx, "ingest.collect")
	defer span.End()
	logger := logging.FromContext(ctx)

	var all []entity.NewsArticle
	for _, day := range window.Days() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		q := entity.ArticleQuery{
			Sources:  s.config.Sources,
			Language: s.config.Language,
			From:     day,
			To:       day.AddDate(0, 0, 1),
		}
		articles, err := s.Searcher.Everything(ctx, q)
		stats.APICalls++
		s.Metrics.RecordAPICall(len(articles), err)

		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			logger.Error("article search failed, stopping collection",
				slog.String("day", day.Format(entity.DateLayout)),
				slog.Int("collected", len(all)),
				slog.Any("error", err))
			stats.HaltedOn = day.Format(entity.DateLayout)
			break
		}
		if len(articles) == 0 {
			logger.Info("no articles returned, stopping collection",
				slog.String("day", day.Format(entity.DateLayout)),
				slog.Int("collected", len(all)))
			stats.HaltedOn = day.Format(entity.DateLayout)
			break
		}

		logger.Info("articles fetched",
			slog.String("day", day.Format(entity.DateLayout)),
			slog.Int("count", len(articles)))
		all = append(all, articles...)
	}

	stats.Articles = len(all)
	return all, nil
}

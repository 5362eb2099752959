package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"news-etl/internal/config"
	"news-etl/internal/infra/fetcher"
	"news-etl/internal/infra/newsapi"
	"news-etl/internal/infra/snapshot"
	"news-etl/internal/infra/warehouse"
	workerPkg "news-etl/internal/infra/worker"
	"news-etl/internal/observability/logging"
	"news-etl/internal/observability/metrics"
	"news-etl/internal/observability/tracing"
	"news-etl/internal/usecase/ingest"
)

const pushJob = "news_etl"

type options struct {
	overrides config.Overrides
	once      bool
}

func main() {
	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	opts := parseFlags()
	if err := run(opts, logger); err != nil {
		logger.Error("news etl failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.overrides.ConfigFile, "config", "", "Path to YAML job file (default: ETL_CONFIG_FILE)")
	flag.StringVar(&o.overrides.From, "from", "", "Inclusive start date, YYYY-MM-DD")
	flag.StringVar(&o.overrides.To, "to", "", "Inclusive end date, YYYY-MM-DD (default: same as -from)")
	flag.StringVar(&o.overrides.Sources, "sources", "", "Comma-separated News API source ids")
	flag.BoolVar(&o.once, "once", false, "Run a single time even when a cron schedule is configured")
	flag.Parse()
	return o
}

func run(opts options, logger *slog.Logger) error {
	cfg, err := config.Load(opts.overrides)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if opts.once {
		cfg.Job.CronSchedule = ""
	}
	if err := cfg.ValidateForPipeline(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewPipelineMetrics(reg)
	cfg.Fallbacks.Report(logger, m)

	shutdownTracing := tracing.Init("news-etl")
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn("failed to shut down tracer provider", slog.Any("error", err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := newPipeline(cfg, m)
	logger.Info("news etl configured",
		slog.Any("sources", cfg.Job.Sources),
		slog.String("language", cfg.Job.Language),
		slog.String("warehouse", string(cfg.Warehouse.Driver)),
		slog.String("table", p.target.Table()),
		slog.Bool("scraping", cfg.Fetcher.Enabled),
		slog.Int("parallelism", cfg.Fetcher.Parallelism))

	if cfg.Job.CronSchedule == "" {
		_, err := p.runOnce(ctx, logger)
		return err
	}
	return runScheduled(ctx, logger, cfg, p, reg)
}

// pipeline holds what every run shares.
type pipeline struct {
	cfg     *config.AppConfig
	metrics *metrics.PipelineMetrics
	client  *newsapi.Client
	fetcher ingest.ContentFetcher
	target  *warehouse.Target
}

func newPipeline(cfg *config.AppConfig, m *metrics.PipelineMetrics) *pipeline {
	p := &pipeline{
		cfg:     cfg,
		metrics: m,
		client:  newsapi.NewClient(cfg.NewsAPI),
		target:  warehouse.NewTarget(cfg.Warehouse),
	}
	if cfg.Fetcher.Enabled {
		p.fetcher = fetcher.NewReadabilityFetcher(cfg.Fetcher)
	}
	return p
}

// runOnce resolves the window against the current time and executes one run.
func (p *pipeline) runOnce(ctx context.Context, logger *slog.Logger) (string, error) {
	runID := uuid.NewString()
	runLogger := logging.WithRunID(logger, runID)
	ctx = logging.WithLogger(ctx, runLogger)

	window, err := p.cfg.Job.Window(time.Now())
	if err != nil {
		return runID, fmt.Errorf("resolve date window: %w", err)
	}
	runLogger.Info("pipeline run started", slog.String("window", window.String()))

	svc := ingest.NewService(
		p.client,
		p.fetcher,
		snapshot.WriteArticles,
		p.target,
		p.metrics,
		os.Stdout,
		ingest.Config{
			Sources:      p.cfg.Job.Sources,
			Language:     p.cfg.Job.Language,
			SnapshotPath: p.cfg.Job.SnapshotPath,
			Parallelism:  p.cfg.Fetcher.Parallelism,
			PreviewRows:  p.cfg.Job.PreviewRows,
		},
	)
	_, runErr := svc.Run(ctx, window)

	if url := p.cfg.Job.PushgatewayURL; url != "" {
		// Push even after a cancelled run so the failure is visible.
		pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := p.metrics.Push(pushCtx, url, pushJob); err != nil {
			runLogger.Warn("failed to push metrics", slog.Any("error", err))
		}
	}
	return runID, runErr
}

// runScheduled serves health and metrics endpoints and runs the pipeline on
// the cron schedule until ctx is cancelled.
func runScheduled(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig, p *pipeline, reg *prometheus.Registry) error {
	healthServer := workerPkg.NewHealthServer(cfg.Job.HealthAddr, logger, reg)
	go func() {
		if err := healthServer.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", cfg.Job.HealthAddr))

	job := func(ctx context.Context) error {
		runID, err := p.runOnce(ctx, logger)
		healthServer.RecordRun(runID, err == nil, time.Now())
		return err
	}

	scheduler, err := workerPkg.NewScheduler(cfg.Job.CronSchedule, cfg.Job.Location(), cfg.Job.RunTimeout, logger, job)
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	logger.Info("scheduling pipeline",
		slog.String("schedule", cfg.Job.CronSchedule),
		slog.String("timezone", cfg.Job.Timezone),
		slog.Duration("run_timeout", cfg.Job.RunTimeout))

	healthServer.SetReady(true)
	scheduler.Run(ctx)
	healthServer.SetReady(false)
	return nil
}

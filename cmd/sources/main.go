package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"news-etl/internal/config"
	"news-etl/internal/infra/newsapi"
	"news-etl/internal/infra/snapshot"
	"news-etl/internal/observability/logging"
	"news-etl/internal/usecase/catalog"
)

func main() {
	_ = godotenv.Load()

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	configFile := flag.String("config", "", "Path to YAML job file (default: ETL_CONFIG_FILE)")
	out := flag.String("out", "", "Spreadsheet path (default: CATALOG_PATH or "+snapshot.DefaultCatalogPath+")")
	flag.Parse()

	if err := run(logger, *configFile, *out); err != nil {
		logger.Error("source catalog export failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger, configFile, out string) error {
	cfg, err := config.Load(config.Overrides{ConfigFile: configFile})
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if out != "" {
		cfg.Job.CatalogPath = out
	}
	if err := cfg.ValidateForCatalog(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc := &catalog.Service{
		Lister: newsapi.NewClient(cfg.NewsAPI),
		Write:  snapshot.WriteSpreadsheet,
		Out:    os.Stdout,
		Path:   cfg.Job.CatalogPath,
	}
	result, err := svc.Export(ctx)
	if err != nil {
		return err
	}

	logger.Info("source catalog exported",
		slog.String("path", result.Path),
		slog.Int("entries", result.Entries),
		slog.Int("columns", len(result.Columns)),
		slog.Int("distinct_names", len(result.Names)))
	return nil
}

// Package config assembles the configuration of the news-etl commands.
//
// Values are resolved in order: package defaults, the optional YAML job file,
// environment variables, then command-line overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"news-etl/internal/domain/entity"
	"news-etl/internal/infra/fetcher"
	"news-etl/internal/infra/newsapi"
	"news-etl/internal/infra/snapshot"
	"news-etl/internal/infra/warehouse"
	pkgconfig "news-etl/internal/pkg/config"
)

const (
	DefaultLanguage     = "en"
	DefaultLookbackDays = 1
	DefaultTimezone     = "UTC"
	DefaultHealthAddr   = ":9091"
	DefaultRunTimeout   = 2 * time.Hour
	maxLookbackDays     = 365
)

// JobConfig describes what a run fetches and where its files go.
type JobConfig struct {
	Sources      []string
	Language     string
	From         string // inclusive start date, YYYY-MM-DD
	To           string // inclusive end date, YYYY-MM-DD
	LookbackDays int    // window length when From and To are unset
	SnapshotPath string
	CatalogPath  string
	PreviewRows  int

	// CronSchedule runs the pipeline repeatedly when set.
	CronSchedule string
	Timezone     string
	HealthAddr   string        // health and metrics listener in scheduled mode
	RunTimeout   time.Duration // upper bound of one run

	// PushgatewayURL receives run metrics when set.
	PushgatewayURL string
}

// AppConfig is the complete configuration of a command.
type AppConfig struct {
	Job       JobConfig
	NewsAPI   newsapi.Config
	Fetcher   fetcher.ContentFetchConfig
	Warehouse warehouse.Config

	// Fallbacks lists job settings that were invalid and replaced by defaults.
	Fallbacks *pkgconfig.Fallbacks
}

// Overrides carries command-line values. Empty fields are ignored.
type Overrides struct {
	ConfigFile string
	From       string
	To         string
	Sources    string
}

// DefaultJobConfig returns the job settings used when nothing is configured.
func DefaultJobConfig() JobConfig {
	return JobConfig{
		Sources:      append([]string(nil), entity.DefaultSources...),
		Language:     DefaultLanguage,
		LookbackDays: DefaultLookbackDays,
		SnapshotPath: snapshot.DefaultArticlesPath,
		CatalogPath:  snapshot.DefaultCatalogPath,
		PreviewRows:  5,
		Timezone:     DefaultTimezone,
		HealthAddr:   DefaultHealthAddr,
		RunTimeout:   DefaultRunTimeout,
	}
}

// Load resolves the configuration. It does not validate; call
// ValidateForPipeline or ValidateForCatalog for the command being run.
func Load(o Overrides) (*AppConfig, error) {
	cfg := &AppConfig{Job: DefaultJobConfig(), Fallbacks: &pkgconfig.Fallbacks{}}

	path := o.ConfigFile
	if path == "" {
		path = os.Getenv("ETL_CONFIG_FILE")
	}
	if path != "" {
		file, err := LoadJobFile(path)
		if err != nil {
			return nil, err
		}
		file.apply(&cfg.Job)
	}

	cfg.loadJobEnv()
	cfg.Job.applyOverrides(o)

	var err error
	if cfg.NewsAPI, err = newsapi.LoadConfigFromEnv(); err != nil {
		return nil, err
	}
	if cfg.Fetcher, err = fetcher.LoadConfigFromEnv(); err != nil {
		return nil, err
	}
	if cfg.Warehouse, err = warehouse.LoadConfigFromEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) loadJobEnv() {
	j := &c.Job
	f := c.Fallbacks

	j.Sources = pkgconfig.LoadEnvList("NEWS_SOURCES", j.Sources)
	j.Language = pkgconfig.LoadEnvString("NEWS_LANGUAGE", j.Language)
	j.From = pkgconfig.LoadEnvString("ETL_FROM", j.From)
	j.To = pkgconfig.LoadEnvString("ETL_TO", j.To)
	j.SnapshotPath = pkgconfig.LoadEnvString("SNAPSHOT_PATH", j.SnapshotPath)
	j.CatalogPath = pkgconfig.LoadEnvString("CATALOG_PATH", j.CatalogPath)

	j.LookbackDays = pkgconfig.Collect(f, "lookback_days", pkgconfig.LoadEnvInt("ETL_LOOKBACK_DAYS", j.LookbackDays,
		func(v int) error { return pkgconfig.ValidateIntRange(v, 1, maxLookbackDays) }))
	j.PreviewRows = pkgconfig.Collect(f, "preview_rows", pkgconfig.LoadEnvInt("ETL_PREVIEW_ROWS", j.PreviewRows,
		func(v int) error { return pkgconfig.ValidateIntRange(v, 0, 100) }))
	j.CronSchedule = pkgconfig.Collect(f, "cron_schedule",
		pkgconfig.LoadEnvWithFallback("ETL_CRON_SCHEDULE", j.CronSchedule, pkgconfig.ValidateCronSchedule))
	j.Timezone = pkgconfig.Collect(f, "timezone",
		pkgconfig.LoadEnvWithFallback("ETL_TIMEZONE", j.Timezone, pkgconfig.ValidateTimezone))
	j.HealthAddr = pkgconfig.LoadEnvString("ETL_HEALTH_ADDR", j.HealthAddr)
	j.RunTimeout = pkgconfig.Collect(f, "run_timeout",
		pkgconfig.LoadEnvDuration("ETL_RUN_TIMEOUT", j.RunTimeout, func(d time.Duration) error {
			return pkgconfig.ValidateDuration(d, time.Minute, 24*time.Hour)
		}))
	j.PushgatewayURL = pkgconfig.Collect(f, "pushgateway_url",
		pkgconfig.LoadEnvWithFallback("PUSHGATEWAY_URL", j.PushgatewayURL, pkgconfig.ValidateHTTPURL))
}

func (j *JobConfig) applyOverrides(o Overrides) {
	if o.From != "" {
		j.From = o.From
	}
	if o.To != "" {
		j.To = o.To
	}
	if sources := pkgconfig.SplitList(o.Sources); len(sources) > 0 {
		j.Sources = sources
	}
}

// Validate checks the job settings.
func (j *JobConfig) Validate() error {
	if len(j.Sources) == 0 {
		return errors.New("at least one news source is required")
	}
	if j.Language == "" {
		return errors.New("language is required")
	}
	if j.To != "" && j.From == "" {
		return errors.New("an end date requires a start date")
	}
	for _, d := range []string{j.From, j.To} {
		if d == "" {
			continue
		}
		if err := pkgconfig.ValidateDate(d); err != nil {
			return err
		}
	}
	if err := pkgconfig.ValidateIntRange(j.LookbackDays, 1, maxLookbackDays); err != nil {
		return fmt.Errorf("lookback days: %w", err)
	}
	if j.PreviewRows < 0 {
		return fmt.Errorf("preview rows must be non-negative, got %d", j.PreviewRows)
	}
	if j.SnapshotPath == "" {
		return errors.New("snapshot path is required")
	}
	if j.CronSchedule != "" {
		if err := pkgconfig.ValidateCronSchedule(j.CronSchedule); err != nil {
			return err
		}
		// Every trigger would reload the same fixed window.
		if j.From != "" {
			return errors.New("a cron schedule cannot be combined with a fixed start date; use lookback days or run once")
		}
	}
	if err := pkgconfig.ValidateTimezone(j.Timezone); err != nil {
		return err
	}
	if err := pkgconfig.ValidatePositiveDuration(j.RunTimeout); err != nil {
		return fmt.Errorf("run timeout: %w", err)
	}
	if j.PushgatewayURL != "" {
		if err := pkgconfig.ValidateHTTPURL(j.PushgatewayURL); err != nil {
			return fmt.Errorf("pushgateway: %w", err)
		}
	}
	_, err := j.Window(time.Now())
	return err
}

// Location returns the configured time zone, UTC when it cannot be loaded.
func (j *JobConfig) Location() *time.Location {
	loc, err := time.LoadLocation(j.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Window returns the date range of a run starting at now. An explicit
// From (and optional To, defaulting to From) wins over LookbackDays.
func (j *JobConfig) Window(now time.Time) (entity.DateRange, error) {
	if j.From == "" {
		local := now.In(j.Location())
		day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
		return entity.LastDays(day, j.LookbackDays), nil
	}
	to := j.To
	if to == "" {
		to = j.From
	}
	return entity.NewDateRange(j.From, to)
}

// ValidateForPipeline checks everything the ETL run needs.
func (c *AppConfig) ValidateForPipeline() error {
	if err := c.Job.Validate(); err != nil {
		return fmt.Errorf("job config: %w", err)
	}
	if err := c.NewsAPI.Validate(); err != nil {
		return fmt.Errorf("news api config: %w", err)
	}
	if err := c.Fetcher.Validate(); err != nil {
		return fmt.Errorf("content fetch config: %w", err)
	}
	if err := c.Warehouse.Validate(); err != nil {
		return fmt.Errorf("warehouse config: %w", err)
	}
	return nil
}

// ValidateForCatalog checks what the source catalog export needs.
func (c *AppConfig) ValidateForCatalog() error {
	if err := c.NewsAPI.Validate(); err != nil {
		return fmt.Errorf("news api config: %w", err)
	}
	if c.Job.CatalogPath == "" {
		return errors.New("job config: catalog path is required")
	}
	return nil
}

package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled pipeline run.
type Job func(ctx context.Context) error

// Scheduler triggers a Job on a five-field cron schedule. A trigger that
// fires while the previous run is still going is skipped.
type Scheduler struct {
	cron   *cron.Cron
	runner *runner
	logger *slog.Logger
}

// NewScheduler parses schedule in loc and registers job. Every run gets a
// context derived from the one passed to Run, bounded by timeout when positive.
func NewScheduler(schedule string, loc *time.Location, timeout time.Duration, logger *slog.Logger, job Job) (*Scheduler, error) {
	cl := cronLogger{logger: logger}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	r := &runner{job: job, timeout: timeout, logger: logger}
	if _, err := c.AddJob(schedule, r); err != nil {
		return nil, fmt.Errorf("add cron job %q: %w", schedule, err)
	}
	return &Scheduler{cron: c, runner: r, logger: logger}, nil
}

// Run starts the scheduler and blocks until ctx is cancelled. It returns
// after any run in progress has finished.
func (s *Scheduler) Run(ctx context.Context) {
	s.runner.parent = ctx
	s.cron.Start()
	s.logger.Info("scheduler started", slog.Time("next_run", s.Next()))

	<-ctx.Done()
	s.logger.Info("scheduler stopping, waiting for running job")
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// Next returns the next activation time, zero before Run.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// runner adapts a Job to cron.Job.
type runner struct {
	job     Job
	timeout time.Duration
	logger  *slog.Logger
	parent  context.Context
}

func (r *runner) Run() {
	parent := r.parent
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := parent, context.CancelFunc(func() {})
	if r.timeout > 0 {
		ctx, cancel = context.WithTimeout(parent, r.timeout)
	}
	defer cancel()

	if err := r.job(ctx); err != nil {
		r.logger.Error("scheduled run failed", slog.Any("error", err))
	}
}

// cronLogger routes cron's internal logging through slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, slog.Any("error", err))...)
}

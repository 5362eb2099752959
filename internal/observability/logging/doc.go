// Package logging provides structured logging utilities with context propagation.
//
// Example usage:
//
//	logger := logging.NewLogger()
//	slog.SetDefault(logger)
//
//	ctx = logging.WithLogger(ctx, logging.WithRunID(logger, runID))
//	logging.FromContext(ctx).Info("run started")
package logging

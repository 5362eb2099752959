// Package observability groups the logging, metrics and tracing helpers used
// by the ETL commands.
//
// Subpackages:
//   - logging: slog setup and run-scoped loggers carried in context
//   - metrics: per-run Prometheus metrics pushed to a Pushgateway
//   - tracing: OpenTelemetry spans around pipeline stages
package observability

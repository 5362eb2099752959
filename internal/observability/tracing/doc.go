// Package tracing wraps OpenTelemetry so pipeline stages can open spans
// without depending on a concrete exporter.
//
// Example usage:
//
//	shutdown := tracing.Init("news-etl")
//	defer shutdown(ctx)
//
//	ctx, span := tracing.StartSpan(ctx, "ingest.collect")
//	defer span.End()
package tracing

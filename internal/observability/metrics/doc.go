// Package metrics records per-run pipeline metrics on a dedicated Prometheus
// registry. Batch runs have no scrape endpoint, so the registry is pushed to a
// Pushgateway when a run ends.
//
// Example usage:
//
//	m := metrics.NewPipelineMetrics(prometheus.NewRegistry())
//	m.RecordAPICall(12, nil)
//	_ = m.Push(ctx, "http://pushgateway:9091", "news_etl")
package metrics

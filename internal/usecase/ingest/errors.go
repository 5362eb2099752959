// Package ingest runs the news pipeline: it collects article metadata one day
// at a time, scrapes the full text of every article, assembles the records,
// writes the local snapshot and bulk-loads the warehouse table.
package ingest

import "errors"

// Sentinel errors for pipeline stages. Each wraps the underlying cause.
var (
	// ErrSnapshotFailed indicates the local snapshot could not be written.
	ErrSnapshotFailed = errors.New("write snapshot")

	// ErrLoadFailed indicates the warehouse load failed or was incomplete.
	ErrLoadFailed = errors.New("warehouse load")
)

package entity

// LoadResult reports the outcome of a bulk load.
type LoadResult struct {
	// Success is true when every record was written.
	Success bool
	// Chunks is the number of insert batches sent.
	Chunks int
	// Rows is the number of rows the warehouse reported written.
	Rows int64
}

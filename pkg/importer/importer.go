package importer

import "context"

// Importer runs a full destructive reload of the dataset.
type Importer interface {
	// Run executes every stage in order and stops at the first failure.
	Run(ctx context.Context, config ImportConfig) (*Summary, error)
}

// SchemaManager drops and recreates the three tables and their supporting
// extensions and functions.
type SchemaManager interface {
	Reset(ctx context.Context, conn DBConnection) error
}

// BulkLoader writes extracted rows, parents before children.
type BulkLoader interface {
	LoadDistricts(ctx context.Context, conn DBConnection, rows []District) (int64, error)
	LoadLists(ctx context.Context, conn DBConnection, rows []List) (int64, error)

	// LoadCandidates commits one transaction per batch of batchSize rows.
	// Batches committed before a failure stay in the store.
	LoadCandidates(ctx context.Context, conn DBConnection, rows []Candidate, batchSize int) (int64, error)
}

// Repairer applies the head-of-list fallback after all candidates are loaded.
type Repairer interface {
	// RepairHeadOfList returns the number of rows corrected.
	RepairHeadOfList(ctx context.Context, conn DBConnection) (int64, error)
}

// IndexBuilder creates the search indexes once data is loaded.
type IndexBuilder interface {
	Build(ctx context.Context, conn DBConnection) error
}

// MetricsRecorder receives per-stage timings and final counts.
type MetricsRecorder interface {
	ObserveStage(stage string, seconds float64)
	RecordSummary(summary *Summary)
}

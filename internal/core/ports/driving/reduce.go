package driving

import "context"

// DefaultTargetDimension is the widest vector the cloud vector backend accepts.
const DefaultTargetDimension = 1536

// DimensionReducer reduces every vector of a collection to a fixed width.
type DimensionReducer interface {
	Reduce(ctx context.Context, req ReduceRequest) (*ReduceReport, error)
}

// ReduceRequest configures a reduction run.
type ReduceRequest struct {
	// InputPath is the canonical vector collection.
	InputPath string

	// ReducedPath receives the reduced collection.
	ReducedPath string

	// BackupPath receives the untouched original collection. It is written first.
	BackupPath string

	// TargetDimension is the output width; the input must be strictly wider.
	TargetDimension int

	// OverwriteSource replaces InputPath with the reduced collection after
	// the backup and reduced files are written.
	OverwriteSource bool

	// Confirm is asked before InputPath is overwritten. Nil means yes.
	Confirm func() bool
}

// ReduceReport summarises a reduction run.
type ReduceReport struct {
	RunID string

	Vectors           int
	OriginalDimension int
	TargetDimension   int

	// Method names the reduction (e.g., "PCA").
	Method string

	// ExplainedVariance is the fraction of variance retained.
	ExplainedVariance float64

	// Components is the number of non-degenerate components fitted.
	Components int

	BackupPath  string
	ReducedPath string

	// Overwritten is true when the canonical input was replaced.
	Overwritten bool
}

package driving

import "context"

// ChunkIndexer embeds a chunk sequence into a positional vector index.
type ChunkIndexer interface {
	Index(ctx context.Context) (*IndexReport, error)
}

// IndexReport summarises an indexing run.
type IndexReport struct {
	RunID     string
	Chunks    int
	Dimension int
	Model     string
}

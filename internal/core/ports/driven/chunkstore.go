package driven

import (
	"context"

	"github.com/custodia-labs/rag-migrate/internal/core/domain"
)

// ChunkSource reads an ordered chunk sequence.
// Implementations return domain.ErrMissingArtifact when the backing artifact is absent.
type ChunkSource interface {
	// LoadChunks returns every chunk in stored order.
	LoadChunks(ctx context.Context) ([]domain.Chunk, error)

	// Location describes where the chunks are read from, for reporting.
	Location() string
}

// ChunkSink persists an ordered chunk sequence, replacing previous content.
type ChunkSink interface {
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error
}

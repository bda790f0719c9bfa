package driven

import (
	"context"

	"github.com/custodia-labs/rag-migrate/internal/core/domain"
)

// PostProcessor transforms a chunk sequence (e.g., splitting whole files into chunks).
// PostProcessors are chained in a pipeline.
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes chunks and returns the transformed sequence, preserving order.
	Process(ctx context.Context, chunks []domain.Chunk) ([]domain.Chunk, error)
}

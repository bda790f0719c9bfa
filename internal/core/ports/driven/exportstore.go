package driven

import (
	"context"

	"github.com/custodia-labs/rag-migrate/internal/core/domain"
)

// ExportStore reads and writes export collections at filesystem paths.
// Reads of absent paths return domain.ErrMissingArtifact.
// Writes create parent directories as needed and replace existing files.
type ExportStore interface {
	ReadDocuments(ctx context.Context, path string) (*domain.DocumentExport, error)
	WriteDocuments(ctx context.Context, path string, export *domain.DocumentExport) error

	ReadVectors(ctx context.Context, path string) (*domain.VectorExport, error)
	WriteVectors(ctx context.Context, path string, export *domain.VectorExport) error

	// WriteText writes an arbitrary text artifact (SQL scripts, JSONL).
	WriteText(ctx context.Context, path, content string) error
}

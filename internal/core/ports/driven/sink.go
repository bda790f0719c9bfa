package driven

import (
	"context"

	"github.com/custodia-labs/rag-migrate/internal/core/domain"
)

// DocumentSink applies document records to a SQL database.
type DocumentSink interface {
	// Name identifies the sink for reporting (e.g., "sqlite", "postgres").
	Name() string

	// SaveDocuments inserts or replaces every record in one transaction.
	SaveDocuments(ctx context.Context, docs []domain.DocumentRecord) error
}

// VectorSink upserts vector records into a vector database.
type VectorSink interface {
	Name() string

	// UpsertVectors inserts or replaces every record in one transaction.
	// dimension is the collection width; every vector has that length.
	UpsertVectors(ctx context.Context, dimension int, vectors []domain.VectorRecord) error
}

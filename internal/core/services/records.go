package services

import (
	"context"

	"github.com/custodia-labs/rag-migrate/internal/core/domain"
)

// buildDocumentExport turns an ordered chunk sequence into a document collection.
// Record i always describes chunk i.
func buildDocumentExport(ctx context.Context, job string, chunks []domain.Chunk, o options) (*domain.DocumentExport, error) {
	docs := make([]domain.DocumentRecord, 0, len(chunks))

	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := domain.NewDocumentRecord(i, chunk)
		if err != nil {
			return nil, err
		}
		docs = append(docs, rec)

		o.reportProgress(job, i+1, len(chunks))
	}

	return domain.NewDocumentExport(docs), nil
}

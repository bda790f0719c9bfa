package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/rag-migrate/internal/core/domain"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driven"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driving"
	"github.com/custodia-labs/rag-migrate/internal/logger"
)

// Ensure ChunkExportService implements the interface.
var _ driving.DocumentExporter = (*ChunkExportService)(nil)

// ChunkExportService exports the chunk store as a document collection.
type ChunkExportService struct {
	chunks driven.ChunkSource
	store  driven.ExportStore
	opts   options
}

// NewChunkExportService creates a new chunk export service.
func NewChunkExportService(chunks driven.ChunkSource, store driven.ExportStore, opts ...Option) *ChunkExportService {
	return &ChunkExportService{
		chunks: chunks,
		store:  store,
		opts:   newOptions(opts),
	}
}

// Export reads every chunk and writes one document record per chunk to outputPath.
// Nothing is written when the chunk store cannot be read.
func (s *ChunkExportService) Export(ctx context.Context, outputPath string) (*driving.DocumentExportReport, error) {
	if s.chunks == nil || s.store == nil {
		return nil, fmt.Errorf("%w: chunk export requires a chunk store and an export store",
			domain.ErrMissingDependency)
	}

	runID := s.opts.newRunID()
	logger.Section("Export documents")
	logger.Debug("run %s: chunks=%s output=%s", runID, s.chunks.Location(), outputPath)

	chunks, err := s.chunks.LoadChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}
	logger.Info("Loaded %d chunks from %s", len(chunks), s.chunks.Location())

	export, err := buildDocumentExport(ctx, "export-docs", chunks, s.opts)
	if err != nil {
		return nil, fmt.Errorf("build documents: %w", err)
	}

	if err := s.store.WriteDocuments(ctx, outputPath, export); err != nil {
		return nil, fmt.Errorf("write documents: %w", err)
	}
	logger.Info("Wrote %d documents to %s", export.TotalDocuments, outputPath)

	return &driving.DocumentExportReport{
		RunID:          runID,
		Source:         s.chunks.Location(),
		Output:         outputPath,
		TotalDocuments: export.TotalDocuments,
	}, nil
}

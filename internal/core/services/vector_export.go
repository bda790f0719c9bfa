package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/rag-migrate/internal/core/domain"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driven"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driving"
	"github.com/custodia-labs/rag-migrate/internal/logger"
)

// Ensure VectorExportService implements the interface.
var _ driving.VectorExporter = (*VectorExportService)(nil)

// VectorExportService pairs the vectors of a positional index with the chunks
// they were built from. Vector i is assumed to belong to chunk i.
type VectorExportService struct {
	index  driven.VectorIndex
	chunks driven.ChunkSource
	store  driven.ExportStore
	opts   options
}

// NewVectorExportService creates a new vector export service.
func NewVectorExportService(
	index driven.VectorIndex,
	chunks driven.ChunkSource,
	store driven.ExportStore,
	opts ...Option,
) *VectorExportService {
	return &VectorExportService{
		index:  index,
		chunks: chunks,
		store:  store,
		opts:   newOptions(opts),
	}
}

// Export writes min(index size, chunk count) vector records to outputPath.
// Surplus vectors or chunks are dropped without error.
func (s *VectorExportService) Export(ctx context.Context, outputPath string) (*driving.VectorExportReport, error) {
	if s.index == nil || s.chunks == nil || s.store == nil {
		return nil, fmt.Errorf("%w: vector export requires a vector index, a chunk store and an export store",
			domain.ErrMissingDependency)
	}

	runID := s.opts.newRunID()
	logger.Section("Export vectors")
	logger.Debug("run %s: chunks=%s output=%s", runID, s.chunks.Location(), outputPath)

	dimension := s.index.Dimension()
	model := ""
	if e := s.opts.embedder; e != nil {
		model = e.ModelName()
		if e.Dimensions() != dimension {
			logger.Warn("embedding model %s produces %d-wide vectors but the index holds %d-wide vectors",
				model, e.Dimensions(), dimension)
		}
	}

	chunks, err := s.chunks.LoadChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}

	total := min(s.index.Len(), len(chunks))
	if s.index.Len() != len(chunks) {
		logger.Warn("index has %d vectors and the chunk store has %d chunks; exporting the first %d",
			s.index.Len(), len(chunks), total)
	}
	logger.Info("Index: %d vectors of dimension %d", s.index.Len(), dimension)

	records := make([]domain.VectorRecord, 0, total)
	for i := range total {
		vec, err := s.index.Reconstruct(ctx, i)
		if err != nil {
			return nil, fmt.Errorf("reconstruct vector %d: %w", i, err)
		}
		if len(vec) != dimension {
			return nil, fmt.Errorf("%w: vector %d has %d values, index dimension is %d",
				domain.ErrDimensionMismatch, i, len(vec), dimension)
		}

		records = append(records, domain.NewVectorRecord(i, chunks[i], vec))
		s.opts.reportProgress("export-vectors", i+1, total)
	}

	export := domain.NewVectorExport(dimension, records)
	if err := s.store.WriteVectors(ctx, outputPath, export); err != nil {
		return nil, fmt.Errorf("write vectors: %w", err)
	}
	logger.Info("Wrote %d vectors to %s", export.TotalVectors, outputPath)

	return &driving.VectorExportReport{
		RunID:          runID,
		Output:         outputPath,
		IndexVectors:   s.index.Len(),
		Chunks:         len(chunks),
		TotalVectors:   export.TotalVectors,
		Dimension:      dimension,
		EmbeddingModel: model,
	}, nil
}

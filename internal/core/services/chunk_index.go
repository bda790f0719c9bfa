package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/rag-migrate/internal/core/domain"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driven"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driving"
	"github.com/custodia-labs/rag-migrate/internal/logger"
)

// Ensure ChunkIndexService implements the interface.
var _ driving.ChunkIndexer = (*ChunkIndexService)(nil)

// ChunkIndexService embeds the chunk store into a positional vector index.
type ChunkIndexService struct {
	chunks   driven.ChunkSource
	embedder driven.EmbeddingService
	index    driven.VectorIndexWriter
	opts     options
}

// NewChunkIndexService creates a new chunk index service.
func NewChunkIndexService(
	chunks driven.ChunkSource,
	embedder driven.EmbeddingService,
	index driven.VectorIndexWriter,
	opts ...Option,
) *ChunkIndexService {
	return &ChunkIndexService{
		chunks:   chunks,
		embedder: embedder,
		index:    index,
		opts:     newOptions(opts),
	}
}

// Index embeds every chunk in batches and replaces the index content.
// Vector i of the index is the embedding of chunk i.
func (s *ChunkIndexService) Index(ctx context.Context) (*driving.IndexReport, error) {
	if s.embedder == nil {
		return nil, fmt.Errorf("%w: no embedding service configured", domain.ErrMissingDependency)
	}
	if s.chunks == nil || s.index == nil {
		return nil, fmt.Errorf("%w: indexing requires a chunk store and a vector index",
			domain.ErrMissingDependency)
	}

	runID := s.opts.newRunID()
	logger.Section("Index chunks")
	logger.Debug("run %s: chunks=%s model=%s batch=%d", runID, s.chunks.Location(),
		s.embedder.ModelName(), s.opts.batchSize)

	chunks, err := s.chunks.LoadChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}
	logger.Info("Embedding %d chunks with %s", len(chunks), s.embedder.ModelName())

	vectors := make([][]float32, 0, len(chunks))
	dimension := 0

	for start := 0; start < len(chunks); start += s.opts.batchSize {
		end := min(start+s.opts.batchSize, len(chunks))

		texts := make([]string, end-start)
		for i := range texts {
			texts[i] = chunks[start+i].Content
		}

		embeddings, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed chunks %d-%d: %w", start, end-1, err)
		}
		if len(embeddings) != len(texts) {
			return nil, fmt.Errorf("embed chunks %d-%d: got %d embeddings for %d texts",
				start, end-1, len(embeddings), len(texts))
		}

		for i, vec := range embeddings {
			if dimension == 0 {
				dimension = len(vec)
			}
			if len(vec) != dimension || dimension == 0 {
				return nil, fmt.Errorf("%w: embedding of chunk %d has %d values, expected %d",
					domain.ErrDimensionMismatch, start+i, len(vec), dimension)
			}
			vectors = append(vectors, vec)
		}

		for done := start + 1; done <= end; done++ {
			s.opts.reportProgress("index-chunks", done, len(chunks))
		}
	}

	if err := s.index.ReplaceVectors(ctx, vectors); err != nil {
		return nil, fmt.Errorf("write vector index: %w", err)
	}
	logger.Info("Indexed %d vectors of dimension %d", len(vectors), dimension)

	return &driving.IndexReport{
		RunID:     runID,
		Chunks:    len(chunks),
		Dimension: dimension,
		Model:     s.embedder.ModelName(),
	}, nil
}

package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/custodia-labs/rag-migrate/internal/core/domain"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interfaces.
var (
	_ driven.ChunkSource = (*ChunkStore)(nil)
	_ driven.ChunkSink   = (*ChunkStore)(nil)
)

// ChunkStore is an in-memory implementation of driven.ChunkSource and driven.ChunkSink.
type ChunkStore struct {
	mu      sync.RWMutex
	chunks  []domain.Chunk
	missing bool
}

// NewChunkStore creates a store holding chunks.
func NewChunkStore(chunks ...domain.Chunk) *ChunkStore {
	return &ChunkStore{chunks: copyChunks(chunks)}
}

// NewMissingChunkStore creates a store whose loads fail as if the artifact were absent.
func NewMissingChunkStore() *ChunkStore {
	return &ChunkStore{missing: true}
}

// Location returns a fixed description.
func (s *ChunkStore) Location() string {
	return "memory"
}

// LoadChunks returns a copy of the stored chunks.
func (s *ChunkStore) LoadChunks(_ context.Context) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.missing {
		return nil, fmt.Errorf("%w: chunk store memory", domain.ErrMissingArtifact)
	}
	return copyChunks(s.chunks), nil
}

// SaveChunks replaces the stored chunks.
func (s *ChunkStore) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = copyChunks(chunks)
	s.missing = false
	return nil
}

// Chunks returns a copy of the stored chunks.
func (s *ChunkStore) Chunks() []domain.Chunk {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyChunks(s.chunks)
}

func copyChunks(chunks []domain.Chunk) []domain.Chunk {
	if chunks == nil {
		return nil
	}
	out := make([]domain.Chunk, len(chunks))
	for i, c := range chunks {
		out[i] = domain.Chunk{Content: c.Content, Metadata: maps.Clone(c.Metadata)}
	}
	return out
}

package chunkstore

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/rag-migrate/internal/core/domain"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driven"
)

// Ensure GobStore implements the interfaces.
var (
	_ driven.ChunkSource = (*GobStore)(nil)
	_ driven.ChunkSink   = (*GobStore)(nil)
)

func init() {
	// Metadata values are interfaces; nested containers need registering.
	gob.Register(map[string]any{})
	gob.Register([]any{})
}

// GobStore keeps the chunk sequence in a single gob-encoded file.
type GobStore struct {
	path string
}

// NewGobStore creates a gob chunk store at path. The file is not touched until used.
func NewGobStore(path string) *GobStore {
	return &GobStore{path: path}
}

// Location returns the file path.
func (s *GobStore) Location() string {
	return s.path
}

// Close is a no-op; the file is only open during a load or save.
func (s *GobStore) Close() error {
	return nil
}

// LoadChunks decodes every chunk in stored order.
func (s *GobStore) LoadChunks(ctx context.Context) ([]domain.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: chunk store %s", domain.ErrMissingArtifact, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("open chunk store: %w", err)
	}
	defer f.Close()

	var chunks []domain.Chunk
	if err := gob.NewDecoder(f).Decode(&chunks); err != nil {
		return nil, fmt.Errorf("%w: decode chunk store %s: %v", domain.ErrInvalidInput, s.path, err)
	}

	return chunks, nil
}

// SaveChunks replaces the file with the given chunks.
func (s *GobStore) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create chunk store directory: %w", err)
		}
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create chunk store: %w", err)
	}

	if chunks == nil {
		chunks = []domain.Chunk{}
	}
	if err := gob.NewEncoder(f).Encode(chunks); err != nil {
		f.Close()
		return fmt.Errorf("encode chunk store: %w", err)
	}

	return f.Close()
}

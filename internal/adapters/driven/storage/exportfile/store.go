// Package exportfile stores export collections as JSON files.
//
// Output is indented with two spaces and HTML characters are not escaped,
// so non-ASCII text is written as UTF-8.
package exportfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/rag-migrate/internal/core/domain"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ExportStore = (*Store)(nil)

// Store is a filesystem implementation of driven.ExportStore.
type Store struct{}

// NewStore creates a new export file store.
func NewStore() *Store {
	return &Store{}
}

// ReadDocuments reads a document export.
func (s *Store) ReadDocuments(ctx context.Context, path string) (*domain.DocumentExport, error) {
	var export domain.DocumentExport
	if err := readJSON(ctx, path, &export); err != nil {
		return nil, err
	}
	if export.Documents == nil {
		export.Documents = []domain.DocumentRecord{}
	}
	return &export, nil
}

// WriteDocuments writes a document export, creating parent directories.
func (s *Store) WriteDocuments(ctx context.Context, path string, export *domain.DocumentExport) error {
	if export == nil {
		return fmt.Errorf("%w: nil document export", domain.ErrInvalidInput)
	}
	return writeJSON(ctx, path, export)
}

// ReadVectors reads a vector export.
func (s *Store) ReadVectors(ctx context.Context, path string) (*domain.VectorExport, error) {
	var export domain.VectorExport
	if err := readJSON(ctx, path, &export); err != nil {
		return nil, err
	}
	if export.Vectors == nil {
		export.Vectors = []domain.VectorRecord{}
	}
	return &export, nil
}

// WriteVectors writes a vector export, creating parent directories.
func (s *Store) WriteVectors(ctx context.Context, path string, export *domain.VectorExport) error {
	if export == nil {
		return fmt.Errorf("%w: nil vector export", domain.ErrInvalidInput)
	}
	return writeJSON(ctx, path, export)
}

// WriteText writes content verbatim, creating parent directories.
func (s *Store) WriteText(ctx context.Context, path, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return writeFile(path, []byte(content))
}

func readJSON(ctx context.Context, path string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", domain.ErrMissingArtifact, path)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", domain.ErrInvalidInput, path, err)
	}
	return nil
}

func writeJSON(ctx context.Context, path string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	// Encode appends a newline; the files end at the closing brace.
	return writeFile(path, bytes.TrimRight(buf.Bytes(), "\n"))
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

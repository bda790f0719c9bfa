// Package markdown reads a directory of markdown files as whole-file chunks.
package markdown

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/custodia-labs/rag-migrate/internal/core/domain"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driven"
)

// DefaultPattern matches markdown files directly inside the directory.
const DefaultPattern = "*.md"

// Ensure DirectorySource implements the interface.
var _ driven.ChunkSource = (*DirectorySource)(nil)

// DirectorySource turns every file matching pattern under dir into one chunk.
// Files are read in lexicographic path order. Each chunk's metadata holds the
// file name (stem plus extension) under "source".
type DirectorySource struct {
	dir     string
	pattern string
}

// NewDirectorySource creates a source for dir. An empty pattern means DefaultPattern.
// Patterns use doublestar syntax, so "**/*.md" also matches subdirectories.
func NewDirectorySource(dir, pattern string) *DirectorySource {
	if pattern == "" {
		pattern = DefaultPattern
	}
	return &DirectorySource{dir: dir, pattern: pattern}
}

// Location returns the directory being read.
func (s *DirectorySource) Location() string {
	return s.dir
}

// Files returns the matching file paths relative to the directory, sorted.
func (s *DirectorySource) Files() ([]string, error) {
	info, err := os.Stat(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: markdown directory %s", domain.ErrMissingArtifact, s.dir)
	}
	if err != nil {
		return nil, fmt.Errorf("checking markdown directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrMissingArtifact, s.dir)
	}

	if !doublestar.ValidatePattern(s.pattern) {
		return nil, fmt.Errorf("%w: glob pattern %q", domain.ErrInvalidInput, s.pattern)
	}

	matches, err := doublestar.Glob(os.DirFS(s.dir), s.pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob matching failed: %w", err)
	}
	sort.Strings(matches)

	return matches, nil
}

// LoadChunks reads every matching file as one chunk.
func (s *DirectorySource) LoadChunks(ctx context.Context) ([]domain.Chunk, error) {
	files, err := s.Files()
	if err != nil {
		return nil, err
	}

	chunks := make([]domain.Chunk, 0, len(files))
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(s.dir, filepath.FromSlash(rel))
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("%w: %s is not valid UTF-8", domain.ErrInvalidInput, path)
		}

		chunks = append(chunks, domain.Chunk{
			Content:  string(data),
			Metadata: map[string]any{"source": filepath.Base(path)},
		})
	}

	return chunks, nil
}

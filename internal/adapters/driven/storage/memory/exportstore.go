package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/rag-migrate/internal/core/domain"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driven"
)

// Ensure ExportStore implements the interface.
var _ driven.ExportStore = (*ExportStore)(nil)

// ExportStore is an in-memory implementation of driven.ExportStore keyed by path.
// It records the order of writes.
type ExportStore struct {
	mu        sync.RWMutex
	documents map[string]*domain.DocumentExport
	vectors   map[string]*domain.VectorExport
	texts     map[string]string
	writes    []string
	failOn    map[string]error
}

// NewExportStore creates an empty export store.
func NewExportStore() *ExportStore {
	return &ExportStore{
		documents: make(map[string]*domain.DocumentExport),
		vectors:   make(map[string]*domain.VectorExport),
		texts:     make(map[string]string),
		failOn:    make(map[string]error),
	}
}

// FailWrite makes every later write to path return err.
func (s *ExportStore) FailWrite(path string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOn[path] = err
}

// ReadDocuments returns the document export stored at path.
func (s *ExportStore) ReadDocuments(_ context.Context, path string) (*domain.DocumentExport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	export, ok := s.documents[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingArtifact, path)
	}
	docs := append([]domain.DocumentRecord{}, export.Documents...)
	return &domain.DocumentExport{TotalDocuments: export.TotalDocuments, Documents: docs}, nil
}

// WriteDocuments stores a copy of export at path.
func (s *ExportStore) WriteDocuments(_ context.Context, path string, export *domain.DocumentExport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failOn[path]; err != nil {
		return err
	}
	docs := append([]domain.DocumentRecord{}, export.Documents...)
	s.documents[path] = &domain.DocumentExport{TotalDocuments: export.TotalDocuments, Documents: docs}
	s.writes = append(s.writes, path)
	return nil
}

// ReadVectors returns a copy of the vector export stored at path.
func (s *ExportStore) ReadVectors(_ context.Context, path string) (*domain.VectorExport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	export, ok := s.vectors[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingArtifact, path)
	}
	return export.Clone(), nil
}

// WriteVectors stores a copy of export at path.
func (s *ExportStore) WriteVectors(_ context.Context, path string, export *domain.VectorExport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failOn[path]; err != nil {
		return err
	}
	s.vectors[path] = export.Clone()
	s.writes = append(s.writes, path)
	return nil
}

// WriteText stores content at path.
func (s *ExportStore) WriteText(_ context.Context, path, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failOn[path]; err != nil {
		return err
	}
	s.texts[path] = content
	s.writes = append(s.writes, path)
	return nil
}

// Text returns the text stored at path.
func (s *ExportStore) Text(path string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	text, ok := s.texts[path]
	return text, ok
}

// Writes returns the written paths in order.
func (s *ExportStore) Writes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.writes...)
}

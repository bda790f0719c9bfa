package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/rag-migrate/internal/core/domain"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driven"
)

// Ensure the sinks implement the interfaces.
var (
	_ driven.DocumentSink = (*DocumentSink)(nil)
	_ driven.VectorSink   = (*VectorSink)(nil)
)

// DocumentSink keeps document records keyed by ID, replacing on conflict.
type DocumentSink struct {
	mu   sync.RWMutex
	docs map[string]domain.DocumentRecord
	err  error
}

// NewDocumentSink creates an empty document sink.
func NewDocumentSink() *DocumentSink {
	return &DocumentSink{docs: make(map[string]domain.DocumentRecord)}
}

// FailWith makes SaveDocuments return err without storing anything.
func (s *DocumentSink) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Name returns the sink name.
func (s *DocumentSink) Name() string {
	return "memory"
}

// SaveDocuments upserts every record.
func (s *DocumentSink) SaveDocuments(_ context.Context, docs []domain.DocumentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for _, d := range docs {
		s.docs[d.ID] = d
	}
	return nil
}

// Get returns the record stored under id.
func (s *DocumentSink) Get(id string) (domain.DocumentRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.docs[id]
	return d, ok
}

// Len returns the number of stored records.
func (s *DocumentSink) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// VectorSink keeps vector records keyed by ID, replacing on conflict.
type VectorSink struct {
	mu        sync.RWMutex
	vectors   map[string]domain.VectorRecord
	dimension int
}

// NewVectorSink creates an empty vector sink.
func NewVectorSink() *VectorSink {
	return &VectorSink{vectors: make(map[string]domain.VectorRecord)}
}

// Name returns the sink name.
func (s *VectorSink) Name() string {
	return "memory"
}

// UpsertVectors upserts every record.
func (s *VectorSink) UpsertVectors(_ context.Context, dimension int, vectors []domain.VectorRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	for _, v := range vectors {
		s.vectors[v.ID] = v
	}
	return nil
}

// Len returns the number of stored records.
func (s *VectorSink) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors)
}

// Dimension returns the width of the last upsert.
func (s *VectorSink) Dimension() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dimension
}

package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/custodia-labs/rag-migrate/internal/core/domain"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interfaces.
var (
	_ driven.VectorIndex       = (*VectorIndex)(nil)
	_ driven.VectorIndexWriter = (*VectorIndex)(nil)
)

// VectorIndex is an in-memory positional vector index.
type VectorIndex struct {
	mu        sync.RWMutex
	vectors   [][]float32
	dimension int
	closed    bool
}

// NewVectorIndex creates an index of the given width holding vectors.
func NewVectorIndex(dimension int, vectors ...[]float32) *VectorIndex {
	v := &VectorIndex{dimension: dimension}
	for _, vec := range vectors {
		v.vectors = append(v.vectors, slices.Clone(vec))
	}
	return v
}

// Len returns the number of stored vectors.
func (v *VectorIndex) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.vectors)
}

// Dimension returns the index width.
func (v *VectorIndex) Dimension() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.dimension
}

// Reconstruct returns a copy of the vector at position.
func (v *VectorIndex) Reconstruct(_ context.Context, position int) ([]float32, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if position < 0 || position >= len(v.vectors) {
		return nil, fmt.Errorf("%w: vector at position %d", domain.ErrNotFound, position)
	}
	return slices.Clone(v.vectors[position]), nil
}

// ReplaceVectors replaces the stored vectors and adopts their width.
func (v *VectorIndex) ReplaceVectors(_ context.Context, vectors [][]float32) error {
	dimension := 0
	if len(vectors) > 0 {
		dimension = len(vectors[0])
	}
	for i, vec := range vectors {
		if len(vec) != dimension {
			return fmt.Errorf("%w: vector %d has %d values, expected %d",
				domain.ErrDimensionMismatch, i, len(vec), dimension)
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.vectors = make([][]float32, len(vectors))
	for i, vec := range vectors {
		v.vectors[i] = slices.Clone(vec)
	}
	v.dimension = dimension
	return nil
}

// Close marks the index closed.
func (v *VectorIndex) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	return nil
}

// Closed reports whether Close was called.
func (v *VectorIndex) Closed() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.closed
}

package driven

import "context"

// VectorIndex gives positional read access to stored embeddings.
// Position i is assumed to correspond to chunk i of the chunk store.
type VectorIndex interface {
	// Len returns the number of stored vectors.
	Len() int

	// Dimension returns the width of every stored vector.
	Dimension() int

	// Reconstruct returns the raw vector stored at position.
	Reconstruct(ctx context.Context, position int) ([]float32, error)

	// Close releases resources.
	Close() error
}

// VectorIndexWriter replaces the content of a vector index.
type VectorIndexWriter interface {
	// ReplaceVectors stores vectors at positions 0..len(vectors)-1.
	// All vectors must share the same width.
	ReplaceVectors(ctx context.Context, vectors [][]float32) error
}

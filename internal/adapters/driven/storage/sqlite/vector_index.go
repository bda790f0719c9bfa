package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/custodia-labs/rag-migrate/internal/core/domain"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driven"
)

const dimensionKey = "dimension"

// vectorIndex implements driven.VectorIndex.
// Length and width are read once when the index is opened.
type vectorIndex struct {
	store     *Store
	length    int
	dimension int
}

var _ driven.VectorIndex = (*vectorIndex)(nil)

// VectorIndex returns a read view of the stored vectors.
// Closing the view closes the store.
func (s *Store) VectorIndex(ctx context.Context) (driven.VectorIndex, error) {
	var length int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vectors`).Scan(&length); err != nil {
		return nil, fmt.Errorf("counting vectors: %w", err)
	}

	dimension, err := s.dimension(ctx)
	if err != nil {
		return nil, err
	}
	if length > 0 && dimension == 0 {
		return nil, fmt.Errorf("%w: vector index %s has no dimension entry", domain.ErrInvalidInput, s.path)
	}

	return &vectorIndex{store: s, length: length, dimension: dimension}, nil
}

func (s *Store) dimension(ctx context.Context) (int, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM index_info WHERE key = ?`, dimensionKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading index dimension: %w", err)
	}

	d, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: index dimension %q", domain.ErrInvalidInput, raw)
	}
	return d, nil
}

// Len returns the number of stored vectors.
func (v *vectorIndex) Len() int {
	return v.length
}

// Dimension returns the stored vector width.
func (v *vectorIndex) Dimension() int {
	return v.dimension
}

// Reconstruct returns the vector stored at position.
func (v *vectorIndex) Reconstruct(ctx context.Context, position int) ([]float32, error) {
	var blob []byte
	err := v.store.db.QueryRowContext(ctx,
		`SELECT embedding FROM vectors WHERE position = ?`, position).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: vector at position %d", domain.ErrNotFound, position)
	}
	if err != nil {
		return nil, fmt.Errorf("reading vector %d: %w", position, err)
	}

	vec, err := bytesToFloat32Slice(blob)
	if err != nil {
		return nil, err
	}
	if len(vec) != v.dimension {
		return nil, fmt.Errorf("%w: vector %d has %d values, index dimension is %d",
			domain.ErrDimensionMismatch, position, len(vec), v.dimension)
	}
	return vec, nil
}

// Close closes the underlying store.
func (v *vectorIndex) Close() error {
	return v.store.Close()
}

// vectorIndexWriter implements driven.VectorIndexWriter.
type vectorIndexWriter struct {
	store *Store
}

var _ driven.VectorIndexWriter = (*vectorIndexWriter)(nil)

// VectorIndexWriter returns a writer that replaces the stored vectors.
func (s *Store) VectorIndexWriter() driven.VectorIndexWriter {
	return &vectorIndexWriter{store: s}
}

// ReplaceVectors stores vectors at positions 0..n-1 and records their width.
func (w *vectorIndexWriter) ReplaceVectors(ctx context.Context, vectors [][]float32) error {
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
	if len(vectors) > 0 && dimension == 0 {
		return fmt.Errorf("%w: empty embedding vectors", domain.ErrInvalidInput)
	}

	tx, err := w.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM vectors`); err != nil {
		return fmt.Errorf("clearing vectors: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM index_info WHERE key = ?`, dimensionKey); err != nil {
		return fmt.Errorf("clearing index dimension: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO vectors (position, embedding) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, vec := range vectors {
		if _, err := stmt.ExecContext(ctx, i, float32SliceToBytes(vec)); err != nil {
			return fmt.Errorf("saving vector %d: %w", i, err)
		}
	}

	if len(vectors) > 0 {
		if _, err := tx.ExecContext(ctx, `INSERT INTO index_info (key, value) VALUES (?, ?)`,
			dimensionKey, strconv.Itoa(dimension)); err != nil {
			return fmt.Errorf("saving index dimension: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/custodia-labs/rag-migrate/internal/core/domain"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driven"
)

// VectorSink upserts vector records into a pgvector table.
type VectorSink struct {
	db    *sql.DB
	table string
}

var _ driven.VectorSink = (*VectorSink)(nil)

// NewVectorSink creates a sink writing to table.
func NewVectorSink(db *sql.DB, table string) *VectorSink {
	return &VectorSink{db: db, table: table}
}

// Name returns the sink name.
func (s *VectorSink) Name() string {
	return "pgvector"
}

// UpsertVectors creates the table if needed and upserts every record in one transaction.
func (s *VectorSink) UpsertVectors(ctx context.Context, dimension int, vectors []domain.VectorRecord) error {
	if dimension <= 0 {
		return fmt.Errorf("%w: vector dimension must be > 0, got %d", domain.ErrInvalidInput, dimension)
	}
	table := pq.QuoteIdentifier(s.table)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("enabling pgvector: %w", err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (id TEXT PRIMARY KEY, embedding vector(%d) NOT NULL, `+
			`content TEXT NOT NULL, source TEXT NOT NULL, chunk_index INTEGER NOT NULL)`,
		table, dimension)); err != nil {
		return fmt.Errorf("creating embeddings table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (id, embedding, content, source, chunk_index) VALUES ($1, $2, $3, $4, $5) `+
			`ON CONFLICT (id) DO UPDATE SET embedding = EXCLUDED.embedding, content = EXCLUDED.content, `+
			`source = EXCLUDED.source, chunk_index = EXCLUDED.chunk_index`,
		table))
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range vectors {
		if len(rec.Vector) != dimension {
			return fmt.Errorf("%w: vector %s has %d values, expected %d",
				domain.ErrDimensionMismatch, rec.ID, len(rec.Vector), dimension)
		}

		embedding := pgvector.NewVector(toFloat32(rec.Vector))
		if _, err := stmt.ExecContext(ctx, rec.ID, embedding, rec.Metadata.Content,
			rec.Metadata.Source, rec.Metadata.ChunkIndex); err != nil {
			return fmt.Errorf("saving vector %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func toFloat32(values []float64) []float32 {
	out := make([]float32, len(values))
	for i, v := range values {
		out[i] = float32(v)
	}
	return out
}

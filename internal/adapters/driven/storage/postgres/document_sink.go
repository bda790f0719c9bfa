package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/custodia-labs/rag-migrate/internal/core/domain"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driven"
)

// DocumentSink upserts document records into a Postgres table.
type DocumentSink struct {
	db    *sql.DB
	table string
}

var _ driven.DocumentSink = (*DocumentSink)(nil)

// NewDocumentSink creates a sink writing to table.
func NewDocumentSink(db *sql.DB, table string) *DocumentSink {
	return &DocumentSink{db: db, table: table}
}

// Name returns the sink name.
func (s *DocumentSink) Name() string {
	return "postgres"
}

// SaveDocuments creates the table if needed and upserts every record in one transaction.
func (s *DocumentSink) SaveDocuments(ctx context.Context, docs []domain.DocumentRecord) error {
	table := pq.QuoteIdentifier(s.table)
	index := pq.QuoteIdentifier("idx_" + s.table + "_source")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (id TEXT PRIMARY KEY, content TEXT NOT NULL, source TEXT NOT NULL, metadata TEXT)`,
		table)); err != nil {
		return fmt.Errorf("creating documents table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(
		`CREATE INDEX IF NOT EXISTS %s ON %s (source)`, index, table)); err != nil {
		return fmt.Errorf("creating source index: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (id, content, source, metadata) VALUES ($1, $2, $3, $4) `+
			`ON CONFLICT (id) DO UPDATE SET content = EXCLUDED.content, source = EXCLUDED.source, metadata = EXCLUDED.metadata`,
		table))
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, doc := range docs {
		if _, err := stmt.ExecContext(ctx, doc.ID, doc.Content, doc.Source, doc.Metadata); err != nil {
			return fmt.Errorf("saving document %s: %w", doc.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

package sqlite

import (
	"context"
	"fmt"

	"github.com/custodia-labs/rag-migrate/internal/core/domain"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driven"
)

// documentSink implements driven.DocumentSink on the D1-compatible documents table.
type documentSink struct {
	store *Store
}

var _ driven.DocumentSink = (*documentSink)(nil)

// DocumentSink returns a DocumentSink backed by this store.
func (s *Store) DocumentSink() driven.DocumentSink {
	return &documentSink{store: s}
}

// Name returns the sink name.
func (d *documentSink) Name() string {
	return "sqlite"
}

// SaveDocuments inserts or replaces every record in one transaction.
func (d *documentSink) SaveDocuments(ctx context.Context, docs []domain.DocumentRecord) error {
	tx, err := d.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO documents (id, content, source, metadata)
		VALUES (?, ?, ?, ?)
	`)
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

// CountDocuments returns the number of rows in the documents table.
func (s *Store) CountDocuments(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}

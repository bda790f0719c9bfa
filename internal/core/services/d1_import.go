package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/rag-migrate/internal/core/domain"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driven"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driving"
	"github.com/custodia-labs/rag-migrate/internal/logger"
)

// Ensure D1ImportService implements the interface.
var _ driving.D1Importer = (*D1ImportService)(nil)

const d1Schema = `CREATE TABLE IF NOT EXISTS documents (
  id TEXT PRIMARY KEY,
  content TEXT NOT NULL,
  source TEXT NOT NULL,
  metadata TEXT
);

CREATE INDEX IF NOT EXISTS idx_source ON documents(source);
`

// D1ImportService converts a document collection into a D1 import script
// and applies it to any configured document sinks.
type D1ImportService struct {
	store driven.ExportStore
	opts  options
}

// NewD1ImportService creates a new D1 import service.
func NewD1ImportService(store driven.ExportStore, opts ...Option) *D1ImportService {
	return &D1ImportService{
		store: store,
		opts:  newOptions(opts),
	}
}

// Import reads inputPath, writes the SQL script to sqlPath and then saves
// the documents to every sink in turn.
func (s *D1ImportService) Import(ctx context.Context, inputPath, sqlPath string) (*driving.D1ImportReport, error) {
	if s.store == nil {
		return nil, fmt.Errorf("%w: no export store available", domain.ErrMissingDependency)
	}

	runID := s.opts.newRunID()
	logger.Section("Import documents to D1")
	logger.Debug("run %s: input=%s sql=%s", runID, inputPath, sqlPath)

	export, err := s.store.ReadDocuments(ctx, inputPath)
	if err != nil {
		return nil, fmt.Errorf("read documents: %w", err)
	}
	if err := export.Validate(); err != nil {
		return nil, fmt.Errorf("read documents: %w", err)
	}
	logger.Info("Found %d documents to import", export.TotalDocuments)

	if err := s.store.WriteText(ctx, sqlPath, D1Script(export.Documents)); err != nil {
		return nil, fmt.Errorf("write sql: %w", err)
	}
	logger.Info("SQL file generated: %s", sqlPath)

	var applied []string
	for _, sink := range s.opts.documentSinks {
		if err := sink.SaveDocuments(ctx, export.Documents); err != nil {
			return nil, fmt.Errorf("apply documents to %s: %w", sink.Name(), err)
		}
		applied = append(applied, sink.Name())
		logger.Info("Applied %d documents to %s", export.TotalDocuments, sink.Name())
	}

	return &driving.D1ImportReport{
		RunID:     runID,
		Documents: export.TotalDocuments,
		SQLPath:   sqlPath,
		Sinks:     applied,
	}, nil
}

// D1Script renders the schema and one INSERT OR REPLACE statement per document.
func D1Script(docs []domain.DocumentRecord) string {
	var b strings.Builder
	b.WriteString(d1Schema)

	for _, doc := range docs {
		fmt.Fprintf(&b, "\nINSERT OR REPLACE INTO documents (id, content, source, metadata)\nVALUES (%s, %s, %s, %s);\n",
			sqlQuote(doc.ID), sqlQuote(doc.Content), sqlQuote(doc.Source), sqlQuote(doc.Metadata))
	}

	return b.String()
}

// sqlQuote renders s as a single-quoted SQL string literal.
func sqlQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/rag-migrate/internal/core/domain"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driven"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driving"
	"github.com/custodia-labs/rag-migrate/internal/logger"
)

// Ensure MarkdownIngestService implements the interface.
var _ driving.MarkdownIngester = (*MarkdownIngestService)(nil)

// MarkdownIngestService splits whole markdown files into chunks and exports
// them as a document collection.
type MarkdownIngestService struct {
	files    driven.ChunkSource
	splitter driven.PostProcessor
	store    driven.ExportStore
	sink     driven.ChunkSink
	opts     options
}

// NewMarkdownIngestService creates a new markdown ingest service.
// files yields one chunk per file; sink is optional and only used when a
// request asks for the chunks to be saved.
func NewMarkdownIngestService(
	files driven.ChunkSource,
	splitter driven.PostProcessor,
	store driven.ExportStore,
	sink driven.ChunkSink,
	opts ...Option,
) *MarkdownIngestService {
	return &MarkdownIngestService{
		files:    files,
		splitter: splitter,
		store:    store,
		sink:     sink,
		opts:     newOptions(opts),
	}
}

// Ingest reads, splits and exports every matching file in file order.
func (s *MarkdownIngestService) Ingest(ctx context.Context, req driving.IngestRequest) (*driving.IngestReport, error) {
	if s.files == nil || s.splitter == nil || s.store == nil {
		return nil, fmt.Errorf("%w: markdown ingest requires a file source, a splitter and an export store",
			domain.ErrMissingDependency)
	}
	if req.SaveChunks && s.sink == nil {
		return nil, fmt.Errorf("%w: no chunk store configured for saving chunks", domain.ErrMissingDependency)
	}

	runID := s.opts.newRunID()
	logger.Section("Ingest markdown")
	logger.Debug("run %s: dir=%s splitter=%s output=%s", runID, s.files.Location(), s.splitter.Name(), req.OutputPath)

	parents, err := s.files.LoadChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load markdown files: %w", err)
	}

	files := make([]string, len(parents))
	for i, parent := range parents {
		files[i] = parent.Source()
		logger.Debug("file %d: %s (%d characters)", i, files[i], len([]rune(parent.Content)))
	}
	logger.Info("Found %d markdown files in %s", len(files), s.files.Location())

	chunks, err := s.splitter.Process(ctx, parents)
	if err != nil {
		return nil, fmt.Errorf("split markdown: %w", err)
	}
	logger.Info("Split into %d chunks", len(chunks))

	export, err := buildDocumentExport(ctx, "ingest-markdown", chunks, s.opts)
	if err != nil {
		return nil, fmt.Errorf("build documents: %w", err)
	}

	if err := s.store.WriteDocuments(ctx, req.OutputPath, export); err != nil {
		return nil, fmt.Errorf("write documents: %w", err)
	}
	logger.Info("Wrote %d documents to %s", export.TotalDocuments, req.OutputPath)

	if req.SaveChunks {
		if err := s.sink.SaveChunks(ctx, chunks); err != nil {
			return nil, fmt.Errorf("save chunks: %w", err)
		}
		logger.Info("Saved %d chunks", len(chunks))
	}

	return &driving.IngestReport{
		RunID:          runID,
		Output:         req.OutputPath,
		Files:          files,
		TotalDocuments: export.TotalDocuments,
		ChunksSaved:    req.SaveChunks,
	}, nil
}

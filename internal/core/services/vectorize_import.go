package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/rag-migrate/internal/core/domain"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driven"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driving"
	"github.com/custodia-labs/rag-migrate/internal/logger"
)

// Ensure VectorizeImportService implements the interface.
var _ driving.VectorizeImporter = (*VectorizeImportService)(nil)

// vectorizeEntry is one line of a Vectorize bulk insert file.
type vectorizeEntry struct {
	ID       string                `json:"id"`
	Values   []float64             `json:"values"`
	Metadata domain.VectorMetadata `json:"metadata"`
}

// VectorizeImportService converts a vector collection into Vectorize JSONL
// and upserts it into any configured vector sinks.
type VectorizeImportService struct {
	store driven.ExportStore
	opts  options
}

// NewVectorizeImportService creates a new Vectorize import service.
func NewVectorizeImportService(store driven.ExportStore, opts ...Option) *VectorizeImportService {
	return &VectorizeImportService{
		store: store,
		opts:  newOptions(opts),
	}
}

// Import reads inputPath, writes one JSON object per vector to jsonlPath and
// then upserts the vectors into every sink in turn.
func (s *VectorizeImportService) Import(ctx context.Context, inputPath, jsonlPath string) (*driving.VectorizeImportReport, error) {
	if s.store == nil {
		return nil, fmt.Errorf("%w: no export store available", domain.ErrMissingDependency)
	}

	runID := s.opts.newRunID()
	logger.Section("Import vectors to Vectorize")
	logger.Debug("run %s: input=%s jsonl=%s", runID, inputPath, jsonlPath)

	export, err := s.store.ReadVectors(ctx, inputPath)
	if err != nil {
		return nil, fmt.Errorf("read vectors: %w", err)
	}
	if err := export.Validate(); err != nil {
		return nil, fmt.Errorf("read vectors: %w", err)
	}
	logger.Info("Found %d vectors of dimension %d", export.TotalVectors, export.Dimension)

	jsonl, err := VectorizeJSONL(export.Vectors)
	if err != nil {
		return nil, err
	}
	if err := s.store.WriteText(ctx, jsonlPath, jsonl); err != nil {
		return nil, fmt.Errorf("write jsonl: %w", err)
	}
	logger.Info("Vectorize import file created: %s", jsonlPath)

	var applied []string
	for _, sink := range s.opts.vectorSinks {
		if err := sink.UpsertVectors(ctx, export.Dimension, export.Vectors); err != nil {
			return nil, fmt.Errorf("upsert vectors to %s: %w", sink.Name(), err)
		}
		applied = append(applied, sink.Name())
		logger.Info("Upserted %d vectors to %s", export.TotalVectors, sink.Name())
	}

	return &driving.VectorizeImportReport{
		RunID:     runID,
		Vectors:   export.TotalVectors,
		Dimension: export.Dimension,
		JSONLPath: jsonlPath,
		Sinks:     applied,
	}, nil
}

// VectorizeJSONL renders one compact {"id","values","metadata"} object per
// vector, joined by newlines with no trailing newline.
func VectorizeJSONL(vectors []domain.VectorRecord) (string, error) {
	lines := make([]string, len(vectors))

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	for i, v := range vectors {
		buf.Reset()
		if err := enc.Encode(vectorizeEntry{ID: v.ID, Values: v.Vector, Metadata: v.Metadata}); err != nil {
			return "", fmt.Errorf("encode vector %s: %w", v.ID, err)
		}
		lines[i] = strings.TrimSuffix(buf.String(), "\n")
	}

	return strings.Join(lines, "\n"), nil
}

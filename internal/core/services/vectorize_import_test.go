package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/rag-migrate/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/rag-migrate/internal/core/domain"
)

const (
	vectorizeInput = "migrations/vectors_export.json"
	vectorizeJSONL = "migrations/vectorize-import.jsonl"
)

func TestVectorizeJSONL(t *testing.T) {
	vectors := []domain.VectorRecord{
		{ID: "doc_0", Vector: []float64{0.5, -1}, Metadata: domain.VectorMetadata{Content: "a <b> & c", Source: "a.md", ChunkIndex: 0}},
		{ID: "doc_1", Vector: []float64{2, 0.25}, Metadata: domain.VectorMetadata{Content: "d", Source: "b.md", ChunkIndex: 1}},
	}

	jsonl, err := VectorizeJSONL(vectors)
	require.NoError(t, err)

	lines := strings.Split(jsonl, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `{"id":"doc_0","values":[0.5,-1],"metadata":{"content":"a <b> & c","source":"a.md","chunk_index":0}}`, lines[0])
	assert.Equal(t, `{"id":"doc_1","values":[2,0.25],"metadata":{"content":"d","source":"b.md","chunk_index":1}}`, lines[1])
}

func TestVectorizeJSONL_Empty(t *testing.T) {
	jsonl, err := VectorizeJSONL(nil)
	require.NoError(t, err)
	assert.Empty(t, jsonl)
}

func TestVectorizeImportService_Import(t *testing.T) {
	export := sampleVectorExport(3, 4)
	store := memory.NewExportStore()
	require.NoError(t, store.WriteVectors(context.Background(), vectorizeInput, export))
	sink := memory.NewVectorSink()
	svc := NewVectorizeImportService(store, WithVectorSinks(sink), WithRunIDGenerator(fixedRunID))

	report, err := svc.Import(context.Background(), vectorizeInput, vectorizeJSONL)
	require.NoError(t, err)

	assert.Equal(t, "run-1", report.RunID)
	assert.Equal(t, 3, report.Vectors)
	assert.Equal(t, 4, report.Dimension)
	assert.Equal(t, vectorizeJSONL, report.JSONLPath)
	assert.Equal(t, []string{"memory"}, report.Sinks)

	text, ok := store.Text(vectorizeJSONL)
	require.True(t, ok)
	assert.Len(t, strings.Split(text, "\n"), 3)
	assert.False(t, strings.HasSuffix(text, "\n"))

	assert.Equal(t, 3, sink.Len())
	assert.Equal(t, 4, sink.Dimension())
}

func TestVectorizeImportService_MissingInput(t *testing.T) {
	store := memory.NewExportStore()

	_, err := NewVectorizeImportService(store).Import(context.Background(), vectorizeInput, vectorizeJSONL)

	assert.ErrorIs(t, err, domain.ErrMissingArtifact)
	assert.Empty(t, store.Writes())
}

func TestVectorizeImportService_InconsistentWidth(t *testing.T) {
	export := sampleVectorExport(3, 4)
	export.Vectors[1].Vector = []float64{1}
	store := memory.NewExportStore()
	require.NoError(t, store.WriteVectors(context.Background(), vectorizeInput, export))

	_, err := NewVectorizeImportService(store).Import(context.Background(), vectorizeInput, vectorizeJSONL)

	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

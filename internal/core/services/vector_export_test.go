package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/rag-migrate/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/rag-migrate/internal/core/domain"
)

const vectorsPath = "out/vectors_export.json"

func indexOf(n, dim int) *memory.VectorIndex {
	vectors := make([][]float32, n)
	for i := range vectors {
		vec := make([]float32, dim)
		for j := range vec {
			vec[j] = float32(i) + float32(j)/4
		}
		vectors[i] = vec
	}
	return memory.NewVectorIndex(dim, vectors...)
}

func TestVectorExportService_TruncatesToShorterInput(t *testing.T) {
	chunks := sampleChunks(10)
	store := memory.NewExportStore()
	svc := NewVectorExportService(indexOf(7, 4), memory.NewChunkStore(chunks...), store,
		WithRunIDGenerator(fixedRunID))

	report, err := svc.Export(context.Background(), vectorsPath)
	require.NoError(t, err)

	assert.Equal(t, "run-1", report.RunID)
	assert.Equal(t, 7, report.IndexVectors)
	assert.Equal(t, 10, report.Chunks)
	assert.Equal(t, 7, report.TotalVectors)
	assert.Equal(t, 4, report.Dimension)

	export, err := store.ReadVectors(context.Background(), vectorsPath)
	require.NoError(t, err)
	require.NoError(t, export.Validate())
	require.Len(t, export.Vectors, 7)

	for i, rec := range export.Vectors {
		assert.Equal(t, domain.VectorID(i), rec.ID)
		assert.Len(t, rec.Vector, 4)
		assert.InDelta(t, float64(i)+0.75, rec.Vector[3], 1e-9)
		assert.Equal(t, chunks[i].Content, rec.Metadata.Content)
		assert.Equal(t, chunks[i].Source(), rec.Metadata.Source)
		assert.Equal(t, i, rec.Metadata.ChunkIndex)
	}
}

func TestVectorExportService_MoreVectorsThanChunks(t *testing.T) {
	store := memory.NewExportStore()
	svc := NewVectorExportService(indexOf(5, 2), memory.NewChunkStore(sampleChunks(3)...), store)

	report, err := svc.Export(context.Background(), vectorsPath)
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalVectors)
}

func TestVectorExportService_ReportsEmbeddingModel(t *testing.T) {
	svc := NewVectorExportService(indexOf(2, 3), memory.NewChunkStore(sampleChunks(2)...), memory.NewExportStore(),
		WithEmbedder(&mockEmbedder{dims: 8, model: "llama3.2"}))

	report, err := svc.Export(context.Background(), vectorsPath)
	require.NoError(t, err)

	assert.Equal(t, "llama3.2", report.EmbeddingModel)
	assert.Equal(t, 3, report.Dimension)
}

func TestVectorExportService_MissingChunkStore(t *testing.T) {
	store := memory.NewExportStore()
	svc := NewVectorExportService(indexOf(2, 2), memory.NewMissingChunkStore(), store)

	_, err := svc.Export(context.Background(), vectorsPath)

	assert.ErrorIs(t, err, domain.ErrMissingArtifact)
	assert.Empty(t, store.Writes())
}

func TestVectorExportService_MissingIndex(t *testing.T) {
	svc := NewVectorExportService(nil, memory.NewChunkStore(), memory.NewExportStore())

	_, err := svc.Export(context.Background(), vectorsPath)

	assert.ErrorIs(t, err, domain.ErrMissingDependency)
}

func TestVectorExportService_RejectsInconsistentIndex(t *testing.T) {
	index := memory.NewVectorIndex(3, []float32{1, 2, 3}, []float32{1, 2})
	svc := NewVectorExportService(index, memory.NewChunkStore(sampleChunks(2)...), memory.NewExportStore())

	_, err := svc.Export(context.Background(), vectorsPath)

	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/rag-migrate/internal/core/domain"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driven"
)

// --- Mock implementations shared by the service tests ---

// mockEmbedder implements driven.EmbeddingService.
// Each text embeds to a vector of dims values equal to its length.
type mockEmbedder struct {
	dims    int
	model   string
	err     error
	widths  map[string]int
	batches [][]string
}

var _ driven.EmbeddingService = (*mockEmbedder)(nil)

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.batches = append(m.batches, append([]string(nil), texts...))
	if m.err != nil {
		return nil, m.err
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		width := m.dims
		if w, ok := m.widths[text]; ok {
			width = w
		}
		vec := make([]float32, width)
		for j := range vec {
			vec[j] = float32(len(text))
		}
		out[i] = vec
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int              { return m.dims }
func (m *mockEmbedder) ModelName() string            { return m.model }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

// mockReducer implements driven.Reducer by keeping the first k columns.
type mockReducer struct {
	err   error
	calls int
}

var _ driven.Reducer = (*mockReducer)(nil)

func (m *mockReducer) Name() string { return "mock" }

func (m *mockReducer) FitTransform(rows [][]float64, k int) (*driven.Projection, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = append([]float64(nil), row[:k]...)
	}
	return &driven.Projection{Rows: out, ExplainedVariance: 0.5, Components: k}, nil
}

func fixedRunID() string { return "run-1" }

// sampleChunks returns n chunks from two alternating sources.
func sampleChunks(n int) []domain.Chunk {
	chunks := make([]domain.Chunk, n)
	for i := range chunks {
		chunks[i] = domain.Chunk{
			Content:  fmt.Sprintf("chunk number %d", i),
			Metadata: map[string]any{"source": fmt.Sprintf("file-%d.md", i%2)},
		}
	}
	return chunks
}

// sampleVectorExport returns n records of width dim with distinct values.
func sampleVectorExport(n, dim int) *domain.VectorExport {
	records := make([]domain.VectorRecord, n)
	for i := range records {
		vec := make([]float64, dim)
		for j := range vec {
			vec[j] = float64((i+1)*(j+2)%7) + float64(i)/10
		}
		records[i] = domain.VectorRecord{
			ID:     domain.VectorID(i),
			Vector: vec,
			Metadata: domain.VectorMetadata{
				Content:    fmt.Sprintf("content %d", i),
				Source:     "a.md",
				ChunkIndex: i,
			},
		}
	}
	return domain.NewVectorExport(dim, records)
}

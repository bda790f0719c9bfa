package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorID(t *testing.T) {
	assert.Equal(t, "doc_0", VectorID(0))
	assert.Equal(t, "doc_42", VectorID(42))
}

func TestNewVectorRecord(t *testing.T) {
	chunk := Chunk{Content: "text", Metadata: map[string]any{"source": "a.md"}}

	rec := NewVectorRecord(4, chunk, []float32{0.5, -1, 2})

	assert.Equal(t, "doc_4", rec.ID)
	assert.Equal(t, []float64{0.5, -1, 2}, rec.Vector)
	assert.Equal(t, VectorMetadata{Content: "text", Source: "a.md", ChunkIndex: 4}, rec.Metadata)
}

func TestVectorRecord_MetadataIsNested(t *testing.T) {
	rec := NewVectorRecord(0, Chunk{Content: "c"}, []float32{1})

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	assert.JSONEq(t,
		`{"id":"doc_0","vector":[1],"metadata":{"content":"c","source":"unknown","chunk_index":0}}`,
		string(data))
}

func TestVectorExport_Validate(t *testing.T) {
	tests := []struct {
		name    string
		export  *VectorExport
		wantErr error
	}{
		{
			name:   "valid",
			export: NewVectorExport(2, []VectorRecord{{ID: "a", Vector: []float64{1, 2}}}),
		},
		{
			name:    "wrong total",
			export:  &VectorExport{Dimension: 2, TotalVectors: 2, Vectors: []VectorRecord{{ID: "a", Vector: []float64{1, 2}}}},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "wrong width",
			export:  NewVectorExport(3, []VectorRecord{{ID: "a", Vector: []float64{1, 2}}}),
			wantErr: ErrDimensionMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.export.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestVectorExport_Clone(t *testing.T) {
	original := NewVectorExport(2, []VectorRecord{{ID: "a", Vector: []float64{1, 2}}})

	clone := original.Clone()
	clone.Vectors[0].Vector[0] = 99
	clone.Dimension = 1

	assert.Equal(t, []float64{1, 2}, original.Vectors[0].Vector)
	assert.Equal(t, 2, original.Dimension)
}

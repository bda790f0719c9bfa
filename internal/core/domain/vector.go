package domain

import "fmt"

// VectorMetadata is stored as a nested JSON object on every vector record.
type VectorMetadata struct {
	Content    string `json:"content"`
	Source     string `json:"source"`
	ChunkIndex int    `json:"chunk_index"`
}

// VectorRecord is one embedding of the vector export collection.
type VectorRecord struct {
	ID       string         `json:"id"`
	Vector   []float64      `json:"vector"`
	Metadata VectorMetadata `json:"metadata"`
}

// VectorExport is the vector export collection.
// Every vector's length must equal Dimension.
type VectorExport struct {
	Dimension    int            `json:"dimension"`
	TotalVectors int            `json:"total_vectors"`
	Vectors      []VectorRecord `json:"vectors"`
}

// NewVectorExport wraps records into a collection with a consistent total.
func NewVectorExport(dimension int, vectors []VectorRecord) *VectorExport {
	if vectors == nil {
		vectors = []VectorRecord{}
	}
	return &VectorExport{
		Dimension:    dimension,
		TotalVectors: len(vectors),
		Vectors:      vectors,
	}
}

// Validate checks the total and the width of every vector.
func (e *VectorExport) Validate() error {
	if e.TotalVectors != len(e.Vectors) {
		return fmt.Errorf("%w: total_vectors is %d but %d vectors are present",
			ErrInvalidInput, e.TotalVectors, len(e.Vectors))
	}
	for i := range e.Vectors {
		if len(e.Vectors[i].Vector) != e.Dimension {
			return fmt.Errorf("%w: vector %s has %d values, collection dimension is %d",
				ErrDimensionMismatch, e.Vectors[i].ID, len(e.Vectors[i].Vector), e.Dimension)
		}
	}
	return nil
}

// Clone returns a deep copy, so a collection can be backed up before it is changed.
func (e *VectorExport) Clone() *VectorExport {
	vectors := make([]VectorRecord, len(e.Vectors))
	for i, v := range e.Vectors {
		vectors[i] = v
		vectors[i].Vector = append([]float64(nil), v.Vector...)
	}
	return &VectorExport{
		Dimension:    e.Dimension,
		TotalVectors: e.TotalVectors,
		Vectors:      vectors,
	}
}

// VectorID derives the position-only identifier used by vector exports.
// Vector IDs and DocumentIDs are separate ID spaces.
func VectorID(position int) string {
	return fmt.Sprintf("doc_%d", position)
}

// NewVectorRecord pairs the chunk at position with its embedding.
func NewVectorRecord(position int, chunk Chunk, embedding []float32) VectorRecord {
	vector := make([]float64, len(embedding))
	for i, v := range embedding {
		vector[i] = float64(v)
	}

	return VectorRecord{
		ID:     VectorID(position),
		Vector: vector,
		Metadata: VectorMetadata{
			Content:    chunk.Content,
			Source:     chunk.Source(),
			ChunkIndex: position,
		},
	}
}

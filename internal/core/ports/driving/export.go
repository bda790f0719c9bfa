package driving

import "context"

// DocumentExporter exports a chunk sequence as a document collection.
type DocumentExporter interface {
	// Export writes the document collection to outputPath.
	Export(ctx context.Context, outputPath string) (*DocumentExportReport, error)
}

// DocumentExportReport summarises a document export run.
type DocumentExportReport struct {
	// RunID identifies this run in logs.
	RunID string

	// Source describes where chunks were read from.
	Source string

	// Output is the written export path.
	Output string

	// TotalDocuments is the number of exported records.
	TotalDocuments int
}

// VectorExporter pairs stored embeddings with their chunks and exports them.
type VectorExporter interface {
	// Export writes the vector collection to outputPath.
	Export(ctx context.Context, outputPath string) (*VectorExportReport, error)
}

// VectorExportReport summarises a vector export run.
type VectorExportReport struct {
	RunID  string
	Output string

	// IndexVectors and Chunks are the sizes of the two aligned inputs.
	IndexVectors int
	Chunks       int

	// TotalVectors is min(IndexVectors, Chunks).
	TotalVectors int

	// Dimension is the width of every exported vector.
	Dimension int

	// EmbeddingModel is the model of the verified embedding client, if any.
	EmbeddingModel string
}

package driving

import "context"

// D1Importer turns a document collection into D1 import SQL and optionally applies it.
type D1Importer interface {
	Import(ctx context.Context, inputPath, sqlPath string) (*D1ImportReport, error)
}

// D1ImportReport summarises a D1 import run.
type D1ImportReport struct {
	RunID     string
	Documents int
	SQLPath   string

	// Sinks lists the databases the rows were applied to.
	Sinks []string
}

// VectorizeImporter turns a vector collection into Vectorize JSONL and optionally upserts it.
type VectorizeImporter interface {
	Import(ctx context.Context, inputPath, jsonlPath string) (*VectorizeImportReport, error)
}

// VectorizeImportReport summarises a Vectorize import run.
type VectorizeImportReport struct {
	RunID     string
	Vectors   int
	Dimension int
	JSONLPath string
	Sinks     []string
}

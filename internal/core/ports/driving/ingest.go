package driving

import "context"

// MarkdownIngester splits a directory of markdown files into a document collection.
type MarkdownIngester interface {
	Ingest(ctx context.Context, req IngestRequest) (*IngestReport, error)
}

// IngestRequest configures a markdown ingest run.
type IngestRequest struct {
	// OutputPath is where the document collection is written.
	OutputPath string

	// SaveChunks, when set, also persists the split chunks to a chunk store.
	SaveChunks bool
}

// IngestReport summarises a markdown ingest run.
type IngestReport struct {
	RunID  string
	Output string

	// Files lists the ingested file sources in processing order.
	Files []string

	// TotalDocuments is the number of chunks produced by the splitter.
	TotalDocuments int

	// ChunksSaved is true when the chunks were also persisted.
	ChunksSaved bool
}

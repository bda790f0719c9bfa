// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the corresponding job to run:
//
//   - ChunkSource: Reads a chunk sequence (gob file, SQLite store, markdown directory)
//   - ExportStore: Reads and writes JSON export collections
//   - VectorIndex: Positional read access to stored embeddings
//   - PostProcessor: Splits chunks (recursive character splitter)
//   - Reducer: Fits and applies a dimensionality reduction
//
// # Optional Interfaces
//
// These can be nil - the job skips the step:
//
//   - DocumentSink: Applies document rows to a SQL database
//   - VectorSink: Upserts vectors into a vector database
//   - EmbeddingService: Only needed to build or verify a vector index
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven

// Package sqlite provides a SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. A single database file can hold:
//
//   - the chunk store (ChunkSource, ChunkSink)
//   - the vector index (VectorIndex, VectorIndexWriter)
//   - a D1-compatible documents table (DocumentSink)
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Vector encoding
//
// Embeddings are stored as little-endian float32 blobs. The shared width is
// kept in index_info under the "dimension" key.
package sqlite

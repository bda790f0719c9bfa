// Package domain defines the core entities moved around by the migration jobs.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: A unit of text with arbitrary metadata, as produced by a splitter
//   - DocumentRecord / DocumentExport: The document export collection
//   - VectorRecord / VectorExport: The vector export collection
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

// Package chunkstore opens the local chunk store.
//
// The store format follows the file extension: .db, .sqlite and .sqlite3
// select the SQLite store, anything else the gob file.
package chunkstore

import (
	"path/filepath"
	"strings"

	"github.com/custodia-labs/rag-migrate/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/rag-migrate/internal/core/ports/driven"
)

// Store is a chunk store that can be read, written and closed.
type Store interface {
	driven.ChunkSource
	driven.ChunkSink
	Close() error
}

// IsSQLite reports whether path selects the SQLite format.
func IsSQLite(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// OpenSource opens an existing chunk store for reading.
// A missing store yields domain.ErrMissingArtifact.
func OpenSource(path string) (Store, error) {
	if IsSQLite(path) {
		return sqlite.Open(path)
	}
	return NewGobStore(path), nil
}

// OpenSink opens a chunk store for writing, creating it when absent.
func OpenSink(path string) (Store, error) {
	if IsSQLite(path) {
		return sqlite.Create(path)
	}
	return NewGobStore(path), nil
}

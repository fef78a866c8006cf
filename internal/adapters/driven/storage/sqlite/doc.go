// Package sqlite provides the SQLite-backed chunk store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Documents and their chunks live in two
// tables; deleting a document cascades to its chunks.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Embeddings
//
// Vectors are stored as little-endian float32 BLOBs. Similarity is computed by the
// retrieval service over ListVectors, so no vector extension is needed.
//
// # Data Location
//
// By default, the database is stored at ~/.tailor/data/tailor.db
package sqlite

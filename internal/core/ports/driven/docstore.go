package driven

import (
	"context"

	"github.com/custodia-labs/tailor/internal/core/domain"
)

// DocumentStore persists documents and their chunks.
// Backed by SQLite or Postgres; similarity is computed by the caller
// over ListVectors, so no native vector index is required.
type DocumentStore interface {
	// SaveDocument stores a document together with its chunks.
	// Either both are persisted or neither is.
	SaveDocument(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns all documents, newest first.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// ListVectors returns every chunk of a document with its embedding,
	// ordered by position. A document without chunks yields an empty slice.
	ListVectors(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// CountChunks returns the number of chunks stored for a document.
	CountChunks(ctx context.Context, documentID string) (int, error)

	// DeleteDocument removes a document and, by cascade, its chunks.
	// Returns domain.ErrNotFound if it does not exist.
	DeleteDocument(ctx context.Context, id string) error
}

package driving

import (
	"context"

	"github.com/custodia-labs/tailor/internal/core/domain"
)

// DocumentService manages stored résumés.
type DocumentService interface {
	// List returns all documents, newest first.
	List(ctx context.Context) ([]domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// Chunks returns a document's chunks ordered by position.
	Chunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// Stats summarises a document's size and chunking.
	Stats(ctx context.Context, documentID string) (*domain.DocumentStats, error)

	// Delete removes a document and its chunks.
	Delete(ctx context.Context, documentID string) error
}

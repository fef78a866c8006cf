package driving

import (
	"context"

	"github.com/custodia-labs/tailor/internal/core/domain"
)

// RetrievalService ranks a document's chunks against a query.
type RetrievalService interface {
	// Retrieve returns up to opts.Limit chunks by descending similarity,
	// ties broken by ascending position.
	// Returns domain.ErrNotFound if the document does not exist; a document
	// without chunks yields an empty result.
	Retrieve(ctx context.Context, documentID, query string, opts domain.RetrievalOptions) (*domain.RetrievalResult, error)
}

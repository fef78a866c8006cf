package driven

import (
	"context"

	"github.com/custodia-labs/tailor/internal/core/domain"
)

// NormaliserRegistry selects the appropriate normaliser for a document.
// It maintains a priority-ordered list of normalisers and dispatches
// on MIME type.
type NormaliserRegistry interface {
	// Normalise transforms a raw document using the best matching normaliser.
	// Returns domain.ErrUnsupportedType when nothing handles the MIME type.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// SupportedMIMETypes returns all MIME types that can be normalised.
	SupportedMIMETypes() []string
}

package driven

import (
	"context"

	"github.com/custodia-labs/tailor/internal/core/domain"
)

// Normaliser extracts plain text from raw bytes.
// Each normaliser handles specific MIME types (e.g., PDF, DOCX).
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific normalisers should return 50-89.
	// Fallback normalisers should return 1-9.
	Priority() int

	// Normalise transforms a raw document into a document with Content.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
// Chunking is handled by the PostProcessor pipeline.
type NormaliseResult struct {
	// Document is the normalised document with Content field populated.
	Document domain.Document
}

package driving

import (
	"context"

	"github.com/custodia-labs/tailor/internal/core/domain"
)

// IngestService turns résumé text into a stored, embedded document.
type IngestService interface {
	// Ingest chunks, embeds and stores already-extracted text.
	// Returns domain.ErrInvalidInput for empty or binary text.
	Ingest(ctx context.Context, req IngestRequest) (*IngestResult, error)

	// IngestFile extracts text from raw bytes, then ingests it.
	// Returns domain.ErrUnsupportedType if no extractor handles the MIME type.
	IngestFile(ctx context.Context, raw *domain.RawDocument) (*IngestResult, error)
}

// IngestRequest carries extracted résumé text.
type IngestRequest struct {
	Text     string
	Title    string
	URI      string
	MIMEType string
	Metadata map[string]any
}

// IngestResult confirms a stored document.
type IngestResult struct {
	DocumentID string `json:"document_id"`
	ChunkCount int    `json:"chunk_count"`
	WordCount  int    `json:"word_count"`
}

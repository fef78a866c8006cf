package driving

import (
	"context"

	"github.com/custodia-labs/tailor/internal/core/domain"
)

// TailorService produces cited résumé bullets for a job description.
type TailorService interface {
	// Tailor retrieves the chunks most relevant to the job description and
	// generates bullets that cite only those chunks.
	Tailor(ctx context.Context, req TailorRequest) (*domain.TailorResult, error)

	// Preview returns the chunks Tailor would offer the generator,
	// without calling it.
	Preview(ctx context.Context, documentID, jobDescription string, limit int) (*domain.RetrievalResult, error)
}

// TailorRequest configures a tailoring request.
// Zero values select configured defaults.
type TailorRequest struct {
	DocumentID     string
	JobDescription string
	MaxBullets     int
	Style          domain.Style
	RetrievalLimit int
}

// MinJobDescriptionLength is the shortest job description accepted.
const MinJobDescriptionLength = 10

// MaxRetrievalLimit caps the retrieval limit accepted from callers.
const MaxRetrievalLimit = 50

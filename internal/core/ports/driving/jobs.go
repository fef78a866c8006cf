package driving

import (
	"context"

	"github.com/custodia-labs/tailor/internal/core/domain"
)

// JobProcessor runs queued ingestion and tailoring jobs.
type JobProcessor interface {
	// Process runs one job and reports its progress through job events.
	// The returned value is the job's result: *IngestResult or *domain.TailorResult.
	Process(ctx context.Context, job domain.Job) (any, error)
}

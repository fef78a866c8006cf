package driven

import (
	"context"

	"github.com/custodia-labs/tailor/internal/core/domain"
)

// EventPublisher announces job progress to interested consumers.
type EventPublisher interface {
	// Publish sends a job event. Implementations must be safe for concurrent use.
	Publish(ctx context.Context, event domain.JobEvent) error
}

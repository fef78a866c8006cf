package app

import (
	"context"
	"fmt"

	"github.com/custodia-labs/tailor/internal/adapters/driven/blob/s3blob"
	"github.com/custodia-labs/tailor/internal/adapters/driven/events/rabbitmq"
	"github.com/custodia-labs/tailor/internal/adapters/driving/queue"
	"github.com/custodia-labs/tailor/internal/core/ports/driven"
	"github.com/custodia-labs/tailor/internal/core/services"
	"github.com/custodia-labs/tailor/internal/logger"
)

// NewJobService builds the job processor. blobs may be nil when no bucket
// is configured; ingest jobs then fail.
func (a *App) NewJobService(blobs driven.BlobStore, events driven.EventPublisher) *services.JobService {
	return services.NewJobService(a.Ingest, a.Tailor, blobs, events)
}

// RunWorker consumes the job queue until ctx is cancelled.
func (a *App) RunWorker(ctx context.Context, workers int) error {
	qs := a.Settings.Queue
	if workers <= 0 {
		workers = qs.Workers
	}

	conn, err := rabbitmq.Dial(qs.URL)
	if err != nil {
		return err
	}
	defer conn.Close()

	publisher, err := rabbitmq.NewPublisher(conn, qs.Exchange)
	if err != nil {
		return err
	}
	defer publisher.Close()

	var blobs driven.BlobStore
	if a.Settings.Blob.IsConfigured() {
		store, err := s3blob.New(ctx, a.Settings.Blob)
		if err != nil {
			return fmt.Errorf("open blob store: %w", err)
		}
		blobs = store
	} else {
		logger.Warn("Blob storage not configured; ingest jobs will fail")
	}

	worker, err := queue.NewWorker(a.NewJobService(blobs, publisher), queue.Config{
		Queue:   qs.Queue,
		Workers: workers,
	})
	if err != nil {
		return err
	}

	logger.Info("Starting %d workers on %s", workers, qs.Queue)
	return worker.Run(ctx, conn)
}

package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/tailor/internal/core/domain"
	"github.com/custodia-labs/tailor/internal/core/ports/driven"
	"github.com/custodia-labs/tailor/internal/core/ports/driving"
	"github.com/custodia-labs/tailor/internal/logger"
)

// Ensure JobService implements the interface.
var _ driving.JobProcessor = (*JobService)(nil)

// JobService dispatches queued jobs to the ingest and tailor services.
type JobService struct {
	ingest driving.IngestService
	tailor driving.TailorService
	blobs  driven.BlobStore
	events driven.EventPublisher
	now    func() time.Time
}

// NewJobService creates a job service. blobs may be nil, in which case
// ingest jobs fail. events may be nil to disable progress events.
func NewJobService(
	ingest driving.IngestService,
	tailor driving.TailorService,
	blobs driven.BlobStore,
	events driven.EventPublisher,
) *JobService {
	return &JobService{
		ingest: ingest,
		tailor: tailor,
		blobs:  blobs,
		events: events,
		now:    time.Now,
	}
}

// Process runs one job, publishing processing then completed or failed.
func (s *JobService) Process(ctx context.Context, job domain.Job) (any, error) {
	if strings.TrimSpace(job.ID) == "" {
		return nil, fmt.Errorf("%w: job id is required", domain.ErrInvalidInput)
	}

	s.publish(ctx, domain.JobEvent{JobID: job.ID, Status: domain.JobProcessing})
	logger.Debug("Job %s (%s) started", job.ID, job.Kind)

	var (
		result any
		err    error
	)
	switch job.Kind {
	case domain.JobIngest:
		result, err = s.runIngest(ctx, job)
	case domain.JobTailor:
		result, err = s.tailor.Tailor(ctx, driving.TailorRequest{
			DocumentID:     job.ResumeID,
			JobDescription: job.JobDescription,
			MaxBullets:     job.MaxBullets,
			Style:          job.Style,
			RetrievalLimit: job.RetrievalLimit,
		})
	default:
		err = fmt.Errorf("%w: unknown job kind %q", domain.ErrInvalidInput, job.Kind)
	}

	if err != nil {
		logger.Warn("Job %s failed: %v", job.ID, err)
		s.publish(ctx, domain.JobEvent{JobID: job.ID, Status: domain.JobFailed, Message: err.Error()})
		return nil, err
	}

	s.publish(ctx, domain.JobEvent{JobID: job.ID, Status: domain.JobCompleted, Result: result})
	logger.Info("Job %s (%s) completed", job.ID, job.Kind)
	return result, nil
}

func (s *JobService) runIngest(ctx context.Context, job domain.Job) (*driving.IngestResult, error) {
	if job.ObjectKey == "" {
		return nil, fmt.Errorf("%w: object_key is required", domain.ErrInvalidInput)
	}
	if s.blobs == nil {
		return nil, fmt.Errorf("%w: no object store configured", domain.ErrInvalidInput)
	}

	data, contentType, err := s.blobs.Get(ctx, job.ObjectKey)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", job.ObjectKey, err)
	}

	mimeType := job.MIMEType
	if mimeType == "" {
		mimeType = contentType
	}

	return s.ingest.IngestFile(ctx, &domain.RawDocument{
		URI:      job.ObjectKey,
		Title:    job.Title,
		MIMEType: mimeType,
		Content:  data,
		Metadata: map[string]any{"job_id": job.ID},
	})
}

// publish sends an event. Failures are logged; a lost progress event
// must not fail the job itself.
func (s *JobService) publish(ctx context.Context, event domain.JobEvent) {
	if s.events == nil {
		return
	}
	event.Timestamp = s.now().UTC()
	if err := s.events.Publish(ctx, event); err != nil {
		logger.Warn("Publish %s event for job %s: %v", event.Status, event.JobID, err)
	}
}

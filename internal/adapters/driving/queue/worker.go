// Package queue consumes tailor jobs from a RabbitMQ queue with a pool of
// workers and hands each one to the job processor.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/streadway/amqp"

	"github.com/custodia-labs/tailor/internal/core/domain"
	"github.com/custodia-labs/tailor/internal/core/ports/driving"
	"github.com/custodia-labs/tailor/internal/logger"
)

// DefaultWorkers is the pool size used when none is configured.
const DefaultWorkers = 3

// ErrMissingProcessor is returned when no job processor is provided.
var ErrMissingProcessor = errors.New("queue: job processor is required")

// Config configures a worker pool.
type Config struct {
	// Queue is the durable queue to consume (default: tailor.jobs).
	Queue string

	// Workers is the number of concurrent consumers (default: 3).
	Workers int
}

// Worker runs a pool of consumers.
type Worker struct {
	processor driving.JobProcessor
	queue     string
	workers   int
}

// NewWorker creates a worker pool.
func NewWorker(processor driving.JobProcessor, cfg Config) (*Worker, error) {
	if processor == nil {
		return nil, ErrMissingProcessor
	}
	if cfg.Queue == "" {
		cfg.Queue = domain.DefaultAppSettings().Queue.Queue
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	return &Worker{processor: processor, queue: cfg.Queue, workers: cfg.Workers}, nil
}

// Run declares the queue and consumes it until ctx is cancelled or the
// broker closes every delivery channel. Each worker has its own channel
// with a prefetch of one, so a slow job never holds back others.
func (w *Worker) Run(ctx context.Context, conn *amqp.Connection) error {
	var wg sync.WaitGroup
	channels := make([]*amqp.Channel, 0, w.workers)
	defer func() {
		for _, ch := range channels {
			_ = ch.Close()
		}
	}()

	for i := range w.workers {
		ch, err := conn.Channel()
		if err != nil {
			return fmt.Errorf("queue: open channel: %w", err)
		}
		channels = append(channels, ch)

		if _, err := ch.QueueDeclare(
			w.queue,
			true,  // durable
			false, // auto-delete
			false, // exclusive
			false, // no-wait
			nil,
		); err != nil {
			return fmt.Errorf("queue: declare %s: %w", w.queue, err)
		}
		if err := ch.Qos(1, 0, false); err != nil {
			return fmt.Errorf("queue: set prefetch: %w", err)
		}

		deliveries, err := ch.Consume(
			w.queue,
			fmt.Sprintf("tailor-worker-%d", i+1),
			false, // manual ack
			false, // exclusive
			false, // no-local
			false, // no-wait
			nil,
		)
		if err != nil {
			return fmt.Errorf("queue: consume %s: %w", w.queue, err)
		}

		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			w.consume(ctx, id, deliveries)
		}(i + 1)
		logger.Info("Worker %d consuming %s", i+1, w.queue)
	}

	wg.Wait()
	return ctx.Err()
}

// consume handles deliveries until the channel closes or ctx is done.
func (w *Worker) consume(ctx context.Context, id int, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				logger.Warn("Worker %d: delivery channel closed", id)
				return
			}
			w.handle(ctx, id, d)
		}
	}
}

// handle processes one delivery. Jobs are acknowledged once processed,
// whether they succeed or fail; the outcome travels in job events.
// Undecodable messages are rejected, and jobs interrupted by shutdown
// are requeued.
func (w *Worker) handle(ctx context.Context, id int, d amqp.Delivery) {
	var job domain.Job
	if err := json.Unmarshal(d.Body, &job); err != nil {
		logger.Error("Worker %d: malformed job: %v", id, err)
		if err := d.Reject(false); err != nil {
			logger.Warn("Worker %d: reject: %v", id, err)
		}
		return
	}

	logger.Debug("Worker %d processing job %s", id, job.ID)
	_, err := w.processor.Process(ctx, job)
	if err != nil && ctx.Err() != nil {
		if err := d.Nack(false, true); err != nil {
			logger.Warn("Worker %d: nack %s: %v", id, job.ID, err)
		}
		return
	}

	if err := d.Ack(false); err != nil {
		logger.Warn("Worker %d: ack %s: %v", id, job.ID, err)
	}
}

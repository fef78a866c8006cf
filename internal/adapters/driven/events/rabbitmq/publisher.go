// Package rabbitmq publishes job events to a RabbitMQ topic exchange.
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/streadway/amqp"

	"github.com/custodia-labs/tailor/internal/core/domain"
	"github.com/custodia-labs/tailor/internal/core/ports/driven"
)

// Ensure Publisher implements the interface.
var _ driven.EventPublisher = (*Publisher)(nil)

// RoutingKeyPrefix precedes the job id in event routing keys.
const RoutingKeyPrefix = "job."

// channel is the subset of *amqp.Channel the publisher uses.
type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends job events on one channel. amqp channels are not safe
// for concurrent publishing, so calls are serialised.
type Publisher struct {
	mu       sync.Mutex
	ch       channel
	exchange string
	closed   bool
}

// Dial connects to a RabbitMQ broker.
func Dial(url string) (*amqp.Connection, error) {
	if url == "" {
		return nil, fmt.Errorf("rabbitmq: %w: broker URL is required", domain.ErrInvalidInput)
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: dial: %w", err)
	}
	return conn, nil
}

// NewPublisher opens a channel and declares a durable topic exchange.
func NewPublisher(conn *amqp.Connection, exchange string) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("rabbitmq: declare exchange %s: %w", exchange, err)
	}
	return newPublisher(ch, exchange), nil
}

func newPublisher(ch channel, exchange string) *Publisher {
	return &Publisher{ch: ch, exchange: exchange}
}

// Publish sends an event with routing key job.<id>.
func (p *Publisher) Publish(ctx context.Context, event domain.JobEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return errors.New("rabbitmq: publisher closed")
	}

	err = p.ch.Publish(p.exchange, RoutingKeyPrefix+event.JobID, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.Timestamp,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("rabbitmq: publish %s: %w", event.JobID, err)
	}
	return nil
}

// Close closes the channel. The connection is owned by the caller.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.ch.Close()
}

// Package events publishes CV submission events to an AMQP exchange.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jonathan/cv-uploader/internal/store"
	"github.com/jonathan/cv-uploader/internal/types"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
)

// RoutingKeySubmitted is the routing key of submission events.
const RoutingKeySubmitted = "cv.submitted"

// Submitted is the body of a submission event.
type Submitted struct {
	ID         string    `json:"id"`
	Collection string    `json:"collection"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"createdAt"`
}

// channel is the subset of *amqp.Channel used by Publisher.
type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends events to a topic exchange. Publishing is serialised because
// an AMQP channel must not be used from several goroutines at once.
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       channel
	exchange string
}

// Dial connects to the broker, opens a channel and declares a durable topic exchange.
func Dial(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-delete
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	return &Publisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// PublishSubmitted publishes a cv.submitted event.
func (p *Publisher) PublishSubmitted(ctx context.Context, ev Submitted) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.Publish(
		p.exchange,
		RoutingKeySubmitted,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    ev.ID,
			Timestamp:    ev.CreatedAt,
			Body:         body,
		},
	)
}

// Close closes the channel and the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var firstErr error
	if p.ch != nil {
		firstErr = p.ch.Close()
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// SubmittedPublisher is implemented by Publisher.
type SubmittedPublisher interface {
	PublishSubmitted(ctx context.Context, ev Submitted) error
	Close() error
}

// NotifyingStore publishes a submission event after each successful CreateRecord.
// A failed publish is logged; the stored record still counts as a success.
type NotifyingStore struct {
	store.Store
	publisher SubmittedPublisher
	logger    zerolog.Logger
}

// Wrap decorates s so that stored records are announced through publisher.
func Wrap(s store.Store, publisher SubmittedPublisher, logger zerolog.Logger) *NotifyingStore {
	return &NotifyingStore{Store: s, publisher: publisher, logger: logger}
}

// CreateRecord stores the record, then publishes the event.
func (n *NotifyingStore) CreateRecord(ctx context.Context, collection string, record types.SubmissionRecord) (string, error) {
	id, err := n.Store.CreateRecord(ctx, collection, record)
	if err != nil {
		return "", err
	}

	ev := Submitted{
		ID:         id,
		Collection: collection,
		Name:       record.Name,
		Email:      record.Email,
		CreatedAt:  record.CreatedAt,
	}
	if err := n.publisher.PublishSubmitted(ctx, ev); err != nil {
		n.logger.Warn().Err(err).Str("id", id).Msg("failed to publish submission event")
	}
	return id, nil
}

// Close closes the publisher and the wrapped store.
func (n *NotifyingStore) Close() error {
	pubErr := n.publisher.Close()
	if err := n.Store.Close(); err != nil {
		return err
	}
	return pubErr
}

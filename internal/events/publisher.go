// Package events relays live statistics updates onto the shared RabbitMQ
// events exchange so other services can react without holding their own
// stream subscription.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/stats"
)

const publishTimeout = 3 * time.Second

type Publisher struct {
	ch       Channel
	producer string
	logger   *slog.Logger
	now      func() time.Time
}

type PublisherOptions struct {
	Producer string
	Logger   *slog.Logger
}

// NewPublisher opens a channel on conn and declares the events exchange.
func NewPublisher(conn *amqp.Connection, opts PublisherOptions) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	p, err := NewChannelPublisher(ch, opts)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}
	return p, nil
}

func NewChannelPublisher(ch Channel, opts PublisherOptions) (*Publisher, error) {
	if err := declareEventsExchange(ch); err != nil {
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}

	producer := opts.Producer
	if producer == "" {
		producer = defaultProducer
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Publisher{
		ch:       ch,
		producer: producer,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

// Name identifies the publisher in live-feed sink logs.
func (p *Publisher) Name() string { return "rabbitmq" }

// RecordUpdate publishes u as a StatisticsUpdated v1 event. It satisfies
// stats.Sink.
func (p *Publisher) RecordUpdate(ctx context.Context, u stats.Update) error {
	env, err := p.newStatisticsUpdatedEvent(ctx, u)
	if err != nil {
		return err
	}
	if err := env.Validate(EventNameStatisticsUpdated, 1); err != nil {
		return fmt.Errorf("invalid StatisticsUpdated envelope: %w", err)
	}

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal StatisticsUpdated envelope: %w", err)
	}

	if err := p.publishJSON(ctx, StatisticsUpdatedRoutingKey, body); err != nil {
		return fmt.Errorf("publish StatisticsUpdated: %w", err)
	}
	p.logger.DebugContext(ctx, "statistics update relayed", "event_id", env.EventID, "partition_key", env.PartitionKey)
	return nil
}

func (p *Publisher) newStatisticsUpdatedEvent(ctx context.Context, u stats.Update) (EventEnvelope, error) {
	payload, err := json.Marshal(u)
	if err != nil {
		return EventEnvelope{}, fmt.Errorf("marshal StatisticsUpdated payload: %w", err)
	}

	occurredAt := u.ReceivedAt.UTC()
	if u.ReceivedAt.IsZero() {
		occurredAt = p.now()
	}

	return EventEnvelope{
		EventName:     EventNameStatisticsUpdated,
		EventVersion:  1,
		EventID:       uuid.NewString(),
		CorrelationID: middleware.GetCorrelationID(ctx),
		Producer:      p.producer,
		PartitionKey:  partitionKey(u),
		OccurredAt:    occurredAt,
		Schema:        statisticsUpdatedSchema,
		Payload:       payload,
	}, nil
}

// partitionKey keeps updates for one order together; recomputations not
// tied to an order share the event type's partition.
func partitionKey(u stats.Update) string {
	if u.OrderID != "" {
		return u.OrderID
	}
	if u.EventType != "" {
		return u.EventType
	}
	return EventNameStatisticsUpdated
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

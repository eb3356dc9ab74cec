package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/stats"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
	deadline bool
}

type fakeChannel struct {
	declared   []string
	declareErr error
	publishErr error
	published  []published
	closed     bool
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	f.declared = append(f.declared, name+":"+kind)
	return f.declareErr
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	_, hasDeadline := ctx.Deadline()
	f.published = append(f.published, published{exchange: exchange, key: key, msg: msg, deadline: hasDeadline})
	return f.publishErr
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestNewChannelPublisherDeclaresTopicExchange(t *testing.T) {
	ch := &fakeChannel{}
	p, err := NewChannelPublisher(ch, PublisherOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"ecommerce.events:topic"}, ch.declared)
	assert.Equal(t, defaultProducer, p.producer)
	assert.Equal(t, "rabbitmq", p.Name())

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestNewChannelPublisherDeclareFailure(t *testing.T) {
	_, err := NewChannelPublisher(&fakeChannel{declareErr: errors.New("channel closed")}, PublisherOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declare events exchange")
}

func TestRecordUpdatePublishesEnvelope(t *testing.T) {
	ch := &fakeChannel{}
	p, err := NewChannelPublisher(ch, PublisherOptions{Producer: "storefront-test"})
	require.NoError(t, err)

	received := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	u := stats.Update{
		EventType:  "ORDER_COMPLETED",
		OrderID:    "ord-42",
		Total:      &stats.TotalSales{Amount: decimal.RequireFromString("99.50"), CompletedOrders: 3},
		ReceivedAt: received,
	}

	ctx := middleware.WithCorrelationID(context.Background(), "cid-1")
	require.NoError(t, p.RecordUpdate(ctx, u))

	require.Len(t, ch.published, 1)
	pub := ch.published[0]
	assert.Equal(t, EventsExchange, pub.exchange)
	assert.Equal(t, StatisticsUpdatedRoutingKey, pub.key)
	assert.Equal(t, "application/json", pub.msg.ContentType)
	assert.Equal(t, amqp.Persistent, pub.msg.DeliveryMode)
	assert.True(t, pub.deadline)

	var env EventEnvelope
	require.NoError(t, json.Unmarshal(pub.msg.Body, &env))
	require.NoError(t, env.Validate(EventNameStatisticsUpdated, 1))
	assert.Equal(t, "storefront-test", env.Producer)
	assert.Equal(t, "ord-42", env.PartitionKey)
	assert.Equal(t, "cid-1", env.CorrelationID)
	assert.Equal(t, statisticsUpdatedSchema, env.Schema)
	assert.True(t, env.OccurredAt.Equal(received))

	var payload stats.Update
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, "ORDER_COMPLETED", payload.EventType)
	require.NotNil(t, payload.Total)
	assert.True(t, payload.Total.Amount.Equal(decimal.RequireFromString("99.50")))
	assert.Nil(t, payload.Daily)
}

func TestRecordUpdatePublishError(t *testing.T) {
	ch := &fakeChannel{publishErr: amqp.ErrClosed}
	p, err := NewChannelPublisher(ch, PublisherOptions{})
	require.NoError(t, err)

	err = p.RecordUpdate(context.Background(), stats.Update{EventType: "REFRESH"})
	require.Error(t, err)
	assert.ErrorIs(t, err, amqp.ErrClosed)
}

func TestPartitionKey(t *testing.T) {
	tests := map[string]struct {
		update stats.Update
		want   string
	}{
		"order id":   {update: stats.Update{OrderID: "o1", EventType: "ORDER_PAID"}, want: "o1"},
		"event type": {update: stats.Update{EventType: "REFRESH"}, want: "REFRESH"},
		"fallback":   {update: stats.Update{}, want: EventNameStatisticsUpdated},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, partitionKey(tt.update))
		})
	}
}

func TestEnvelopeValidate(t *testing.T) {
	valid := EventEnvelope{EventName: EventNameStatisticsUpdated, EventVersion: 1, EventID: "e1", PartitionKey: "p"}
	require.NoError(t, valid.Validate(EventNameStatisticsUpdated, 1))

	missingID := valid
	missingID.EventID = ""
	assert.EqualError(t, missingID.Validate(EventNameStatisticsUpdated, 1), "missing eventId")

	assert.Error(t, valid.Validate("OrderCreated", 1))
	assert.Error(t, valid.Validate(EventNameStatisticsUpdated, 2))
}

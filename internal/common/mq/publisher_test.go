package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"restaurant-pos/internal/domain"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	exchange, key string
	msg           amqp.Publishing
	err           error
}

func (f *fakeChannel) Publish(_ context.Context, exchange, key string, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func TestEventPublisherEncodesEnvelope(t *testing.T) {
	fc := &fakeChannel{}
	p := &EventPublisher{client: fc, source: "order-service"}
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ev := domain.Event{Type: domain.EventOrderStatusChanged, OccurredAt: at, Payload: domain.StatusChanged{
		OrderID: 9, RestaurantID: 1, OldStatus: domain.StatusReady, NewStatus: domain.StatusCompleted, Total: "13.00",
	}}

	require.NoError(t, p.Publish(context.Background(), ev))
	assert.Equal(t, NotificationsExchange, fc.exchange)
	assert.Equal(t, domain.EventOrderStatusChanged, fc.key)
	assert.Equal(t, "application/json", fc.msg.ContentType)
	assert.Equal(t, "order-service", fc.msg.Headers["x-source"])
	assert.NotEmpty(t, fc.msg.MessageId)

	var got struct {
		Type    string               `json:"type"`
		Payload domain.StatusChanged `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(fc.msg.Body, &got))
	assert.Equal(t, domain.StatusCompleted, got.Payload.NewStatus)
	assert.Equal(t, "13.00", got.Payload.Total)
}

func TestEventPublisherPropagatesBrokerError(t *testing.T) {
	fc := &fakeChannel{err: errors.New("publish NACK from broker")}
	p := &EventPublisher{client: fc}
	err := p.Publish(context.Background(), domain.Event{Type: domain.EventPointsChanged})
	assert.EqualError(t, err, "publish NACK from broker")
}

func TestRecorder(t *testing.T) {
	var r Recorder
	_ = r.Publish(context.Background(), domain.Event{Type: "a"})
	_ = r.Publish(context.Background(), domain.Event{Type: "b"})
	assert.Equal(t, []string{"a", "b"}, r.Types())
	assert.Len(t, r.Events(), 2)
}

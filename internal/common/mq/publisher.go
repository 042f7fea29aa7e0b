package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"restaurant-pos/internal/common/logger"
	"restaurant-pos/internal/domain"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

type publisher interface {
	Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) error
}

// EventPublisher fans domain events out on the notifications exchange.
type EventPublisher struct {
	client publisher
	source string
}

func NewEventPublisher(c *Client, source string) *EventPublisher {
	return &EventPublisher{client: c, source: source}
}

func (p *EventPublisher) Publish(ctx context.Context, ev domain.Event) error {
	msg, err := encode(ev, p.source)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, NotificationsExchange, ev.Type, msg)
}

func encode(ev domain.Event, source string) (amqp.Publishing, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal %s event: %w", ev.Type, err)
	}
	return amqp.Publishing{
		ContentType: "application/json",
		MessageId:   uuid.NewString(),
		Type:        ev.Type,
		Timestamp:   ev.OccurredAt,
		Headers:     amqp.Table{"x-source": source},
		Body:        body,
	}, nil
}

// LogPublisher stands in for the broker when messaging is disabled.
type LogPublisher struct {
	lg *logger.Logger
}

func NewLogPublisher(lg *logger.Logger) *LogPublisher { return &LogPublisher{lg: lg} }

func (p *LogPublisher) Publish(_ context.Context, ev domain.Event) error {
	p.lg.Info("event_emitted", map[string]any{"type": ev.Type, "payload": ev.Payload})
	return nil
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *Recorder) Publish(_ context.Context, ev domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *Recorder) Events() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Event(nil), r.events...)
}

// Types lists the event types recorded so far, in order.
func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

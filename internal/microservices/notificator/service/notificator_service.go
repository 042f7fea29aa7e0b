package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"restaurant-pos/internal/common/logger"
	"restaurant-pos/internal/domain"

	amqp "github.com/rabbitmq/amqp091-go"
)

var (
	ErrRequeue = errors.New("requeue")     // nack(requeue=true)
	ErrDLQ     = errors.New("dead_letter") // nack(requeue=false)
)

// Notification is the human-readable rendering of one event.
type Notification struct {
	Type       string
	OccurredAt time.Time
	Message    string
}

type envelope struct {
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

type NotificatorServiceInterface interface {
	Handle(ctx context.Context, body []byte) (Notification, error)
	Run(ctx context.Context, msgs <-chan amqp.Delivery) error
}

type NotificatorService struct {
	lg *logger.Logger
}

func NewNotificatorService(lg *logger.Logger) *NotificatorService {
	return &NotificatorService{lg: lg}
}

// Handle decodes one message body. Undecodable or unknown events wrap ErrDLQ;
// a message arriving after ctx is done wraps ErrRequeue.
func (ns *NotificatorService) Handle(ctx context.Context, body []byte) (Notification, error) {
	if err := ctx.Err(); err != nil {
		return Notification{}, fmt.Errorf("%w: %v", ErrRequeue, err)
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Notification{}, fmt.Errorf("%w: decode envelope: %v", ErrDLQ, err)
	}
	n := Notification{Type: env.Type, OccurredAt: env.OccurredAt}

	switch env.Type {
	case domain.EventOrderStatusChanged:
		var p domain.StatusChanged
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return Notification{}, fmt.Errorf("%w: decode %s: %v", ErrDLQ, env.Type, err)
		}
		if p.OldStatus == "" {
			n.Message = fmt.Sprintf("order %d at restaurant %d placed, total %s", p.OrderID, p.RestaurantID, p.Total)
		} else {
			n.Message = fmt.Sprintf("order %d at restaurant %d changed from %s to %s", p.OrderID, p.RestaurantID, p.OldStatus, p.NewStatus)
		}
	case domain.EventPointsChanged:
		var p domain.PointsChanged
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return Notification{}, fmt.Errorf("%w: decode %s: %v", ErrDLQ, env.Type, err)
		}
		verb, amount := "earned", p.Amount
		if amount < 0 {
			verb, amount = "spent", -amount
		}
		n.Message = fmt.Sprintf("customer %d %s %d points at restaurant %d, balance %d", p.CustomerID, verb, amount, p.RestaurantID, p.Balance)
	default:
		return Notification{}, fmt.Errorf("%w: unknown event type %q", ErrDLQ, env.Type)
	}
	return n, nil
}

// Run consumes until ctx is cancelled or the broker closes the channel.
func (ns *NotificatorService) Run(ctx context.Context, msgs <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			ns.process(ctx, d)
		}
	}
}

func (ns *NotificatorService) process(ctx context.Context, d amqp.Delivery) {
	n, err := ns.Handle(ctx, d.Body)
	switch {
	case err == nil:
		ns.lg.Info("notification_received", map[string]any{
			"type": n.Type, "message": n.Message, "message_id": d.MessageId,
		})
		_ = d.Ack(false)
	case errors.Is(err, ErrRequeue):
		ns.lg.Warn("notification_requeued", map[string]any{"message_id": d.MessageId, "reason": err.Error()})
		_ = d.Nack(false, true)
	default:
		ns.lg.Error("notification_rejected", err, map[string]any{"message_id": d.MessageId})
		_ = d.Nack(false, false)
	}
}

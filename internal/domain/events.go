package domain

import (
	"context"
	"time"
)

const (
	EventOrderStatusChanged = "order.status_changed"
	EventPointsChanged      = "points.changed"
)

// Event is the envelope published to the notifications exchange.
type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type StatusChanged struct {
	OrderID      int64  `json:"order_id"`
	RestaurantID int64  `json:"restaurant_id"`
	OldStatus    Status `json:"old_status,omitempty"`
	NewStatus    Status `json:"new_status"`
	Total        string `json:"total"`
}

type PointsChanged struct {
	CustomerID   int64  `json:"customer_id"`
	RestaurantID int64  `json:"restaurant_id"`
	Amount       int64  `json:"amount"`
	Balance      int64  `json:"balance"`
	OrderID      *int64 `json:"order_id,omitempty"`
}

func NewStatusChanged(o Order, old Status, at time.Time) Event {
	return Event{Type: EventOrderStatusChanged, OccurredAt: at, Payload: StatusChanged{
		OrderID:      o.ID,
		RestaurantID: o.RestaurantID,
		OldStatus:    old,
		NewStatus:    o.Status,
		Total:        o.Total.StringFixed(2),
	}}
}

func NewPointsChanged(p Point, balance int64, orderID *int64) Event {
	return Event{Type: EventPointsChanged, OccurredAt: p.CreatedAt, Payload: PointsChanged{
		CustomerID:   p.CustomerID,
		RestaurantID: p.RestaurantID,
		Amount:       p.Amount,
		Balance:      balance,
		OrderID:      orderID,
	}}
}

// Publisher delivers events after the transaction that produced them commits.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

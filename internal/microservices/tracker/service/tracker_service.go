package service

import (
	"context"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/repository"
)

const (
	DefaultTimelineLimit = 50
	MaxTimelineLimit     = 500
)

type TrackerServiceInterface interface {
	GetOrderStatus(ctx context.Context, restaurantID, orderID int64) (domain.OrderStatusView, error)
	GetOrderTimeline(ctx context.Context, restaurantID, orderID int64, limit, offset int) ([]domain.StatusHistory, error)
}

type TrackerService struct {
	store repository.Store
}

func NewTrackerService(store repository.Store) *TrackerService {
	return &TrackerService{store: store}
}

func (s *TrackerService) GetOrderStatus(ctx context.Context, restaurantID, orderID int64) (domain.OrderStatusView, error) {
	var v domain.OrderStatusView
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		o, err := scopedOrder(ctx, tx, restaurantID, orderID)
		if err != nil {
			return err
		}
		v = domain.OrderStatusView{OrderID: o.ID, Status: o.Status, Paid: o.Paid, UpdatedAt: o.UpdatedAt}
		return nil
	})
	return v, err
}

// GetOrderTimeline pages through the status history, oldest first.
func (s *TrackerService) GetOrderTimeline(ctx context.Context, restaurantID, orderID int64, limit, offset int) ([]domain.StatusHistory, error) {
	if limit < 0 || offset < 0 {
		return nil, domain.NewInvalidArgument("limit and offset must not be negative")
	}
	if limit == 0 {
		limit = DefaultTimelineLimit
	}
	if limit > MaxTimelineLimit {
		limit = MaxTimelineLimit
	}

	var out []domain.StatusHistory
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		if _, err := scopedOrder(ctx, tx, restaurantID, orderID); err != nil {
			return err
		}
		hist, err := tx.Orders().History(ctx, orderID)
		if err != nil {
			return err
		}
		out = page(hist, limit, offset)
		return nil
	})
	return out, err
}

func scopedOrder(ctx context.Context, tx repository.Tx, restaurantID, orderID int64) (domain.Order, error) {
	o, err := tx.Orders().Get(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if o.RestaurantID != restaurantID {
		return domain.Order{}, domain.NewNotFoundf("order %d not found", orderID)
	}
	return o, nil
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

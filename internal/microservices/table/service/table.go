package service

import (
	"context"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/repository"
)

// Available reports whether a table is free given the statuses of the
// orders seated at it. Only PENDING and PREPARING orders occupy a table.
func Available(statuses []domain.Status) bool {
	for _, s := range statuses {
		if s.Occupying() {
			return false
		}
	}
	return true
}

type TableServiceInterface interface {
	Availability(ctx context.Context, restaurantID, tableID int64) (domain.AvailabilityResponse, error)
}

type TableService struct {
	store repository.Store
}

func NewTableService(store repository.Store) TableServiceInterface {
	return &TableService{store: store}
}

func (s *TableService) Availability(ctx context.Context, restaurantID, tableID int64) (domain.AvailabilityResponse, error) {
	var resp domain.AvailabilityResponse
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		t, err := tx.Catalog().GetTable(ctx, tableID)
		if err != nil {
			return err
		}
		if t.RestaurantID != restaurantID {
			return domain.NewNotFoundf("table %d not found", tableID)
		}
		statuses, err := tx.Orders().TableStatuses(ctx, tableID)
		if err != nil {
			return err
		}
		resp = domain.AvailabilityResponse{TableID: t.ID, Number: t.Number, Available: Available(statuses)}
		return nil
	})
	return resp, err
}

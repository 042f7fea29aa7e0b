package memory

import (
	"context"

	"restaurant-pos/internal/domain"
)

type pointRepo struct{ *tx }

// LockPair is a no-op: the store already runs one transaction at a time.
func (r pointRepo) LockPair(ctx context.Context, _, _ int64) error { return ctx.Err() }

func (r pointRepo) Append(_ context.Context, p *domain.Point) error {
	if _, ok := r.st.restaurants[p.RestaurantID]; !ok {
		return domain.NewNotFoundf("restaurant %d not found", p.RestaurantID)
	}
	p.ID = r.st.nextID()
	p.CreatedAt = r.now()
	r.st.points = append(r.st.points, *p)
	return nil
}

func (r pointRepo) Balance(_ context.Context, customerID, restaurantID int64) (int64, error) {
	var sum int64
	for _, p := range r.st.points {
		if p.CustomerID == customerID && p.RestaurantID == restaurantID {
			sum += p.Amount
		}
	}
	return sum, nil
}

func (r pointRepo) List(_ context.Context, customerID, restaurantID int64) ([]domain.Point, error) {
	var out []domain.Point
	for i := len(r.st.points) - 1; i >= 0; i-- {
		p := r.st.points[i]
		if p.CustomerID == customerID && p.RestaurantID == restaurantID {
			out = append(out, p)
		}
	}
	return out, nil
}

package postgres

import (
	"context"
	"fmt"

	"restaurant-pos/internal/common/db"
	"restaurant-pos/internal/domain"

	"github.com/jackc/pgx/v5"
)

type PointRepository struct {
	tx pgx.Tx
}

// LockPair takes a transaction-scoped advisory lock keyed on the pair.
func (r *PointRepository) LockPair(ctx context.Context, customerID, restaurantID int64) error {
	key := fmt.Sprintf("points:%d:%d", customerID, restaurantID)
	_, err := r.tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key)
	return db.Translate(err, "points lock")
}

func (r *PointRepository) Append(ctx context.Context, p *domain.Point) error {
	err := r.tx.QueryRow(ctx, `
		INSERT INTO points (customer_id, restaurant_id, amount, created_at)
		VALUES ($1, $2, $3, now())
		RETURNING id, created_at`,
		p.CustomerID, p.RestaurantID, p.Amount,
	).Scan(&p.ID, &p.CreatedAt)
	return db.Translate(err, "point entry")
}

func (r *PointRepository) Balance(ctx context.Context, customerID, restaurantID int64) (int64, error) {
	var sum int64
	err := r.tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)::bigint
		FROM points WHERE customer_id = $1 AND restaurant_id = $2`,
		customerID, restaurantID,
	).Scan(&sum)
	return sum, db.Translate(err, "points balance")
}

func (r *PointRepository) List(ctx context.Context, customerID, restaurantID int64) ([]domain.Point, error) {
	rows, err := r.tx.Query(ctx, `
		SELECT id, customer_id, restaurant_id, amount, created_at
		FROM points WHERE customer_id = $1 AND restaurant_id = $2
		ORDER BY created_at DESC, id DESC`,
		customerID, restaurantID)
	if err != nil {
		return nil, db.Translate(err, "points")
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.Point])
	return out, db.Translate(err, "points")
}

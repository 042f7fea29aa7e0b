package postgres

import (
	"context"
	"fmt"

	"restaurant-pos/internal/common/db"
	"restaurant-pos/internal/domain"

	"github.com/jackc/pgx/v5"
)

type OrderRepository struct {
	tx pgx.Tx
}

const orderCols = `id, restaurant_id, table_id, customer_id, employee_id, status, paid, created_at, updated_at`

func scanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	var status string
	err := row.Scan(&o.ID, &o.RestaurantID, &o.TableID, &o.CustomerID, &o.EmployeeID,
		&status, &o.Paid, &o.CreatedAt, &o.UpdatedAt)
	o.Status = domain.Status(status)
	return o, err
}

func (r *OrderRepository) Insert(ctx context.Context, o *domain.Order) error {
	err := r.tx.QueryRow(ctx, `
		INSERT INTO orders (restaurant_id, table_id, customer_id, employee_id, status, paid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING id, created_at, updated_at`,
		o.RestaurantID, o.TableID, o.CustomerID, o.EmployeeID, string(o.Status), o.Paid,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	return db.Translate(err, "order")
}

func (r *OrderRepository) Get(ctx context.Context, id int64) (domain.Order, error) {
	o, err := scanOrder(r.tx.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id = $1`, id))
	return o, db.Translate(err, fmt.Sprintf("order %d", id))
}

func (r *OrderRepository) GetForUpdate(ctx context.Context, id int64) (domain.Order, error) {
	o, err := scanOrder(r.tx.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id = $1 FOR UPDATE`, id))
	return o, db.Translate(err, fmt.Sprintf("order %d", id))
}

func (r *OrderRepository) Update(ctx context.Context, o *domain.Order) error {
	err := r.tx.QueryRow(ctx, `
		UPDATE orders SET table_id = $2, status = $3, paid = $4, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		o.ID, o.TableID, string(o.Status), o.Paid,
	).Scan(&o.UpdatedAt)
	return db.Translate(err, fmt.Sprintf("order %d", o.ID))
}

func (r *OrderRepository) List(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error) {
	q := `SELECT ` + orderCols + ` FROM orders WHERE restaurant_id = $1`
	args := []any{f.RestaurantID}
	if f.Status != nil {
		args = append(args, string(*f.Status))
		q += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.Paid != nil {
		args = append(args, *f.Paid)
		q += fmt.Sprintf(" AND paid = $%d", len(args))
	}
	q += " ORDER BY created_at DESC, id DESC"

	rows, err := r.tx.Query(ctx, q, args...)
	if err != nil {
		return nil, db.Translate(err, "orders")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Order, error) { return scanOrder(row) })
	return out, db.Translate(err, "orders")
}

func (r *OrderRepository) InsertItems(ctx context.Context, orderID int64, items []domain.OrderItem) error {
	for i := range items {
		it := &items[i]
		if err := domain.CheckQuantity(it.Quantity); err != nil {
			return err
		}
		it.OrderID = orderID
		err := r.tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, menu_item_id, quantity, employee_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, now(), now())
			RETURNING id, created_at, updated_at`,
			orderID, it.MenuItemID, it.Quantity, it.EmployeeID,
		).Scan(&it.ID, &it.CreatedAt, &it.UpdatedAt)
		if err != nil {
			return db.Translate(err, fmt.Sprintf("order item for menu item %d", it.MenuItemID))
		}
	}
	return nil
}

const itemSelect = `
	SELECT oi.id, oi.order_id, oi.menu_item_id, oi.quantity, oi.employee_id,
	       mi.name, mi.price::text, oi.created_at, oi.updated_at
	FROM order_items oi
	JOIN menu_items mi ON mi.id = oi.menu_item_id`

func scanItem(row pgx.Row) (domain.OrderItem, error) {
	var it domain.OrderItem
	var price string
	if err := row.Scan(&it.ID, &it.OrderID, &it.MenuItemID, &it.Quantity, &it.EmployeeID,
		&it.Name, &price, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return it, err
	}
	var err error
	it.Price, err = parseMoney(price)
	return it, err
}

func (r *OrderRepository) Items(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	rows, err := r.tx.Query(ctx, itemSelect+` WHERE oi.order_id = $1 ORDER BY oi.id`, orderID)
	if err != nil {
		return nil, db.Translate(err, "order items")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.OrderItem, error) { return scanItem(row) })
	return out, db.Translate(err, "order items")
}

func (r *OrderRepository) GetItem(ctx context.Context, id int64) (domain.OrderItem, error) {
	it, err := scanItem(r.tx.QueryRow(ctx, itemSelect+` WHERE oi.id = $1`, id))
	return it, db.Translate(err, fmt.Sprintf("order item %d", id))
}

func (r *OrderRepository) DeleteItem(ctx context.Context, id int64) error {
	tag, err := r.tx.Exec(ctx, `DELETE FROM order_items WHERE id = $1`, id)
	if err != nil {
		return db.Translate(err, "order item")
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundf("order item %d not found", id)
	}
	return nil
}

func (r *OrderRepository) DeleteItems(ctx context.Context, orderID int64) error {
	_, err := r.tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID)
	return db.Translate(err, "order items")
}

func (r *OrderRepository) CountItems(ctx context.Context, orderID int64) (int, error) {
	var n int
	err := r.tx.QueryRow(ctx, `SELECT count(*) FROM order_items WHERE order_id = $1`, orderID).Scan(&n)
	return n, db.Translate(err, "order items")
}

func (r *OrderRepository) AppendHistory(ctx context.Context, orderID int64, status domain.Status) (domain.StatusHistory, error) {
	h := domain.StatusHistory{OrderID: orderID, Status: status}
	err := r.tx.QueryRow(ctx, `
		INSERT INTO order_status_history (order_id, status, changed_at)
		VALUES ($1, $2, now())
		RETURNING id, changed_at`,
		orderID, string(status),
	).Scan(&h.ID, &h.ChangedAt)
	return h, db.Translate(err, "order status history")
}

func (r *OrderRepository) History(ctx context.Context, orderID int64) ([]domain.StatusHistory, error) {
	rows, err := r.tx.Query(ctx, `
		SELECT id, order_id, status, changed_at
		FROM order_status_history WHERE order_id = $1
		ORDER BY changed_at, id`, orderID)
	if err != nil {
		return nil, db.Translate(err, "order status history")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.StatusHistory, error) {
		var h domain.StatusHistory
		var status string
		err := row.Scan(&h.ID, &h.OrderID, &status, &h.ChangedAt)
		h.Status = domain.Status(status)
		return h, err
	})
	return out, db.Translate(err, "order status history")
}

func (r *OrderRepository) TableStatuses(ctx context.Context, tableID int64) ([]domain.Status, error) {
	rows, err := r.tx.Query(ctx, `SELECT DISTINCT status FROM orders WHERE table_id = $1 ORDER BY status`, tableID)
	if err != nil {
		return nil, db.Translate(err, "table orders")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Status, error) {
		var s string
		err := row.Scan(&s)
		return domain.Status(s), err
	})
	return out, db.Translate(err, "table orders")
}

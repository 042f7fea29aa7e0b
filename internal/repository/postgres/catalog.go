package postgres

import (
	"context"

	"restaurant-pos/internal/common/db"
	"restaurant-pos/internal/domain"

	"github.com/jackc/pgx/v5"
)

type CatalogRepository struct {
	tx pgx.Tx
}

func (r *CatalogRepository) CreateRestaurant(ctx context.Context, rest *domain.Restaurant) error {
	err := r.tx.QueryRow(ctx, `
		INSERT INTO restaurants (owner_id, name, address, phone, description, opening_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		rest.OwnerID, rest.Name, rest.Address, rest.Phone, rest.Description, rest.OpeningTime,
	).Scan(&rest.ID, &rest.CreatedAt)
	return db.Translate(err, "restaurant")
}

const restaurantCols = `id, owner_id, name, address, phone, description, opening_time, created_at`

func scanRestaurant(row pgx.Row) (domain.Restaurant, error) {
	var rest domain.Restaurant
	err := row.Scan(&rest.ID, &rest.OwnerID, &rest.Name, &rest.Address, &rest.Phone,
		&rest.Description, &rest.OpeningTime, &rest.CreatedAt)
	return rest, err
}

func (r *CatalogRepository) GetRestaurant(ctx context.Context, id int64) (domain.Restaurant, error) {
	rest, err := scanRestaurant(r.tx.QueryRow(ctx, `SELECT `+restaurantCols+` FROM restaurants WHERE id = $1`, id))
	return rest, db.Translate(err, "restaurant")
}

func (r *CatalogRepository) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	rows, err := r.tx.Query(ctx, `SELECT `+restaurantCols+` FROM restaurants ORDER BY id`)
	if err != nil {
		return nil, db.Translate(err, "restaurants")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Restaurant, error) { return scanRestaurant(row) })
	return out, db.Translate(err, "restaurants")
}

func (r *CatalogRepository) CreateCategory(ctx context.Context, c *domain.Category) error {
	err := r.tx.QueryRow(ctx, `INSERT INTO categories (restaurant_id, name) VALUES ($1, $2) RETURNING id`,
		c.RestaurantID, c.Name).Scan(&c.ID)
	return db.Translate(err, "category")
}

func (r *CatalogRepository) GetCategory(ctx context.Context, id int64) (domain.Category, error) {
	var c domain.Category
	err := r.tx.QueryRow(ctx, `SELECT id, restaurant_id, name FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.RestaurantID, &c.Name)
	return c, db.Translate(err, "category")
}

func (r *CatalogRepository) ListCategories(ctx context.Context, restaurantID int64) ([]domain.Category, error) {
	rows, err := r.tx.Query(ctx, `SELECT id, restaurant_id, name FROM categories WHERE restaurant_id = $1 ORDER BY id`, restaurantID)
	if err != nil {
		return nil, db.Translate(err, "categories")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Category, error) {
		var c domain.Category
		err := row.Scan(&c.ID, &c.RestaurantID, &c.Name)
		return c, err
	})
	return out, db.Translate(err, "categories")
}

func (r *CatalogRepository) CreateEmployee(ctx context.Context, e *domain.Employee) error {
	err := r.tx.QueryRow(ctx, `
		INSERT INTO employees (restaurant_id, account_id, name, phone, role)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		e.RestaurantID, e.AccountID, e.Name, e.Phone, string(e.Role)).Scan(&e.ID)
	return db.Translate(err, "employee")
}

const employeeCols = `id, restaurant_id, account_id, name, phone, role`

func scanEmployee(row pgx.Row) (domain.Employee, error) {
	var e domain.Employee
	var role string
	err := row.Scan(&e.ID, &e.RestaurantID, &e.AccountID, &e.Name, &e.Phone, &role)
	e.Role = domain.Role(role)
	return e, err
}

func (r *CatalogRepository) GetEmployee(ctx context.Context, id int64) (domain.Employee, error) {
	e, err := scanEmployee(r.tx.QueryRow(ctx, `SELECT `+employeeCols+` FROM employees WHERE id = $1`, id))
	return e, db.Translate(err, "employee")
}

func (r *CatalogRepository) ListEmployees(ctx context.Context, restaurantID int64) ([]domain.Employee, error) {
	rows, err := r.tx.Query(ctx, `SELECT `+employeeCols+` FROM employees WHERE restaurant_id = $1 ORDER BY id`, restaurantID)
	if err != nil {
		return nil, db.Translate(err, "employees")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Employee, error) { return scanEmployee(row) })
	return out, db.Translate(err, "employees")
}

func (r *CatalogRepository) CreateTable(ctx context.Context, t *domain.Table) error {
	err := r.tx.QueryRow(ctx, `INSERT INTO tables (restaurant_id, number) VALUES ($1, $2) RETURNING id`,
		t.RestaurantID, t.Number).Scan(&t.ID)
	return db.Translate(err, "table number")
}

func (r *CatalogRepository) GetTable(ctx context.Context, id int64) (domain.Table, error) {
	var t domain.Table
	err := r.tx.QueryRow(ctx, `SELECT id, restaurant_id, number FROM tables WHERE id = $1`, id).
		Scan(&t.ID, &t.RestaurantID, &t.Number)
	return t, db.Translate(err, "table")
}

func (r *CatalogRepository) ListTables(ctx context.Context, restaurantID int64) ([]domain.Table, error) {
	rows, err := r.tx.Query(ctx, `SELECT id, restaurant_id, number FROM tables WHERE restaurant_id = $1 ORDER BY number`, restaurantID)
	if err != nil {
		return nil, db.Translate(err, "tables")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Table, error) {
		var t domain.Table
		err := row.Scan(&t.ID, &t.RestaurantID, &t.Number)
		return t, err
	})
	return out, db.Translate(err, "tables")
}

func (r *CatalogRepository) CreateMenuItem(ctx context.Context, m *domain.MenuItem) error {
	var price string
	err := r.tx.QueryRow(ctx, `
		INSERT INTO menu_items (restaurant_id, category_id, name, description, price)
		VALUES ($1, $2, $3, $4, $5::numeric)
		RETURNING id, price::text`,
		m.RestaurantID, m.CategoryID, m.Name, m.Description, m.Price.String()).Scan(&m.ID, &price)
	if err != nil {
		return db.Translate(err, "menu item")
	}
	m.Price, err = parseMoney(price)
	return err
}

const menuItemCols = `id, restaurant_id, category_id, name, description, price::text`

func scanMenuItem(row pgx.Row) (domain.MenuItem, error) {
	var m domain.MenuItem
	var price string
	if err := row.Scan(&m.ID, &m.RestaurantID, &m.CategoryID, &m.Name, &m.Description, &price); err != nil {
		return m, err
	}
	var err error
	m.Price, err = parseMoney(price)
	return m, err
}

func (r *CatalogRepository) GetMenuItems(ctx context.Context, ids []int64) (map[int64]domain.MenuItem, error) {
	rows, err := r.tx.Query(ctx, `SELECT `+menuItemCols+` FROM menu_items WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, db.Translate(err, "menu items")
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.MenuItem, error) { return scanMenuItem(row) })
	if err != nil {
		return nil, db.Translate(err, "menu items")
	}
	out := make(map[int64]domain.MenuItem, len(list))
	for _, m := range list {
		out[m.ID] = m
	}
	return out, nil
}

func (r *CatalogRepository) ListMenuItems(ctx context.Context, restaurantID int64) ([]domain.MenuItem, error) {
	rows, err := r.tx.Query(ctx, `SELECT `+menuItemCols+` FROM menu_items WHERE restaurant_id = $1 ORDER BY id`, restaurantID)
	if err != nil {
		return nil, db.Translate(err, "menu items")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.MenuItem, error) { return scanMenuItem(row) })
	return out, db.Translate(err, "menu items")
}

// Package repository defines the storage contract shared by the PostgreSQL
// and in-memory stores. Every read and write runs inside Store.WithTx.
package repository

import (
	"context"

	"restaurant-pos/internal/domain"
)

type Store interface {
	// WithTx runs fn in one transaction, committing when fn returns nil.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	Ping(ctx context.Context) error
	Close()
}

type Tx interface {
	Catalog() CatalogRepositoryInterface
	Orders() OrderRepositoryInterface
	Points() PointRepositoryInterface
}

type CatalogRepositoryInterface interface {
	CreateRestaurant(ctx context.Context, r *domain.Restaurant) error
	GetRestaurant(ctx context.Context, id int64) (domain.Restaurant, error)
	ListRestaurants(ctx context.Context) ([]domain.Restaurant, error)

	CreateCategory(ctx context.Context, c *domain.Category) error
	GetCategory(ctx context.Context, id int64) (domain.Category, error)
	ListCategories(ctx context.Context, restaurantID int64) ([]domain.Category, error)

	CreateEmployee(ctx context.Context, e *domain.Employee) error
	GetEmployee(ctx context.Context, id int64) (domain.Employee, error)
	ListEmployees(ctx context.Context, restaurantID int64) ([]domain.Employee, error)

	CreateTable(ctx context.Context, t *domain.Table) error
	GetTable(ctx context.Context, id int64) (domain.Table, error)
	ListTables(ctx context.Context, restaurantID int64) ([]domain.Table, error)

	CreateMenuItem(ctx context.Context, m *domain.MenuItem) error
	// GetMenuItems returns the rows found; missing ids are simply absent.
	GetMenuItems(ctx context.Context, ids []int64) (map[int64]domain.MenuItem, error)
	ListMenuItems(ctx context.Context, restaurantID int64) ([]domain.MenuItem, error)
}

type OrderRepositoryInterface interface {
	Insert(ctx context.Context, o *domain.Order) error
	Get(ctx context.Context, id int64) (domain.Order, error)
	// GetForUpdate locks the order row until the transaction ends.
	GetForUpdate(ctx context.Context, id int64) (domain.Order, error)
	Update(ctx context.Context, o *domain.Order) error
	List(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error)

	InsertItems(ctx context.Context, orderID int64, items []domain.OrderItem) error
	Items(ctx context.Context, orderID int64) ([]domain.OrderItem, error)
	GetItem(ctx context.Context, id int64) (domain.OrderItem, error)
	DeleteItem(ctx context.Context, id int64) error
	DeleteItems(ctx context.Context, orderID int64) error
	CountItems(ctx context.Context, orderID int64) (int, error)

	AppendHistory(ctx context.Context, orderID int64, status domain.Status) (domain.StatusHistory, error)
	History(ctx context.Context, orderID int64) ([]domain.StatusHistory, error)

	// TableStatuses returns the distinct statuses of orders seated at a table.
	TableStatuses(ctx context.Context, tableID int64) ([]domain.Status, error)
}

type PointRepositoryInterface interface {
	// LockPair serializes ledger writers of one (customer, restaurant) pair
	// until the transaction ends.
	LockPair(ctx context.Context, customerID, restaurantID int64) error
	Append(ctx context.Context, p *domain.Point) error
	Balance(ctx context.Context, customerID, restaurantID int64) (int64, error)
	// List returns entries newest first.
	List(ctx context.Context, customerID, restaurantID int64) ([]domain.Point, error)
}

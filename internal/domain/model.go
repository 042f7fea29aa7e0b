package domain

import (
	"encoding/json"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Storage limits: quantity is an INTEGER column, price a NUMERIC(10,2).
const MaxQuantity = math.MaxInt32

var MaxPrice = decimal.RequireFromString("99999999.99")

func CheckQuantity(q int) error {
	if q <= 0 || q > MaxQuantity {
		return NewInvalidArgumentf("quantity must be between 1 and %d, got %d", MaxQuantity, q)
	}
	return nil
}

func CheckPrice(p decimal.Decimal) error {
	if p.IsNegative() || p.Round(2).GreaterThan(MaxPrice) {
		return NewInvalidArgumentf("price must be between 0 and %s, got %s", MaxPrice.StringFixed(2), p)
	}
	return nil
}

type Role string

const (
	RoleCounter Role = "COUNTER"
	RoleWaiter  Role = "WAITER"
)

func (r Role) Valid() bool { return r == RoleCounter || r == RoleWaiter }

type Restaurant struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Phone       string    `json:"phone,omitempty"`
	Description string    `json:"description,omitempty"`
	OpeningTime string    `json:"opening_time,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Category struct {
	ID           int64  `json:"id"`
	RestaurantID int64  `json:"restaurant_id"`
	Name         string `json:"name"`
}

type Employee struct {
	ID           int64  `json:"id"`
	RestaurantID int64  `json:"restaurant_id"`
	AccountID    int64  `json:"account_id"`
	Name         string `json:"name"`
	Phone        string `json:"phone,omitempty"`
	Role         Role   `json:"role"`
}

// Table has no stored availability flag; see the table service.
type Table struct {
	ID           int64 `json:"id"`
	RestaurantID int64 `json:"restaurant_id"`
	Number       int   `json:"number"`
}

type MenuItem struct {
	ID           int64           `json:"id"`
	RestaurantID int64           `json:"restaurant_id"`
	CategoryID   int64           `json:"category_id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
}

type Order struct {
	ID           int64           `json:"id"`
	RestaurantID int64           `json:"restaurant_id"`
	TableID      *int64          `json:"table_id,omitempty"`
	CustomerID   *int64          `json:"customer_id,omitempty"`
	EmployeeID   *int64          `json:"employee_id,omitempty"`
	Status       Status          `json:"status"`
	Paid         bool            `json:"paid"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Items        []OrderItem     `json:"items,omitempty"`
	History      []StatusHistory `json:"status_history,omitempty"`
	Total        decimal.Decimal `json:"total"`
}

// OrderItem carries the referenced menu item's current name and price
// whenever it is read back from the store.
type OrderItem struct {
	ID         int64           `json:"id"`
	OrderID    int64           `json:"order_id"`
	MenuItemID int64           `json:"menu_item_id"`
	Quantity   int             `json:"quantity"`
	EmployeeID *int64          `json:"employee_id,omitempty"`
	Name       string          `json:"name,omitempty"`
	Price      decimal.Decimal `json:"price"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type StatusHistory struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	Status    Status    `json:"status"`
	ChangedAt time.Time `json:"changed_at"`
}

// Point is an immutable ledger entry. Positive amounts are earned, negative spent.
type Point struct {
	ID           int64     `json:"id"`
	CustomerID   int64     `json:"customer_id"`
	RestaurantID int64     `json:"restaurant_id"`
	Amount       int64     `json:"amount"`
	CreatedAt    time.Time `json:"created_at"`
}

type OrderFilter struct {
	RestaurantID int64
	Status       *Status
	Paid         *bool
}

// MarshalJSON renders Price with two decimals ("13.00"). Order and OrderItem
// render their amounts the same way.
func (m MenuItem) MarshalJSON() ([]byte, error) {
	type plain MenuItem
	return json.Marshal(struct {
		plain
		Price string `json:"price"`
	}{plain(m), m.Price.StringFixed(2)})
}

func (o Order) MarshalJSON() ([]byte, error) {
	type plain Order
	return json.Marshal(struct {
		plain
		Total string `json:"total"`
	}{plain(o), o.Total.StringFixed(2)})
}

func (it OrderItem) MarshalJSON() ([]byte, error) {
	type plain OrderItem
	return json.Marshal(struct {
		plain
		Price string `json:"price"`
	}{plain(it), it.Price.StringFixed(2)})
}

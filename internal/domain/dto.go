package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

type OrderItemInput struct {
	MenuItemID int64  `json:"menu_item_id" validate:"required,gt=0"`
	Quantity   int    `json:"quantity" validate:"gt=0,lte=2147483647"`
	EmployeeID *int64 `json:"employee_id,omitempty" validate:"omitempty,gt=0"`
}

type CreateOrderRequest struct {
	RestaurantID int64            `json:"-" validate:"required,gt=0"`
	TableID      *int64           `json:"table_id,omitempty" validate:"omitempty,gt=0"`
	CustomerID   *int64           `json:"customer_id,omitempty" validate:"omitempty,gt=0"`
	EmployeeID   *int64           `json:"employee_id,omitempty" validate:"omitempty,gt=0"`
	Items        []OrderItemInput `json:"items" validate:"required,min=1,dive"`
}

// UpdateOrderRequest leaves a field untouched when it is nil. A non-nil
// Items replaces every line of the order.
type UpdateOrderRequest struct {
	TableID *int64            `json:"table_id,omitempty" validate:"omitempty,gt=0"`
	Status  *Status           `json:"status,omitempty"`
	Paid    *bool             `json:"paid,omitempty"`
	Items   *[]OrderItemInput `json:"items,omitempty"`
}

type PointsRequest struct {
	CustomerID int64 `json:"customer_id" validate:"required,gt=0"`
	Amount     int64 `json:"amount" validate:"gt=0"`
}

type SpendResponse struct {
	Spent   bool  `json:"spent"`
	Balance int64 `json:"balance"`
}

type BalanceResponse struct {
	CustomerID   int64 `json:"customer_id"`
	RestaurantID int64 `json:"restaurant_id"`
	Balance      int64 `json:"balance"`
}

type AvailabilityResponse struct {
	TableID   int64 `json:"table_id"`
	Number    int   `json:"number"`
	Available bool  `json:"available"`
}

func (r CreateOrderRequest) Validate() error {
	return validateStruct(r)
}

func (r UpdateOrderRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	if r.Status != nil {
		if _, err := ParseStatus(string(*r.Status)); err != nil {
			return err
		}
	}
	if r.Items != nil {
		if len(*r.Items) == 0 {
			return NewInvalidArgument("items: at least one item is required")
		}
		for i, it := range *r.Items {
			if err := validateStruct(it); err != nil {
				return NewInvalidArgumentf("items[%d]: %s", i, err.Error())
			}
		}
	}
	return nil
}

func (r PointsRequest) Validate() error {
	return validateStruct(r)
}

// validateStruct turns validator failures into one InvalidArgument error.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewInvalidArgument(err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return NewInvalidArgument(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s: at least %s required", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %q", field, fe.Tag())
	}
}

type CancelItemResponse struct {
	ItemID         int64 `json:"item_id"`
	OrderID        int64 `json:"order_id"`
	OrderCancelled bool  `json:"order_cancelled"`
	Order          Order `json:"order"`
}

type CreateRestaurantRequest struct {
	OwnerID     int64  `json:"owner_id" validate:"required,gt=0"`
	Name        string `json:"name" validate:"required,max=255"`
	Address     string `json:"address" validate:"required,max=255"`
	Phone       string `json:"phone" validate:"max=32"`
	Description string `json:"description"`
	OpeningTime string `json:"opening_time" validate:"max=64"`
}

type CreateCategoryRequest struct {
	RestaurantID int64  `json:"-" validate:"required,gt=0"`
	Name         string `json:"name" validate:"required,max=255"`
}

type CreateEmployeeRequest struct {
	RestaurantID int64  `json:"-" validate:"required,gt=0"`
	AccountID    int64  `json:"account_id" validate:"required,gt=0"`
	Name         string `json:"name" validate:"required,max=255"`
	Phone        string `json:"phone" validate:"max=32"`
	Role         Role   `json:"role" validate:"required,oneof=COUNTER WAITER"`
}

type CreateTableRequest struct {
	RestaurantID int64 `json:"-" validate:"required,gt=0"`
	Number       int   `json:"number" validate:"gt=0"`
}

type CreateMenuItemRequest struct {
	RestaurantID int64           `json:"-" validate:"required,gt=0"`
	CategoryID   int64           `json:"category_id" validate:"required,gt=0"`
	Name         string          `json:"name" validate:"required,max=255"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
}

func (r CreateRestaurantRequest) Validate() error { return validateStruct(r) }
func (r CreateCategoryRequest) Validate() error   { return validateStruct(r) }
func (r CreateEmployeeRequest) Validate() error   { return validateStruct(r) }
func (r CreateTableRequest) Validate() error      { return validateStruct(r) }

func (r CreateMenuItemRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	return CheckPrice(r.Price)
}

type OrderStatusView struct {
	OrderID   int64     `json:"order_id"`
	Status    Status    `json:"status"`
	Paid      bool      `json:"paid"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TimelineResponse struct {
	OrderID int64           `json:"order_id"`
	Events  []StatusHistory `json:"events"`
}

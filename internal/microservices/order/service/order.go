package service

import (
	"context"

	"restaurant-pos/internal/common/logger"
	"restaurant-pos/internal/domain"
	ledger "restaurant-pos/internal/microservices/ledger/service"
	"restaurant-pos/internal/pricing"
	"restaurant-pos/internal/repository"
)

type OrderServiceInterface interface {
	Create(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error)
	Update(ctx context.Context, restaurantID, orderID int64, req domain.UpdateOrderRequest) (domain.Order, error)
	SetStatus(ctx context.Context, restaurantID, orderID int64, status domain.Status) (domain.Order, error)
	Cancel(ctx context.Context, restaurantID, orderID int64) (domain.Order, error)
	CancelItem(ctx context.Context, restaurantID, itemID int64) (domain.CancelItemResponse, error)
	ReplaceItems(ctx context.Context, restaurantID, orderID int64, items []domain.OrderItemInput) (domain.Order, error)
	Get(ctx context.Context, restaurantID, orderID int64) (domain.Order, error)
	List(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error)
}

type OrderService struct {
	store  repository.Store
	ledger ledger.LedgerServiceInterface
	policy pricing.PointsPolicy
	pub    domain.Publisher
	lg     *logger.Logger
}

func NewOrderService(store repository.Store, l ledger.LedgerServiceInterface, policy pricing.PointsPolicy,
	pub domain.Publisher, lg *logger.Logger) OrderServiceInterface {
	return &OrderService{store: store, ledger: l, policy: policy, pub: pub, lg: lg}
}

// outbox collects events raised inside a transaction; they go out only
// after a successful commit.
type outbox []domain.Event

func (s *OrderService) flush(ctx context.Context, events outbox) {
	for _, ev := range events {
		if err := s.pub.Publish(ctx, ev); err != nil {
			s.lg.Error("event_publish_failed", err, map[string]any{"type": ev.Type})
		}
	}
}

func (s *OrderService) Create(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error) {
	if err := req.Validate(); err != nil {
		return domain.Order{}, err
	}

	var (
		order  domain.Order
		events outbox
	)
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		if _, err := tx.Catalog().GetRestaurant(ctx, req.RestaurantID); err != nil {
			return err
		}
		if req.TableID != nil {
			if err := checkTable(ctx, tx, req.RestaurantID, *req.TableID); err != nil {
				return err
			}
		}
		if req.EmployeeID != nil {
			if err := checkEmployee(ctx, tx, req.RestaurantID, *req.EmployeeID); err != nil {
				return err
			}
		}
		items, err := buildItems(ctx, tx, req.RestaurantID, req.Items)
		if err != nil {
			return err
		}

		order = domain.Order{
			RestaurantID: req.RestaurantID,
			TableID:      req.TableID,
			CustomerID:   req.CustomerID,
			EmployeeID:   req.EmployeeID,
			Status:       domain.StatusPending,
		}
		if err := tx.Orders().Insert(ctx, &order); err != nil {
			return err
		}
		if err := tx.Orders().InsertItems(ctx, order.ID, items); err != nil {
			return err
		}
		h, err := tx.Orders().AppendHistory(ctx, order.ID, domain.StatusPending)
		if err != nil {
			return err
		}
		if err := load(ctx, tx, &order); err != nil {
			return err
		}
		events = append(events, domain.NewStatusChanged(order, "", h.ChangedAt))
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.lg.Info("order_created", map[string]any{
		"order_id": order.ID, "restaurant_id": order.RestaurantID, "items": len(order.Items), "total": order.Total.StringFixed(2),
	})
	s.flush(ctx, events)
	return order, nil
}

func (s *OrderService) Update(ctx context.Context, restaurantID, orderID int64, req domain.UpdateOrderRequest) (domain.Order, error) {
	if err := req.Validate(); err != nil {
		return domain.Order{}, err
	}

	var (
		order  domain.Order
		events outbox
	)
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		order, err = lockOrder(ctx, tx, restaurantID, orderID)
		if err != nil {
			return err
		}

		status := req.Status
		if status != nil && *status == order.Status {
			status = nil
		}
		if status != nil && *status == domain.StatusPending {
			return domain.NewInvalidArgument("status PENDING cannot be set explicitly")
		}
		if order.Status.Terminal() && (req.TableID != nil || req.Items != nil || status != nil) {
			return domain.NewInvalidTransitionf("order %d is %s and can only be marked paid", order.ID, order.Status)
		}

		if req.TableID != nil {
			if err := checkTable(ctx, tx, restaurantID, *req.TableID); err != nil {
				return err
			}
			order.TableID = req.TableID
		}
		if req.Paid != nil {
			order.Paid = *req.Paid
		}
		if err := tx.Orders().Update(ctx, &order); err != nil {
			return err
		}

		if req.Items != nil {
			if err := replaceItems(ctx, tx, order, *req.Items); err != nil {
				return err
			}
		}
		if status != nil {
			evs, err := s.setStatus(ctx, tx, &order, *status)
			if err != nil {
				return err
			}
			events = append(events, evs...)
		}
		return load(ctx, tx, &order)
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.lg.Info("order_updated", map[string]any{"order_id": order.ID, "status": order.Status, "paid": order.Paid})
	s.flush(ctx, events)
	return order, nil
}

func (s *OrderService) SetStatus(ctx context.Context, restaurantID, orderID int64, status domain.Status) (domain.Order, error) {
	if _, err := domain.ParseStatus(string(status)); err != nil {
		return domain.Order{}, err
	}

	var (
		order  domain.Order
		events outbox
	)
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		order, err = lockOrder(ctx, tx, restaurantID, orderID)
		if err != nil {
			return err
		}
		if events, err = s.setStatus(ctx, tx, &order, status); err != nil {
			return err
		}
		return load(ctx, tx, &order)
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.lg.Info("order_status_changed", map[string]any{"order_id": order.ID, "status": order.Status})
	s.flush(ctx, events)
	return order, nil
}

func (s *OrderService) Cancel(ctx context.Context, restaurantID, orderID int64) (domain.Order, error) {
	return s.SetStatus(ctx, restaurantID, orderID, domain.StatusCancelled)
}

func (s *OrderService) CancelItem(ctx context.Context, restaurantID, itemID int64) (domain.CancelItemResponse, error) {
	var (
		resp   domain.CancelItemResponse
		events outbox
	)
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		item, err := tx.Orders().GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		order, err := lockOrder(ctx, tx, restaurantID, item.OrderID)
		if err != nil {
			if domain.IsNotFound(err) {
				return domain.NewNotFoundf("order item %d not found", itemID)
			}
			return err
		}
		// a concurrent cancel may have removed the item while we waited for the lock
		if _, err := tx.Orders().GetItem(ctx, itemID); err != nil {
			return err
		}
		if order.Status.Terminal() {
			return domain.NewInvalidTransitionf("order %d is %s, its items cannot be cancelled", order.ID, order.Status)
		}

		if err := tx.Orders().DeleteItem(ctx, itemID); err != nil {
			return err
		}
		left, err := tx.Orders().CountItems(ctx, order.ID)
		if err != nil {
			return err
		}
		if left == 0 {
			if events, err = s.setStatus(ctx, tx, &order, domain.StatusCancelled); err != nil {
				return err
			}
		}
		if err := load(ctx, tx, &order); err != nil {
			return err
		}
		resp = domain.CancelItemResponse{ItemID: itemID, OrderID: order.ID, OrderCancelled: left == 0, Order: order}
		return nil
	})
	if err != nil {
		return domain.CancelItemResponse{}, err
	}

	s.lg.Info("order_item_cancelled", map[string]any{
		"item_id": itemID, "order_id": resp.OrderID, "order_cancelled": resp.OrderCancelled,
	})
	s.flush(ctx, events)
	return resp, nil
}

func (s *OrderService) ReplaceItems(ctx context.Context, restaurantID, orderID int64, items []domain.OrderItemInput) (domain.Order, error) {
	if err := (domain.UpdateOrderRequest{Items: &items}).Validate(); err != nil {
		return domain.Order{}, err
	}
	var order domain.Order
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		order, err = lockOrder(ctx, tx, restaurantID, orderID)
		if err != nil {
			return err
		}
		if order.Status.Terminal() {
			return domain.NewInvalidTransitionf("order %d is %s, its items cannot be replaced", order.ID, order.Status)
		}
		if err := replaceItems(ctx, tx, order, items); err != nil {
			return err
		}
		return load(ctx, tx, &order)
	})
	return order, err
}

func (s *OrderService) Get(ctx context.Context, restaurantID, orderID int64) (domain.Order, error) {
	var order domain.Order
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		order, err = tx.Orders().Get(ctx, orderID)
		if err != nil {
			return err
		}
		if order.RestaurantID != restaurantID {
			return domain.NewNotFoundf("order %d not found", orderID)
		}
		return load(ctx, tx, &order)
	})
	return order, err
}

// List returns summaries: items and totals, without status history.
func (s *OrderService) List(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error) {
	var out []domain.Order
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		if _, err := tx.Catalog().GetRestaurant(ctx, f.RestaurantID); err != nil {
			return err
		}
		orders, err := tx.Orders().List(ctx, f)
		if err != nil {
			return err
		}
		for i := range orders {
			items, err := tx.Orders().Items(ctx, orders[i].ID)
			if err != nil {
				return err
			}
			orders[i].Items = items
			orders[i].Total = pricing.OrderTotal(items)
		}
		out = orders
		return nil
	})
	return out, err
}

// setStatus moves a locked order to next, records the history row and, on
// completion, awards the customer's points in the same transaction.
func (s *OrderService) setStatus(ctx context.Context, tx repository.Tx, o *domain.Order, next domain.Status) (outbox, error) {
	if err := domain.CheckTransition(o.Status, next); err != nil {
		return nil, err
	}
	prev := o.Status
	o.Status = next
	if err := tx.Orders().Update(ctx, o); err != nil {
		return nil, err
	}
	h, err := tx.Orders().AppendHistory(ctx, o.ID, next)
	if err != nil {
		return nil, err
	}

	items, err := tx.Orders().Items(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Total = pricing.OrderTotal(items)
	events := outbox{domain.NewStatusChanged(*o, prev, h.ChangedAt)}

	if next != domain.StatusCompleted || o.CustomerID == nil {
		return events, nil
	}
	pts := s.policy.PointsFor(o.Total)
	if pts == 0 {
		return events, nil
	}
	p, bal, err := s.ledger.EarnTx(ctx, tx, *o.CustomerID, o.RestaurantID, pts)
	if err != nil {
		return nil, err
	}
	orderID := o.ID
	return append(events, domain.NewPointsChanged(p, bal, &orderID)), nil
}

func lockOrder(ctx context.Context, tx repository.Tx, restaurantID, orderID int64) (domain.Order, error) {
	o, err := tx.Orders().GetForUpdate(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if o.RestaurantID != restaurantID {
		return domain.Order{}, domain.NewNotFoundf("order %d not found", orderID)
	}
	return o, nil
}

func replaceItems(ctx context.Context, tx repository.Tx, o domain.Order, inputs []domain.OrderItemInput) error {
	items, err := buildItems(ctx, tx, o.RestaurantID, inputs)
	if err != nil {
		return err
	}
	if err := tx.Orders().DeleteItems(ctx, o.ID); err != nil {
		return err
	}
	return tx.Orders().InsertItems(ctx, o.ID, items)
}

// buildItems checks that every referenced menu item and employee belongs
// to the restaurant.
func buildItems(ctx context.Context, tx repository.Tx, restaurantID int64, inputs []domain.OrderItemInput) ([]domain.OrderItem, error) {
	ids := make([]int64, 0, len(inputs))
	for _, in := range inputs {
		ids = append(ids, in.MenuItemID)
	}
	menu, err := tx.Catalog().GetMenuItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(inputs))
	for _, in := range inputs {
		m, ok := menu[in.MenuItemID]
		if !ok || m.RestaurantID != restaurantID {
			return nil, domain.NewNotFoundf("menu item %d not found in restaurant %d", in.MenuItemID, restaurantID)
		}
		if in.EmployeeID != nil {
			if err := checkEmployee(ctx, tx, restaurantID, *in.EmployeeID); err != nil {
				return nil, err
			}
		}
		items = append(items, domain.OrderItem{
			MenuItemID: m.ID,
			Quantity:   in.Quantity,
			EmployeeID: in.EmployeeID,
			Name:       m.Name,
			Price:      m.Price,
		})
	}
	return items, nil
}

func checkTable(ctx context.Context, tx repository.Tx, restaurantID, tableID int64) error {
	t, err := tx.Catalog().GetTable(ctx, tableID)
	if err != nil {
		return err
	}
	if t.RestaurantID != restaurantID {
		return domain.NewNotFoundf("table %d not found in restaurant %d", tableID, restaurantID)
	}
	return nil
}

func checkEmployee(ctx context.Context, tx repository.Tx, restaurantID, employeeID int64) error {
	e, err := tx.Catalog().GetEmployee(ctx, employeeID)
	if err != nil {
		return err
	}
	if e.RestaurantID != restaurantID {
		return domain.NewNotFoundf("employee %d not found in restaurant %d", employeeID, restaurantID)
	}
	return nil
}

// load attaches items, history and the current total.
func load(ctx context.Context, tx repository.Tx, o *domain.Order) error {
	items, err := tx.Orders().Items(ctx, o.ID)
	if err != nil {
		return err
	}
	hist, err := tx.Orders().History(ctx, o.ID)
	if err != nil {
		return err
	}
	o.Items, o.History = items, hist
	o.Total = pricing.OrderTotal(items)
	return nil
}

package memory

import (
	"context"
	"sort"

	"restaurant-pos/internal/domain"

	"github.com/shopspring/decimal"
)

type orderRepo struct{ *tx }

func (r orderRepo) Insert(_ context.Context, o *domain.Order) error {
	if _, ok := r.st.restaurants[o.RestaurantID]; !ok {
		return domain.NewNotFoundf("restaurant %d not found", o.RestaurantID)
	}
	now := r.now()
	o.ID = r.st.nextID()
	o.CreatedAt, o.UpdatedAt = now, now
	r.st.orders[o.ID] = stripped(*o)
	return nil
}

func (r orderRepo) Get(_ context.Context, id int64) (domain.Order, error) {
	o, ok := r.st.orders[id]
	if !ok {
		return domain.Order{}, domain.NewNotFoundf("order %d not found", id)
	}
	return o, nil
}

// GetForUpdate needs no row lock: transactions never overlap.
func (r orderRepo) GetForUpdate(ctx context.Context, id int64) (domain.Order, error) {
	return r.Get(ctx, id)
}

func (r orderRepo) Update(_ context.Context, o *domain.Order) error {
	cur, ok := r.st.orders[o.ID]
	if !ok {
		return domain.NewNotFoundf("order %d not found", o.ID)
	}
	cur.TableID, cur.Status, cur.Paid = o.TableID, o.Status, o.Paid
	cur.UpdatedAt = r.now()
	o.UpdatedAt = cur.UpdatedAt
	r.st.orders[o.ID] = cur
	return nil
}

func (r orderRepo) List(_ context.Context, f domain.OrderFilter) ([]domain.Order, error) {
	out := sortedValues(r.st.orders, func(o domain.Order) bool {
		if o.RestaurantID != f.RestaurantID {
			return false
		}
		if f.Status != nil && o.Status != *f.Status {
			return false
		}
		return f.Paid == nil || o.Paid == *f.Paid
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r orderRepo) InsertItems(_ context.Context, orderID int64, items []domain.OrderItem) error {
	if _, ok := r.st.orders[orderID]; !ok {
		return domain.NewNotFoundf("order %d not found", orderID)
	}
	now := r.now()
	for i := range items {
		if err := domain.CheckQuantity(items[i].Quantity); err != nil {
			return err
		}
		if _, ok := r.st.menuItems[items[i].MenuItemID]; !ok {
			return domain.NewNotFoundf("menu item %d not found", items[i].MenuItemID)
		}
		items[i].ID = r.st.nextID()
		items[i].OrderID = orderID
		items[i].CreatedAt, items[i].UpdatedAt = now, now
		stored := items[i]
		stored.Name, stored.Price = "", decimal.Zero
		r.st.items[stored.ID] = stored
	}
	return nil
}

func (r orderRepo) Items(_ context.Context, orderID int64) ([]domain.OrderItem, error) {
	out := sortedValues(r.st.items, func(it domain.OrderItem) bool { return it.OrderID == orderID })
	for i := range out {
		r.priced(&out[i])
	}
	return out, nil
}

func (r orderRepo) GetItem(_ context.Context, id int64) (domain.OrderItem, error) {
	it, ok := r.st.items[id]
	if !ok {
		return domain.OrderItem{}, domain.NewNotFoundf("order item %d not found", id)
	}
	r.priced(&it)
	return it, nil
}

func (r orderRepo) DeleteItem(_ context.Context, id int64) error {
	if _, ok := r.st.items[id]; !ok {
		return domain.NewNotFoundf("order item %d not found", id)
	}
	delete(r.st.items, id)
	return nil
}

func (r orderRepo) DeleteItems(_ context.Context, orderID int64) error {
	for id, it := range r.st.items {
		if it.OrderID == orderID {
			delete(r.st.items, id)
		}
	}
	return nil
}

func (r orderRepo) CountItems(_ context.Context, orderID int64) (int, error) {
	n := 0
	for _, it := range r.st.items {
		if it.OrderID == orderID {
			n++
		}
	}
	return n, nil
}

func (r orderRepo) AppendHistory(_ context.Context, orderID int64, status domain.Status) (domain.StatusHistory, error) {
	if _, ok := r.st.orders[orderID]; !ok {
		return domain.StatusHistory{}, domain.NewNotFoundf("order %d not found", orderID)
	}
	h := domain.StatusHistory{ID: r.st.nextID(), OrderID: orderID, Status: status, ChangedAt: r.now()}
	r.st.history = append(r.st.history, h)
	return h, nil
}

func (r orderRepo) History(_ context.Context, orderID int64) ([]domain.StatusHistory, error) {
	var out []domain.StatusHistory
	for _, h := range r.st.history {
		if h.OrderID == orderID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r orderRepo) TableStatuses(_ context.Context, tableID int64) ([]domain.Status, error) {
	seen := map[domain.Status]bool{}
	var out []domain.Status
	for _, o := range r.st.orders {
		if o.TableID == nil || *o.TableID != tableID || seen[o.Status] {
			continue
		}
		seen[o.Status] = true
		out = append(out, o.Status)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// priced fills the menu item's current name and price.
func (r orderRepo) priced(it *domain.OrderItem) {
	m := r.st.menuItems[it.MenuItemID]
	it.Name, it.Price = m.Name, m.Price
}

func stripped(o domain.Order) domain.Order {
	o.Items, o.History = nil, nil
	return o
}

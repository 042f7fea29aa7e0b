package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"restaurant-pos/internal/common/logger"
	"restaurant-pos/internal/common/mq"
	"restaurant-pos/internal/domain"
	ledger "restaurant-pos/internal/microservices/ledger/service"
	"restaurant-pos/internal/pricing"
	"restaurant-pos/internal/repository"
	"restaurant-pos/internal/repository/memory"
	"restaurant-pos/internal/repository/storetest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const customer = int64(777)

type harness struct {
	store  *memory.Store
	orders OrderServiceInterface
	ledger ledger.LedgerServiceInterface
	rec    *mq.Recorder
	f      storetest.Fixture
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := memory.New()
	rec := &mq.Recorder{}
	l := ledger.NewLedgerService(store, rec, logger.NewNop())
	return &harness{
		store:  store,
		orders: NewOrderService(store, l, pricing.DefaultPointsPolicy(), rec, logger.NewNop()),
		ledger: l,
		rec:    rec,
		f:      storetest.Seed(t, store),
	}
}

func ptr[T any](v T) *T { return &v }

func line(m domain.MenuItem, qty int) domain.OrderItemInput {
	return domain.OrderItemInput{MenuItemID: m.ID, Quantity: qty}
}

func (h *harness) create(t *testing.T, customerID *int64, items ...domain.OrderItemInput) domain.Order {
	t.Helper()
	o, err := h.orders.Create(context.Background(), domain.CreateOrderRequest{
		RestaurantID: h.f.Restaurant.ID,
		TableID:      ptr(h.f.Table.ID),
		CustomerID:   customerID,
		Items:        items,
	})
	require.NoError(t, err)
	return o
}

func historyOf(o domain.Order) []domain.Status {
	out := make([]domain.Status, 0, len(o.History))
	for _, h := range o.History {
		out = append(out, h.Status)
	}
	return out
}

func TestCreateOrder(t *testing.T) {
	h := newHarness(t)
	o := h.create(t, nil, line(h.f.Soup, 2), line(h.f.Bread, 1))

	assert.NotZero(t, o.ID)
	assert.Equal(t, domain.StatusPending, o.Status)
	assert.False(t, o.Paid)
	require.Len(t, o.Items, 2)
	assert.Equal(t, "Soup", o.Items[0].Name)
	assert.True(t, decimal.RequireFromString("13.00").Equal(o.Total), "total %s", o.Total)
	assert.Equal(t, []domain.Status{domain.StatusPending}, historyOf(o))
	assert.Equal(t, []string{domain.EventOrderStatusChanged}, h.rec.Types())

	got, err := h.orders.Get(context.Background(), h.f.Restaurant.ID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.Total.String(), got.Total.String())
	assert.Len(t, got.History, 1)
}

func TestCreateOrderRejected(t *testing.T) {
	h := newHarness(t)
	r := h.f.Restaurant.ID

	tests := []struct {
		name string
		req  domain.CreateOrderRequest
		kind domain.Kind
	}{
		{"no items", domain.CreateOrderRequest{RestaurantID: r}, domain.KindInvalidArgument},
		{"zero quantity", domain.CreateOrderRequest{RestaurantID: r, Items: []domain.OrderItemInput{line(h.f.Soup, 0)}}, domain.KindInvalidArgument},
		{"quantity beyond storage range", domain.CreateOrderRequest{RestaurantID: r, Items: []domain.OrderItemInput{line(h.f.Soup, 3000000000)}}, domain.KindInvalidArgument},
		{"unknown restaurant", domain.CreateOrderRequest{RestaurantID: 9999, Items: []domain.OrderItemInput{line(h.f.Soup, 1)}}, domain.KindNotFound},
		{"foreign menu item", domain.CreateOrderRequest{RestaurantID: r, Items: []domain.OrderItemInput{line(h.f.Foreign, 1)}}, domain.KindNotFound},
		{"unknown menu item", domain.CreateOrderRequest{RestaurantID: r, Items: []domain.OrderItemInput{{MenuItemID: 9999, Quantity: 1}}}, domain.KindNotFound},
		{"foreign table", domain.CreateOrderRequest{RestaurantID: r, TableID: ptr(h.f.OtherTable.ID), Items: []domain.OrderItemInput{line(h.f.Soup, 1)}}, domain.KindNotFound},
		{"unknown employee", domain.CreateOrderRequest{RestaurantID: r, EmployeeID: ptr(int64(9999)), Items: []domain.OrderItemInput{line(h.f.Soup, 1)}}, domain.KindNotFound},
		{"unknown item employee", domain.CreateOrderRequest{RestaurantID: r, Items: []domain.OrderItemInput{{MenuItemID: h.f.Soup.ID, Quantity: 1, EmployeeID: ptr(int64(9999))}}}, domain.KindNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.orders.Create(context.Background(), tc.req)
			require.Error(t, err)
			assert.Equal(t, tc.kind, domain.KindOf(err))
		})
	}

	list, err := h.orders.List(context.Background(), domain.OrderFilter{RestaurantID: r})
	require.NoError(t, err)
	assert.Empty(t, list, "rejected orders leave nothing behind")
	assert.Empty(t, h.rec.Events())
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		name string
		path []domain.Status
		next domain.Status
		kind domain.Kind
	}{
		{"pending to preparing", nil, domain.StatusPreparing, domain.KindUnknown},
		{"pending straight to completed", nil, domain.StatusCompleted, domain.KindUnknown},
		{"preparing to ready", []domain.Status{domain.StatusPreparing}, domain.StatusReady, domain.KindUnknown},
		{"ready to cancelled", []domain.Status{domain.StatusReady}, domain.StatusCancelled, domain.KindUnknown},
		{"same state", []domain.Status{domain.StatusPreparing}, domain.StatusPreparing, domain.KindInvalidStateTransition},
		{"backwards", []domain.Status{domain.StatusReady}, domain.StatusPreparing, domain.KindInvalidStateTransition},
		{"back to pending", []domain.Status{domain.StatusPreparing}, domain.StatusPending, domain.KindInvalidStateTransition},
		{"out of completed", []domain.Status{domain.StatusCompleted}, domain.StatusCancelled, domain.KindInvalidStateTransition},
		{"out of cancelled", []domain.Status{domain.StatusCancelled}, domain.StatusCompleted, domain.KindInvalidStateTransition},
		{"unknown status", nil, domain.Status("EATEN"), domain.KindInvalidArgument},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			h := newHarness(t)
			o := h.create(t, nil, line(h.f.Soup, 1))
			for _, st := range tc.path {
				_, err := h.orders.SetStatus(ctx, h.f.Restaurant.ID, o.ID, st)
				require.NoError(t, err)
			}

			got, err := h.orders.SetStatus(ctx, h.f.Restaurant.ID, o.ID, tc.next)
			if tc.kind == domain.KindUnknown {
				require.NoError(t, err)
				assert.Equal(t, tc.next, got.Status)
				assert.Len(t, got.History, len(tc.path)+2)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.kind, domain.KindOf(err))

			after, err := h.orders.Get(ctx, h.f.Restaurant.ID, o.ID)
			require.NoError(t, err)
			assert.Len(t, after.History, len(tc.path)+1, "a rejected change writes no history")
		})
	}
}

func TestCompletionAwardsPoints(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	o := h.create(t, ptr(customer), line(h.f.Pizza, 1), line(h.f.Salad, 1))
	require.Equal(t, "11.75", o.Total.StringFixed(2))

	done, err := h.orders.SetStatus(ctx, h.f.Restaurant.ID, o.ID, domain.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, done.Status)

	bal, err := h.ledger.Balance(ctx, customer, h.f.Restaurant.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(11), bal, "points are the floor of the total")

	assert.Equal(t, []string{
		domain.EventOrderStatusChanged,
		domain.EventOrderStatusChanged,
		domain.EventPointsChanged,
	}, h.rec.Types())
	pc := h.rec.Events()[2].Payload.(domain.PointsChanged)
	assert.Equal(t, int64(11), pc.Amount)
	require.NotNil(t, pc.OrderID)
	assert.Equal(t, o.ID, *pc.OrderID)
}

func TestCompletionWithoutCustomerAwardsNothing(t *testing.T) {
	h := newHarness(t)
	o := h.create(t, nil, line(h.f.Soup, 3))
	_, err := h.orders.SetStatus(context.Background(), h.f.Restaurant.ID, o.ID, domain.StatusCompleted)
	require.NoError(t, err)
	assert.NotContains(t, h.rec.Types(), domain.EventPointsChanged)
}

func TestZeroTotalSkipsAward(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	water := domain.MenuItem{RestaurantID: h.f.Restaurant.ID, CategoryID: h.f.Category.ID, Name: "Water", Price: decimal.Zero}
	require.NoError(t, h.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		return tx.Catalog().CreateMenuItem(ctx, &water)
	}))

	o := h.create(t, ptr(customer), line(water, 2))
	_, err := h.orders.SetStatus(ctx, h.f.Restaurant.ID, o.ID, domain.StatusCompleted)
	require.NoError(t, err)

	hist, err := h.ledger.History(ctx, customer, h.f.Restaurant.ID)
	require.NoError(t, err)
	assert.Empty(t, hist)
}

func TestCancelledOrderEarnsNothing(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	o := h.create(t, ptr(customer), line(h.f.Pizza, 2))
	_, err := h.orders.Cancel(ctx, h.f.Restaurant.ID, o.ID)
	require.NoError(t, err)

	bal, err := h.ledger.Balance(ctx, customer, h.f.Restaurant.ID)
	require.NoError(t, err)
	assert.Zero(t, bal)

	_, err = h.orders.Cancel(ctx, h.f.Restaurant.ID, o.ID)
	assert.Equal(t, domain.KindInvalidStateTransition, domain.KindOf(err))
}

func TestUpdateReplacesItemsThenCompletes(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	o := h.create(t, ptr(customer), line(h.f.Bread, 1))

	items := []domain.OrderItemInput{line(h.f.Pizza, 2), line(h.f.Soup, 1)}
	got, err := h.orders.Update(ctx, h.f.Restaurant.ID, o.ID, domain.UpdateOrderRequest{
		Items:  &items,
		Status: ptr(domain.StatusCompleted),
		Paid:   ptr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.True(t, got.Paid)
	assert.Equal(t, "22.00", got.Total.StringFixed(2))
	assert.Equal(t, []domain.Status{domain.StatusPending, domain.StatusCompleted}, historyOf(got))

	bal, err := h.ledger.Balance(ctx, customer, h.f.Restaurant.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(22), bal, "points follow the replaced items")
}

func TestUpdateItemsWritesNoHistory(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	o := h.create(t, nil, line(h.f.Bread, 1))

	items := []domain.OrderItemInput{line(h.f.Salad, 4)}
	got, err := h.orders.Update(ctx, h.f.Restaurant.ID, o.ID, domain.UpdateOrderRequest{Items: &items})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Equal(t, "13.00", got.Total.StringFixed(2))
	require.Len(t, got.Items, 1)
	assert.Equal(t, h.f.Salad.ID, got.Items[0].MenuItemID)
	assert.Len(t, got.History, 1)

	empty := []domain.OrderItemInput{}
	_, err = h.orders.Update(ctx, h.f.Restaurant.ID, o.ID, domain.UpdateOrderRequest{Items: &empty})
	assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err))

	foreign := []domain.OrderItemInput{line(h.f.Foreign, 1)}
	_, err = h.orders.Update(ctx, h.f.Restaurant.ID, o.ID, domain.UpdateOrderRequest{Items: &foreign})
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	after, err := h.orders.Get(ctx, h.f.Restaurant.ID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "13.00", after.Total.StringFixed(2), "failed replacement keeps the old lines")
}

func TestUpdateTerminalOrder(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	o := h.create(t, nil, line(h.f.Soup, 1))
	_, err := h.orders.SetStatus(ctx, h.f.Restaurant.ID, o.ID, domain.StatusCompleted)
	require.NoError(t, err)

	items := []domain.OrderItemInput{line(h.f.Pizza, 1)}
	tests := []struct {
		name string
		req  domain.UpdateOrderRequest
		kind domain.Kind
	}{
		{"mark paid", domain.UpdateOrderRequest{Paid: ptr(true)}, domain.KindUnknown},
		{"paid with current status", domain.UpdateOrderRequest{Paid: ptr(true), Status: ptr(domain.StatusCompleted)}, domain.KindUnknown},
		{"change status", domain.UpdateOrderRequest{Status: ptr(domain.StatusCancelled)}, domain.KindInvalidStateTransition},
		{"move table", domain.UpdateOrderRequest{TableID: ptr(h.f.Table.ID)}, domain.KindInvalidStateTransition},
		{"replace items", domain.UpdateOrderRequest{Items: &items}, domain.KindInvalidStateTransition},
		{"set pending", domain.UpdateOrderRequest{Status: ptr(domain.StatusPending)}, domain.KindInvalidArgument},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := h.orders.Update(ctx, h.f.Restaurant.ID, o.ID, tc.req)
			if tc.kind == domain.KindUnknown {
				require.NoError(t, err)
				assert.True(t, got.Paid)
				assert.Len(t, got.History, 2)
				return
			}
			assert.Equal(t, tc.kind, domain.KindOf(err))
		})
	}
}

func TestUpdateIgnoresCurrentStatus(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	tests := []struct {
		name string
		path []domain.Status
		echo domain.Status
	}{
		{"pending", nil, domain.StatusPending},
		{"preparing", []domain.Status{domain.StatusPreparing}, domain.StatusPreparing},
		{"ready", []domain.Status{domain.StatusReady}, domain.StatusReady},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o := h.create(t, nil, line(h.f.Soup, 1))
			for _, st := range tc.path {
				_, err := h.orders.SetStatus(ctx, h.f.Restaurant.ID, o.ID, st)
				require.NoError(t, err)
			}

			got, err := h.orders.Update(ctx, h.f.Restaurant.ID, o.ID, domain.UpdateOrderRequest{Status: ptr(tc.echo), Paid: ptr(true)})
			require.NoError(t, err)
			assert.True(t, got.Paid)
			assert.Equal(t, tc.echo, got.Status)
			assert.Len(t, got.History, len(tc.path)+1)
		})
	}

	o := h.create(t, nil, line(h.f.Soup, 1))
	_, err := h.orders.SetStatus(ctx, h.f.Restaurant.ID, o.ID, domain.StatusPreparing)
	require.NoError(t, err)
	_, err = h.orders.Update(ctx, h.f.Restaurant.ID, o.ID, domain.UpdateOrderRequest{Status: ptr(domain.StatusPending)})
	assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err))
}

func TestCancelItem(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	o := h.create(t, nil, line(h.f.Soup, 1), line(h.f.Bread, 2))
	first, second := o.Items[0].ID, o.Items[1].ID

	res, err := h.orders.CancelItem(ctx, h.f.Restaurant.ID, first)
	require.NoError(t, err)
	assert.False(t, res.OrderCancelled)
	assert.Equal(t, domain.StatusPending, res.Order.Status)
	assert.Equal(t, "6.00", res.Order.Total.StringFixed(2))

	_, err = h.orders.CancelItem(ctx, h.f.Restaurant.ID, first)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	_, err = h.orders.CancelItem(ctx, h.f.Other.ID, second)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err), "items are scoped to their restaurant")

	res, err = h.orders.CancelItem(ctx, h.f.Restaurant.ID, second)
	require.NoError(t, err)
	assert.True(t, res.OrderCancelled)
	assert.Equal(t, domain.StatusCancelled, res.Order.Status)
	assert.Empty(t, res.Order.Items)
	assert.Equal(t, []domain.Status{domain.StatusPending, domain.StatusCancelled}, historyOf(res.Order))
}

func TestCancelItemOnTerminalOrder(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	o := h.create(t, nil, line(h.f.Soup, 1), line(h.f.Bread, 1))
	_, err := h.orders.SetStatus(ctx, h.f.Restaurant.ID, o.ID, domain.StatusCompleted)
	require.NoError(t, err)

	_, err = h.orders.CancelItem(ctx, h.f.Restaurant.ID, o.Items[0].ID)
	assert.Equal(t, domain.KindInvalidStateTransition, domain.KindOf(err))
}

func TestConcurrentCancelItemsCancelOrderOnce(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	o := h.create(t, nil, line(h.f.Soup, 1), line(h.f.Bread, 1), line(h.f.Pizza, 1), line(h.f.Salad, 1))

	var (
		wg        sync.WaitGroup
		cancelled atomic.Int32
	)
	for _, it := range o.Items {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			res, err := h.orders.CancelItem(ctx, h.f.Restaurant.ID, id)
			assert.NoError(t, err)
			if res.OrderCancelled {
				cancelled.Add(1)
			}
		}(it.ID)
	}
	wg.Wait()

	assert.Equal(t, int32(1), cancelled.Load())
	got, err := h.orders.Get(ctx, h.f.Restaurant.ID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.Status{domain.StatusPending, domain.StatusCancelled}, historyOf(got))
}

func TestConcurrentCompletionAwardsOnce(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	o := h.create(t, ptr(customer), line(h.f.Soup, 2))

	var (
		wg sync.WaitGroup
		ok atomic.Int32
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.orders.SetStatus(ctx, h.f.Restaurant.ID, o.ID, domain.StatusCompleted)
			if err == nil {
				ok.Add(1)
				return
			}
			assert.Equal(t, domain.KindInvalidStateTransition, domain.KindOf(err))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok.Load())
	bal, err := h.ledger.Balance(ctx, customer, h.f.Restaurant.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), bal)
}

func TestGetAndListScopedToRestaurant(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	a := h.create(t, nil, line(h.f.Soup, 1))
	b := h.create(t, nil, line(h.f.Bread, 1))
	_, err := h.orders.Update(ctx, h.f.Restaurant.ID, b.ID, domain.UpdateOrderRequest{
		Status: ptr(domain.StatusReady), Paid: ptr(true),
	})
	require.NoError(t, err)

	_, err = h.orders.Get(ctx, h.f.Other.ID, a.ID)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	_, err = h.orders.SetStatus(ctx, h.f.Other.ID, a.ID, domain.StatusReady)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	all, err := h.orders.List(ctx, domain.OrderFilter{RestaurantID: h.f.Restaurant.ID})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, b.ID, all[0].ID, "newest first")
	assert.Equal(t, "3.00", all[0].Total.StringFixed(2))

	ready, err := h.orders.List(ctx, domain.OrderFilter{RestaurantID: h.f.Restaurant.ID, Status: ptr(domain.StatusReady)})
	require.NoError(t, err)
	require.Len(t, ready, 1)
	assert.Equal(t, b.ID, ready[0].ID)

	unpaid, err := h.orders.List(ctx, domain.OrderFilter{RestaurantID: h.f.Restaurant.ID, Paid: ptr(false)})
	require.NoError(t, err)
	require.Len(t, unpaid, 1)
	assert.Equal(t, a.ID, unpaid[0].ID)

	none, err := h.orders.List(ctx, domain.OrderFilter{RestaurantID: h.f.Other.ID})
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = h.orders.List(ctx, domain.OrderFilter{RestaurantID: 9999})
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestReplaceItems(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	o := h.create(t, nil, line(h.f.Soup, 1))

	got, err := h.orders.ReplaceItems(ctx, h.f.Restaurant.ID, o.ID, []domain.OrderItemInput{line(h.f.Pizza, 3)})
	require.NoError(t, err)
	assert.Equal(t, "25.50", got.Total.StringFixed(2))

	_, err = h.orders.ReplaceItems(ctx, h.f.Restaurant.ID, o.ID, nil)
	assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err))
}

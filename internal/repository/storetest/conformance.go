package storetest

import (
	"context"
	"errors"
	"testing"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises a Store implementation. newStore must return an empty or
// freshly migrated store; every subtest seeds its own restaurants.
func Run(t *testing.T, newStore func(t *testing.T) repository.Store) {
	t.Run("rollback discards writes", func(t *testing.T) { testRollback(t, newStore(t)) })
	t.Run("order round trip", func(t *testing.T) { testOrderRoundTrip(t, newStore(t)) })
	t.Run("list filters", func(t *testing.T) { testListFilters(t, newStore(t)) })
	t.Run("items", func(t *testing.T) { testItems(t, newStore(t)) })
	t.Run("points", func(t *testing.T) { testPoints(t, newStore(t)) })
	t.Run("catalog constraints", func(t *testing.T) { testCatalogConstraints(t, newStore(t)) })
	t.Run("column ranges", func(t *testing.T) { testColumnRanges(t, newStore(t)) })
}

func inTx(t *testing.T, s repository.Store, fn func(ctx context.Context, tx repository.Tx)) {
	t.Helper()
	require.NoError(t, s.WithTx(context.Background(), func(ctx context.Context, tx repository.Tx) error {
		fn(ctx, tx)
		return nil
	}))
}

func testRollback(t *testing.T, s repository.Store) {
	f := Seed(t, s)
	boom := errors.New("boom")
	var orderID int64
	err := s.WithTx(context.Background(), func(ctx context.Context, tx repository.Tx) error {
		o := domain.Order{RestaurantID: f.Restaurant.ID, Status: domain.StatusPending}
		require.NoError(t, tx.Orders().Insert(ctx, &o))
		orderID = o.ID
		return boom
	})
	require.ErrorIs(t, err, boom)

	inTx(t, s, func(ctx context.Context, tx repository.Tx) {
		_, err := tx.Orders().Get(ctx, orderID)
		assert.True(t, domain.IsNotFound(err), "got %v", err)
	})
}

func testOrderRoundTrip(t *testing.T, s repository.Store) {
	f := Seed(t, s)
	customer := int64(42)
	inTx(t, s, func(ctx context.Context, tx repository.Tx) {
		o := domain.Order{RestaurantID: f.Restaurant.ID, TableID: &f.Table.ID, CustomerID: &customer, Status: domain.StatusPending}
		require.NoError(t, tx.Orders().Insert(ctx, &o))
		require.NotZero(t, o.ID)
		assert.False(t, o.CreatedAt.IsZero())

		_, err := tx.Orders().AppendHistory(ctx, o.ID, domain.StatusPending)
		require.NoError(t, err)

		locked, err := tx.Orders().GetForUpdate(ctx, o.ID)
		require.NoError(t, err)
		locked.Status, locked.Paid = domain.StatusPreparing, true
		require.NoError(t, tx.Orders().Update(ctx, &locked))
		_, err = tx.Orders().AppendHistory(ctx, o.ID, domain.StatusPreparing)
		require.NoError(t, err)

		got, err := tx.Orders().Get(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPreparing, got.Status)
		assert.True(t, got.Paid)
		require.NotNil(t, got.CustomerID)
		assert.Equal(t, customer, *got.CustomerID)
		require.NotNil(t, got.TableID)
		assert.Nil(t, got.EmployeeID)

		hist, err := tx.Orders().History(ctx, o.ID)
		require.NoError(t, err)
		require.Len(t, hist, 2)
		assert.Equal(t, domain.StatusPending, hist[0].Status)
		assert.Equal(t, domain.StatusPreparing, hist[1].Status)

		statuses, err := tx.Orders().TableStatuses(ctx, f.Table.ID)
		require.NoError(t, err)
		assert.Equal(t, []domain.Status{domain.StatusPreparing}, statuses)

		_, err = tx.Orders().Get(ctx, o.ID+100000)
		assert.True(t, domain.IsNotFound(err))
	})
}

func testListFilters(t *testing.T, s repository.Store) {
	f := Seed(t, s)
	inTx(t, s, func(ctx context.Context, tx repository.Tx) {
		mk := func(st domain.Status, paid bool) int64 {
			o := domain.Order{RestaurantID: f.Restaurant.ID, Status: st, Paid: paid}
			require.NoError(t, tx.Orders().Insert(ctx, &o))
			return o.ID
		}
		a := mk(domain.StatusPending, false)
		b := mk(domain.StatusCompleted, true)
		c := mk(domain.StatusCompleted, false)
		other := domain.Order{RestaurantID: f.Other.ID, Status: domain.StatusPending}
		require.NoError(t, tx.Orders().Insert(ctx, &other))

		ids := func(f domain.OrderFilter) []int64 {
			list, err := tx.Orders().List(ctx, f)
			require.NoError(t, err)
			var out []int64
			for _, o := range list {
				out = append(out, o.ID)
			}
			return out
		}
		completed := domain.StatusCompleted
		unpaid := false

		assert.Equal(t, []int64{c, b, a}, ids(domain.OrderFilter{RestaurantID: f.Restaurant.ID}))
		assert.Equal(t, []int64{c, b}, ids(domain.OrderFilter{RestaurantID: f.Restaurant.ID, Status: &completed}))
		assert.Equal(t, []int64{c, a}, ids(domain.OrderFilter{RestaurantID: f.Restaurant.ID, Paid: &unpaid}))
		assert.Equal(t, []int64{c}, ids(domain.OrderFilter{RestaurantID: f.Restaurant.ID, Status: &completed, Paid: &unpaid}))
	})
}

func testItems(t *testing.T, s repository.Store) {
	f := Seed(t, s)
	inTx(t, s, func(ctx context.Context, tx repository.Tx) {
		o := domain.Order{RestaurantID: f.Restaurant.ID, Status: domain.StatusPending}
		require.NoError(t, tx.Orders().Insert(ctx, &o))
		items := []domain.OrderItem{
			{MenuItemID: f.Pizza.ID, Quantity: 2, EmployeeID: &f.Waiter.ID},
			{MenuItemID: f.Salad.ID, Quantity: 1},
		}
		require.NoError(t, tx.Orders().InsertItems(ctx, o.ID, items))
		require.NotZero(t, items[0].ID)

		got, err := tx.Orders().Items(ctx, o.ID)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Pizza", got[0].Name)
		assert.Equal(t, "8.50", got[0].Price.StringFixed(2))
		require.NotNil(t, got[0].EmployeeID)
		assert.Equal(t, f.Waiter.ID, *got[0].EmployeeID)

		one, err := tx.Orders().GetItem(ctx, items[1].ID)
		require.NoError(t, err)
		assert.Equal(t, o.ID, one.OrderID)

		require.NoError(t, tx.Orders().DeleteItem(ctx, items[1].ID))
		assert.True(t, domain.IsNotFound(tx.Orders().DeleteItem(ctx, items[1].ID)))
		_, err = tx.Orders().GetItem(ctx, items[1].ID)
		assert.True(t, domain.IsNotFound(err))

		n, err := tx.Orders().CountItems(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		require.NoError(t, tx.Orders().DeleteItems(ctx, o.ID))
		n, err = tx.Orders().CountItems(ctx, o.ID)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func testPoints(t *testing.T, s repository.Store) {
	f := Seed(t, s)
	inTx(t, s, func(ctx context.Context, tx repository.Tx) {
		pts := tx.Points()
		bal, err := pts.Balance(ctx, 7, f.Restaurant.ID)
		require.NoError(t, err)
		assert.Zero(t, bal)

		require.NoError(t, pts.LockPair(ctx, 7, f.Restaurant.ID))
		for _, amt := range []int64{10, -4, 6} {
			p := domain.Point{CustomerID: 7, RestaurantID: f.Restaurant.ID, Amount: amt}
			require.NoError(t, pts.Append(ctx, &p))
		}
		other := domain.Point{CustomerID: 7, RestaurantID: f.Other.ID, Amount: 100}
		require.NoError(t, pts.Append(ctx, &other))

		bal, err = pts.Balance(ctx, 7, f.Restaurant.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(12), bal)

		list, err := pts.List(ctx, 7, f.Restaurant.ID)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, int64(6), list[0].Amount, "newest first")
		assert.Equal(t, int64(10), list[2].Amount)
	})
}

func testCatalogConstraints(t *testing.T, s repository.Store) {
	f := Seed(t, s)
	err := s.WithTx(context.Background(), func(ctx context.Context, tx repository.Tx) error {
		return tx.Catalog().CreateTable(ctx, &domain.Table{RestaurantID: f.Restaurant.ID, Number: f.Table.Number})
	})
	assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err))

	inTx(t, s, func(ctx context.Context, tx repository.Tx) {
		items, err := tx.Catalog().GetMenuItems(ctx, []int64{f.Soup.ID, f.Bread.ID, 999999})
		require.NoError(t, err)
		assert.Len(t, items, 2)
		assert.Equal(t, "5.00", items[f.Soup.ID].Price.StringFixed(2))

		tables, err := tx.Catalog().ListTables(ctx, f.Restaurant.ID)
		require.NoError(t, err)
		assert.Len(t, tables, 1)

		_, err = tx.Catalog().GetRestaurant(ctx, 999999)
		assert.True(t, domain.IsNotFound(err))
	})
}

func testColumnRanges(t *testing.T, s repository.Store) {
	f := Seed(t, s)
	var orderID int64
	inTx(t, s, func(ctx context.Context, tx repository.Tx) {
		o := domain.Order{RestaurantID: f.Restaurant.ID, Status: domain.StatusPending}
		require.NoError(t, tx.Orders().Insert(ctx, &o))
		orderID = o.ID
	})

	tests := []struct {
		name string
		fn   func(ctx context.Context, tx repository.Tx) error
	}{
		{"quantity above integer range", func(ctx context.Context, tx repository.Tx) error {
			return tx.Orders().InsertItems(ctx, orderID, []domain.OrderItem{{MenuItemID: f.Soup.ID, Quantity: domain.MaxQuantity + 1}})
		}},
		{"zero quantity", func(ctx context.Context, tx repository.Tx) error {
			return tx.Orders().InsertItems(ctx, orderID, []domain.OrderItem{{MenuItemID: f.Soup.ID, Quantity: 0}})
		}},
		{"price above numeric precision", func(ctx context.Context, tx repository.Tx) error {
			return tx.Catalog().CreateMenuItem(ctx, &domain.MenuItem{
				RestaurantID: f.Restaurant.ID, CategoryID: f.Category.ID, Name: "Caviar", Price: decimal.RequireFromString("100000000"),
			})
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := s.WithTx(context.Background(), tc.fn)
			assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err), "%v", err)
		})
	}

	inTx(t, s, func(ctx context.Context, tx repository.Tx) {
		n, err := tx.Orders().CountItems(ctx, orderID)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

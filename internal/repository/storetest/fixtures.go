// Package storetest seeds stores for tests and checks that a Store
// implementation honours the repository contract.
package storetest

import (
	"context"
	"testing"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type Fixture struct {
	Restaurant domain.Restaurant
	Other      domain.Restaurant
	Category   domain.Category
	Table      domain.Table
	OtherTable domain.Table
	Waiter     domain.Employee

	Soup    domain.MenuItem // 5.00
	Bread   domain.MenuItem // 3.00
	Pizza   domain.MenuItem // 8.50
	Salad   domain.MenuItem // 3.25
	Foreign domain.MenuItem // belongs to Other
}

// Seed creates two restaurants with a small menu in the first one.
func Seed(t testing.TB, store repository.Store) Fixture {
	t.Helper()
	var f Fixture
	err := store.WithTx(context.Background(), func(ctx context.Context, tx repository.Tx) error {
		cat := tx.Catalog()
		f.Restaurant = domain.Restaurant{OwnerID: 1, Name: "Trattoria", Address: "1 Main St"}
		require.NoError(t, cat.CreateRestaurant(ctx, &f.Restaurant))
		f.Other = domain.Restaurant{OwnerID: 2, Name: "Noodle Bar", Address: "2 Side St"}
		require.NoError(t, cat.CreateRestaurant(ctx, &f.Other))

		f.Category = domain.Category{RestaurantID: f.Restaurant.ID, Name: "Mains"}
		require.NoError(t, cat.CreateCategory(ctx, &f.Category))
		otherCat := domain.Category{RestaurantID: f.Other.ID, Name: "Noodles"}
		require.NoError(t, cat.CreateCategory(ctx, &otherCat))

		f.Table = domain.Table{RestaurantID: f.Restaurant.ID, Number: 1}
		require.NoError(t, cat.CreateTable(ctx, &f.Table))
		f.OtherTable = domain.Table{RestaurantID: f.Other.ID, Number: 1}
		require.NoError(t, cat.CreateTable(ctx, &f.OtherTable))

		f.Waiter = domain.Employee{RestaurantID: f.Restaurant.ID, AccountID: 10, Name: "Ana", Role: domain.RoleWaiter}
		require.NoError(t, cat.CreateEmployee(ctx, &f.Waiter))

		f.Soup = menuItem(t, ctx, tx, f.Restaurant.ID, f.Category.ID, "Soup", "5.00")
		f.Bread = menuItem(t, ctx, tx, f.Restaurant.ID, f.Category.ID, "Bread", "3.00")
		f.Pizza = menuItem(t, ctx, tx, f.Restaurant.ID, f.Category.ID, "Pizza", "8.50")
		f.Salad = menuItem(t, ctx, tx, f.Restaurant.ID, f.Category.ID, "Salad", "3.25")
		f.Foreign = menuItem(t, ctx, tx, f.Other.ID, otherCat.ID, "Ramen", "9.00")
		return nil
	})
	require.NoError(t, err)
	return f
}

func menuItem(t testing.TB, ctx context.Context, tx repository.Tx, restaurantID, categoryID int64, name, price string) domain.MenuItem {
	t.Helper()
	m := domain.MenuItem{RestaurantID: restaurantID, CategoryID: categoryID, Name: name, Price: decimal.RequireFromString(price)}
	require.NoError(t, tx.Catalog().CreateMenuItem(ctx, &m))
	return m
}

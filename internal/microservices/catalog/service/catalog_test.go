package service

import (
	"context"
	"testing"

	"restaurant-pos/internal/common/logger"
	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/repository/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalog(t *testing.T) (CatalogServiceInterface, domain.Restaurant) {
	t.Helper()
	s := NewCatalogService(memory.New(), logger.NewNop())
	r, err := s.CreateRestaurant(context.Background(), domain.CreateRestaurantRequest{
		OwnerID: 1, Name: "Trattoria", Address: "1 Main St",
	})
	require.NoError(t, err)
	return s, r
}

func TestCreateRestaurantValidation(t *testing.T) {
	s, _ := newCatalog(t)
	tests := []struct {
		name string
		req  domain.CreateRestaurantRequest
	}{
		{"missing owner", domain.CreateRestaurantRequest{Name: "A", Address: "B"}},
		{"missing name", domain.CreateRestaurantRequest{OwnerID: 1, Address: "B"}},
		{"missing address", domain.CreateRestaurantRequest{OwnerID: 1, Name: "A"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.CreateRestaurant(context.Background(), tc.req)
			assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err))
		})
	}

	all, err := s.ListRestaurants(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMenuItems(t *testing.T) {
	ctx := context.Background()
	s, r := newCatalog(t)
	other, err := s.CreateRestaurant(ctx, domain.CreateRestaurantRequest{OwnerID: 2, Name: "Other", Address: "2 Side St"})
	require.NoError(t, err)

	cat, err := s.CreateCategory(ctx, domain.CreateCategoryRequest{RestaurantID: r.ID, Name: "Mains"})
	require.NoError(t, err)
	foreignCat, err := s.CreateCategory(ctx, domain.CreateCategoryRequest{RestaurantID: other.ID, Name: "Noodles"})
	require.NoError(t, err)

	m, err := s.CreateMenuItem(ctx, domain.CreateMenuItemRequest{
		RestaurantID: r.ID, CategoryID: cat.ID, Name: "Soup", Price: decimal.RequireFromString("4.5"),
	})
	require.NoError(t, err)
	assert.Equal(t, "4.50", m.Price.StringFixed(2))

	_, err = s.CreateMenuItem(ctx, domain.CreateMenuItemRequest{
		RestaurantID: r.ID, CategoryID: foreignCat.ID, Name: "Ramen", Price: decimal.NewFromInt(9),
	})
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err), "category must belong to the restaurant")

	_, err = s.CreateMenuItem(ctx, domain.CreateMenuItemRequest{
		RestaurantID: r.ID, CategoryID: cat.ID, Name: "Refund", Price: decimal.NewFromInt(-1),
	})
	assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err))

	_, err = s.CreateMenuItem(ctx, domain.CreateMenuItemRequest{
		RestaurantID: r.ID, CategoryID: cat.ID, Name: "Caviar", Price: decimal.RequireFromString("100000000"),
	})
	assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err))

	items, err := s.ListMenuItems(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, m.ID, items[0].ID)

	_, err = s.ListMenuItems(ctx, 9999)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestEmployeesAndTables(t *testing.T) {
	ctx := context.Background()
	s, r := newCatalog(t)

	e, err := s.CreateEmployee(ctx, domain.CreateEmployeeRequest{RestaurantID: r.ID, AccountID: 5, Name: "Ana", Role: domain.RoleCounter})
	require.NoError(t, err)
	assert.NotZero(t, e.ID)

	_, err = s.CreateEmployee(ctx, domain.CreateEmployeeRequest{RestaurantID: r.ID, AccountID: 6, Name: "Bo", Role: "CHEF"})
	assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err))

	_, err = s.CreateEmployee(ctx, domain.CreateEmployeeRequest{RestaurantID: 9999, AccountID: 6, Name: "Bo", Role: domain.RoleWaiter})
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	emps, err := s.ListEmployees(ctx, r.ID)
	require.NoError(t, err)
	assert.Len(t, emps, 1)

	_, err = s.CreateTable(ctx, domain.CreateTableRequest{RestaurantID: r.ID, Number: 4})
	require.NoError(t, err)
	_, err = s.CreateTable(ctx, domain.CreateTableRequest{RestaurantID: r.ID, Number: 4})
	assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err), "table numbers are unique per restaurant")
	_, err = s.CreateTable(ctx, domain.CreateTableRequest{RestaurantID: r.ID, Number: 0})
	assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err))

	tables, err := s.ListTables(ctx, r.ID)
	require.NoError(t, err)
	assert.Len(t, tables, 1)

	cats, err := s.ListCategories(ctx, r.ID)
	require.NoError(t, err)
	assert.Empty(t, cats)
}

package memory

import (
	"context"

	"restaurant-pos/internal/domain"
)

type catalogRepo struct{ *tx }

func (r catalogRepo) CreateRestaurant(_ context.Context, rest *domain.Restaurant) error {
	rest.ID = r.st.nextID()
	rest.CreatedAt = r.now()
	r.st.restaurants[rest.ID] = *rest
	return nil
}

func (r catalogRepo) GetRestaurant(_ context.Context, id int64) (domain.Restaurant, error) {
	rest, ok := r.st.restaurants[id]
	if !ok {
		return domain.Restaurant{}, domain.NewNotFoundf("restaurant %d not found", id)
	}
	return rest, nil
}

func (r catalogRepo) ListRestaurants(context.Context) ([]domain.Restaurant, error) {
	return sortedValues(r.st.restaurants, func(domain.Restaurant) bool { return true }), nil
}

func (r catalogRepo) CreateCategory(_ context.Context, c *domain.Category) error {
	if _, ok := r.st.restaurants[c.RestaurantID]; !ok {
		return domain.NewNotFoundf("restaurant %d not found", c.RestaurantID)
	}
	c.ID = r.st.nextID()
	r.st.categories[c.ID] = *c
	return nil
}

func (r catalogRepo) GetCategory(_ context.Context, id int64) (domain.Category, error) {
	c, ok := r.st.categories[id]
	if !ok {
		return domain.Category{}, domain.NewNotFoundf("category %d not found", id)
	}
	return c, nil
}

func (r catalogRepo) ListCategories(_ context.Context, restaurantID int64) ([]domain.Category, error) {
	return sortedValues(r.st.categories, func(c domain.Category) bool { return c.RestaurantID == restaurantID }), nil
}

func (r catalogRepo) CreateEmployee(_ context.Context, e *domain.Employee) error {
	if _, ok := r.st.restaurants[e.RestaurantID]; !ok {
		return domain.NewNotFoundf("restaurant %d not found", e.RestaurantID)
	}
	e.ID = r.st.nextID()
	r.st.employees[e.ID] = *e
	return nil
}

func (r catalogRepo) GetEmployee(_ context.Context, id int64) (domain.Employee, error) {
	e, ok := r.st.employees[id]
	if !ok {
		return domain.Employee{}, domain.NewNotFoundf("employee %d not found", id)
	}
	return e, nil
}

func (r catalogRepo) ListEmployees(_ context.Context, restaurantID int64) ([]domain.Employee, error) {
	return sortedValues(r.st.employees, func(e domain.Employee) bool { return e.RestaurantID == restaurantID }), nil
}

func (r catalogRepo) CreateTable(_ context.Context, t *domain.Table) error {
	if _, ok := r.st.restaurants[t.RestaurantID]; !ok {
		return domain.NewNotFoundf("restaurant %d not found", t.RestaurantID)
	}
	for _, other := range r.st.tables {
		if other.RestaurantID == t.RestaurantID && other.Number == t.Number {
			return domain.NewInvalidArgumentf("table number %d already exists in restaurant %d", t.Number, t.RestaurantID)
		}
	}
	t.ID = r.st.nextID()
	r.st.tables[t.ID] = *t
	return nil
}

func (r catalogRepo) GetTable(_ context.Context, id int64) (domain.Table, error) {
	t, ok := r.st.tables[id]
	if !ok {
		return domain.Table{}, domain.NewNotFoundf("table %d not found", id)
	}
	return t, nil
}

func (r catalogRepo) ListTables(_ context.Context, restaurantID int64) ([]domain.Table, error) {
	return sortedValues(r.st.tables, func(t domain.Table) bool { return t.RestaurantID == restaurantID }), nil
}

func (r catalogRepo) CreateMenuItem(_ context.Context, m *domain.MenuItem) error {
	if _, ok := r.st.restaurants[m.RestaurantID]; !ok {
		return domain.NewNotFoundf("restaurant %d not found", m.RestaurantID)
	}
	if _, ok := r.st.categories[m.CategoryID]; !ok {
		return domain.NewNotFoundf("category %d not found", m.CategoryID)
	}
	if err := domain.CheckPrice(m.Price); err != nil {
		return err
	}
	m.Price = m.Price.Round(2)
	m.ID = r.st.nextID()
	r.st.menuItems[m.ID] = *m
	return nil
}

func (r catalogRepo) GetMenuItems(_ context.Context, ids []int64) (map[int64]domain.MenuItem, error) {
	out := make(map[int64]domain.MenuItem, len(ids))
	for _, id := range ids {
		if m, ok := r.st.menuItems[id]; ok {
			out[id] = m
		}
	}
	return out, nil
}

func (r catalogRepo) ListMenuItems(_ context.Context, restaurantID int64) ([]domain.MenuItem, error) {
	return sortedValues(r.st.menuItems, func(m domain.MenuItem) bool { return m.RestaurantID == restaurantID }), nil
}

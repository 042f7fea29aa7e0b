package service

import (
	"context"

	"restaurant-pos/internal/common/logger"
	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/repository"
)

type CatalogServiceInterface interface {
	CreateRestaurant(ctx context.Context, req domain.CreateRestaurantRequest) (domain.Restaurant, error)
	GetRestaurant(ctx context.Context, id int64) (domain.Restaurant, error)
	ListRestaurants(ctx context.Context) ([]domain.Restaurant, error)

	CreateCategory(ctx context.Context, req domain.CreateCategoryRequest) (domain.Category, error)
	ListCategories(ctx context.Context, restaurantID int64) ([]domain.Category, error)

	CreateEmployee(ctx context.Context, req domain.CreateEmployeeRequest) (domain.Employee, error)
	ListEmployees(ctx context.Context, restaurantID int64) ([]domain.Employee, error)

	CreateTable(ctx context.Context, req domain.CreateTableRequest) (domain.Table, error)
	ListTables(ctx context.Context, restaurantID int64) ([]domain.Table, error)

	CreateMenuItem(ctx context.Context, req domain.CreateMenuItemRequest) (domain.MenuItem, error)
	ListMenuItems(ctx context.Context, restaurantID int64) ([]domain.MenuItem, error)
}

type CatalogService struct {
	store repository.Store
	lg    *logger.Logger
}

func NewCatalogService(store repository.Store, lg *logger.Logger) CatalogServiceInterface {
	return &CatalogService{store: store, lg: lg}
}

func (s *CatalogService) CreateRestaurant(ctx context.Context, req domain.CreateRestaurantRequest) (domain.Restaurant, error) {
	if err := req.Validate(); err != nil {
		return domain.Restaurant{}, err
	}
	r := domain.Restaurant{
		OwnerID:     req.OwnerID,
		Name:        req.Name,
		Address:     req.Address,
		Phone:       req.Phone,
		Description: req.Description,
		OpeningTime: req.OpeningTime,
	}
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		return tx.Catalog().CreateRestaurant(ctx, &r)
	})
	if err != nil {
		return domain.Restaurant{}, err
	}
	s.lg.Info("restaurant_created", map[string]any{"restaurant_id": r.ID, "name": r.Name})
	return r, nil
}

func (s *CatalogService) GetRestaurant(ctx context.Context, id int64) (domain.Restaurant, error) {
	var r domain.Restaurant
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		r, err = tx.Catalog().GetRestaurant(ctx, id)
		return err
	})
	return r, err
}

func (s *CatalogService) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	var out []domain.Restaurant
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		out, err = tx.Catalog().ListRestaurants(ctx)
		return err
	})
	return out, err
}

func (s *CatalogService) CreateCategory(ctx context.Context, req domain.CreateCategoryRequest) (domain.Category, error) {
	if err := req.Validate(); err != nil {
		return domain.Category{}, err
	}
	c := domain.Category{RestaurantID: req.RestaurantID, Name: req.Name}
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		return tx.Catalog().CreateCategory(ctx, &c)
	})
	return c, err
}

func (s *CatalogService) ListCategories(ctx context.Context, restaurantID int64) ([]domain.Category, error) {
	return listScoped(ctx, s.store, restaurantID, func(ctx context.Context, c repository.CatalogRepositoryInterface) ([]domain.Category, error) {
		return c.ListCategories(ctx, restaurantID)
	})
}

func (s *CatalogService) CreateEmployee(ctx context.Context, req domain.CreateEmployeeRequest) (domain.Employee, error) {
	if err := req.Validate(); err != nil {
		return domain.Employee{}, err
	}
	e := domain.Employee{
		RestaurantID: req.RestaurantID,
		AccountID:    req.AccountID,
		Name:         req.Name,
		Phone:        req.Phone,
		Role:         req.Role,
	}
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		return tx.Catalog().CreateEmployee(ctx, &e)
	})
	if err != nil {
		return domain.Employee{}, err
	}
	s.lg.Info("employee_created", map[string]any{"employee_id": e.ID, "restaurant_id": e.RestaurantID, "role": e.Role})
	return e, nil
}

func (s *CatalogService) ListEmployees(ctx context.Context, restaurantID int64) ([]domain.Employee, error) {
	return listScoped(ctx, s.store, restaurantID, func(ctx context.Context, c repository.CatalogRepositoryInterface) ([]domain.Employee, error) {
		return c.ListEmployees(ctx, restaurantID)
	})
}

func (s *CatalogService) CreateTable(ctx context.Context, req domain.CreateTableRequest) (domain.Table, error) {
	if err := req.Validate(); err != nil {
		return domain.Table{}, err
	}
	t := domain.Table{RestaurantID: req.RestaurantID, Number: req.Number}
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		return tx.Catalog().CreateTable(ctx, &t)
	})
	return t, err
}

func (s *CatalogService) ListTables(ctx context.Context, restaurantID int64) ([]domain.Table, error) {
	return listScoped(ctx, s.store, restaurantID, func(ctx context.Context, c repository.CatalogRepositoryInterface) ([]domain.Table, error) {
		return c.ListTables(ctx, restaurantID)
	})
}

// CreateMenuItem requires the category to belong to the same restaurant.
func (s *CatalogService) CreateMenuItem(ctx context.Context, req domain.CreateMenuItemRequest) (domain.MenuItem, error) {
	if err := req.Validate(); err != nil {
		return domain.MenuItem{}, err
	}
	m := domain.MenuItem{
		RestaurantID: req.RestaurantID,
		CategoryID:   req.CategoryID,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
	}
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		c, err := tx.Catalog().GetCategory(ctx, req.CategoryID)
		if err != nil {
			return err
		}
		if c.RestaurantID != req.RestaurantID {
			return domain.NewNotFoundf("category %d not found in restaurant %d", req.CategoryID, req.RestaurantID)
		}
		return tx.Catalog().CreateMenuItem(ctx, &m)
	})
	if err != nil {
		return domain.MenuItem{}, err
	}
	s.lg.Info("menu_item_created", map[string]any{"menu_item_id": m.ID, "restaurant_id": m.RestaurantID, "price": m.Price.StringFixed(2)})
	return m, nil
}

func (s *CatalogService) ListMenuItems(ctx context.Context, restaurantID int64) ([]domain.MenuItem, error) {
	return listScoped(ctx, s.store, restaurantID, func(ctx context.Context, c repository.CatalogRepositoryInterface) ([]domain.MenuItem, error) {
		return c.ListMenuItems(ctx, restaurantID)
	})
}

// listScoped reports NotFound for an unknown restaurant instead of an empty list.
func listScoped[T any](ctx context.Context, store repository.Store, restaurantID int64,
	list func(context.Context, repository.CatalogRepositoryInterface) ([]T, error)) ([]T, error) {
	var out []T
	err := store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		if _, err := tx.Catalog().GetRestaurant(ctx, restaurantID); err != nil {
			return err
		}
		var err error
		out, err = list(ctx, tx.Catalog())
		return err
	})
	return out, err
}

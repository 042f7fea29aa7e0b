package handlers

import (
	"context"
	"net/http"

	"restaurant-pos/internal/common/httpx"
	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/microservices/catalog/service"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	service service.CatalogServiceInterface
}

func NewCatalogHandler(s service.CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{service: s}
}

// RegisterRoot mounts the restaurant collection; Register mounts the
// per-restaurant resources under /restaurants/:restaurant_id.
func (ch *CatalogHandler) RegisterRoot(rg *gin.RouterGroup) {
	rg.POST("/restaurants", ch.CreateRestaurant)
	rg.GET("/restaurants", ch.ListRestaurants)
}

func (ch *CatalogHandler) Register(rg *gin.RouterGroup) {
	rg.GET("", ch.GetRestaurant)
	rg.POST("/categories", ch.CreateCategory)
	rg.GET("/categories", ch.ListCategories)
	rg.POST("/employees", ch.CreateEmployee)
	rg.GET("/employees", ch.ListEmployees)
	rg.POST("/tables", ch.CreateTable)
	rg.GET("/tables", ch.ListTables)
	rg.POST("/menu-items", ch.CreateMenuItem)
	rg.GET("/menu-items", ch.ListMenuItems)
}

func (ch *CatalogHandler) CreateRestaurant(c *gin.Context) {
	var req domain.CreateRestaurantRequest
	if !httpx.Bind(c, &req) {
		return
	}
	r, err := ch.service.CreateRestaurant(c.Request.Context(), req)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (ch *CatalogHandler) ListRestaurants(c *gin.Context) {
	out, err := ch.service.ListRestaurants(c.Request.Context())
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (ch *CatalogHandler) GetRestaurant(c *gin.Context) {
	id, ok := httpx.ParamID(c, "restaurant_id")
	if !ok {
		return
	}
	r, err := ch.service.GetRestaurant(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (ch *CatalogHandler) CreateCategory(c *gin.Context) {
	var req domain.CreateCategoryRequest
	if !bindScoped(c, &req, &req.RestaurantID) {
		return
	}
	out, err := ch.service.CreateCategory(c.Request.Context(), req)
	respond(c, http.StatusCreated, out, err)
}

func (ch *CatalogHandler) ListCategories(c *gin.Context) {
	list(c, ch.service.ListCategories)
}

func (ch *CatalogHandler) CreateEmployee(c *gin.Context) {
	var req domain.CreateEmployeeRequest
	if !bindScoped(c, &req, &req.RestaurantID) {
		return
	}
	out, err := ch.service.CreateEmployee(c.Request.Context(), req)
	respond(c, http.StatusCreated, out, err)
}

func (ch *CatalogHandler) ListEmployees(c *gin.Context) {
	list(c, ch.service.ListEmployees)
}

func (ch *CatalogHandler) CreateTable(c *gin.Context) {
	var req domain.CreateTableRequest
	if !bindScoped(c, &req, &req.RestaurantID) {
		return
	}
	out, err := ch.service.CreateTable(c.Request.Context(), req)
	respond(c, http.StatusCreated, out, err)
}

func (ch *CatalogHandler) ListTables(c *gin.Context) {
	list(c, ch.service.ListTables)
}

func (ch *CatalogHandler) CreateMenuItem(c *gin.Context) {
	var req domain.CreateMenuItemRequest
	if !bindScoped(c, &req, &req.RestaurantID) {
		return
	}
	out, err := ch.service.CreateMenuItem(c.Request.Context(), req)
	respond(c, http.StatusCreated, out, err)
}

func (ch *CatalogHandler) ListMenuItems(c *gin.Context) {
	list(c, ch.service.ListMenuItems)
}

// bindScoped decodes the body and then sets the restaurant id from the path.
func bindScoped(c *gin.Context, req any, restaurantID *int64) bool {
	id, ok := httpx.ParamID(c, "restaurant_id")
	if !ok {
		return false
	}
	if !httpx.Bind(c, req) {
		return false
	}
	*restaurantID = id
	return true
}

func respond(c *gin.Context, status int, body any, err error) {
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(status, body)
}

func list[T any](c *gin.Context, fetch func(ctx context.Context, restaurantID int64) ([]T, error)) {
	id, ok := httpx.ParamID(c, "restaurant_id")
	if !ok {
		return
	}
	out, err := fetch(c.Request.Context(), id)
	respond(c, http.StatusOK, out, err)
}

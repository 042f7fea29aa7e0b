package handlers

import (
	"net/http"
	"strconv"

	"restaurant-pos/internal/common/httpx"
	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/microservices/order/service"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service service.OrderServiceInterface
}

func NewOrderHandler(s service.OrderServiceInterface) *OrderHandler {
	return &OrderHandler{service: s}
}

func (oh *OrderHandler) CreateOrder(c *gin.Context) {
	restaurantID, ok := httpx.ParamID(c, "restaurant_id")
	if !ok {
		return
	}
	var req domain.CreateOrderRequest
	if !httpx.Bind(c, &req) {
		return
	}
	req.RestaurantID = restaurantID

	order, err := oh.service.Create(c.Request.Context(), req)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (oh *OrderHandler) GetOrder(c *gin.Context) {
	restaurantID, ok := httpx.ParamID(c, "restaurant_id")
	if !ok {
		return
	}
	orderID, ok := httpx.ParamID(c, "order_id")
	if !ok {
		return
	}
	order, err := oh.service.Get(c.Request.Context(), restaurantID, orderID)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// ListOrders accepts optional status and paid query filters.
func (oh *OrderHandler) ListOrders(c *gin.Context) {
	restaurantID, ok := httpx.ParamID(c, "restaurant_id")
	if !ok {
		return
	}
	f := domain.OrderFilter{RestaurantID: restaurantID}
	if raw, ok := c.GetQuery("status"); ok {
		st, err := domain.ParseStatus(raw)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		f.Status = &st
	}
	if raw, ok := c.GetQuery("paid"); ok {
		paid, err := strconv.ParseBool(raw)
		if err != nil {
			httpx.BadRequest(c, "paid must be true or false")
			return
		}
		f.Paid = &paid
	}

	orders, err := oh.service.List(c.Request.Context(), f)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (oh *OrderHandler) UpdateOrder(c *gin.Context) {
	restaurantID, ok := httpx.ParamID(c, "restaurant_id")
	if !ok {
		return
	}
	orderID, ok := httpx.ParamID(c, "order_id")
	if !ok {
		return
	}
	var req domain.UpdateOrderRequest
	if !httpx.Bind(c, &req) {
		return
	}
	order, err := oh.service.Update(c.Request.Context(), restaurantID, orderID, req)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (oh *OrderHandler) CancelOrder(c *gin.Context) {
	restaurantID, ok := httpx.ParamID(c, "restaurant_id")
	if !ok {
		return
	}
	orderID, ok := httpx.ParamID(c, "order_id")
	if !ok {
		return
	}
	order, err := oh.service.Cancel(c.Request.Context(), restaurantID, orderID)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (oh *OrderHandler) ReplaceItems(c *gin.Context) {
	restaurantID, ok := httpx.ParamID(c, "restaurant_id")
	if !ok {
		return
	}
	orderID, ok := httpx.ParamID(c, "order_id")
	if !ok {
		return
	}
	var items []domain.OrderItemInput
	if !httpx.Bind(c, &items) {
		return
	}
	order, err := oh.service.ReplaceItems(c.Request.Context(), restaurantID, orderID, items)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (oh *OrderHandler) CancelItem(c *gin.Context) {
	restaurantID, ok := httpx.ParamID(c, "restaurant_id")
	if !ok {
		return
	}
	itemID, ok := httpx.ParamID(c, "item_id")
	if !ok {
		return
	}
	resp, err := oh.service.CancelItem(c.Request.Context(), restaurantID, itemID)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

package handlers

import (
	"restaurant-pos/internal/microservices/order/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	OrderHandler *OrderHandler
}

func New(s *service.Service) *Handler {
	return &Handler{
		OrderHandler: NewOrderHandler(s.OrderService),
	}
}

// Register mounts the order routes under a /restaurants/:restaurant_id group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/orders", h.OrderHandler.CreateOrder)
	rg.GET("/orders", h.OrderHandler.ListOrders)
	rg.GET("/orders/:order_id", h.OrderHandler.GetOrder)
	rg.PATCH("/orders/:order_id", h.OrderHandler.UpdateOrder)
	rg.POST("/orders/:order_id/cancel", h.OrderHandler.CancelOrder)
	rg.PUT("/orders/:order_id/items", h.OrderHandler.ReplaceItems)
	rg.POST("/order-items/:item_id/cancel", h.OrderHandler.CancelItem)
}

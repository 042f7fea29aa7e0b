package handler

import (
	"net/http"
	"strconv"

	"restaurant-pos/internal/common/httpx"
	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/microservices/tracker/service"

	"github.com/gin-gonic/gin"
)

type TrackerHandler struct {
	service service.TrackerServiceInterface
}

func NewTrackerHandler(svc service.TrackerServiceInterface) *TrackerHandler {
	return &TrackerHandler{service: svc}
}

func (h *TrackerHandler) GetStatus(c *gin.Context) {
	restaurantID, ok := httpx.ParamID(c, "restaurant_id")
	if !ok {
		return
	}
	orderID, ok := httpx.ParamID(c, "order_id")
	if !ok {
		return
	}
	v, err := h.service.GetOrderStatus(c.Request.Context(), restaurantID, orderID)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *TrackerHandler) GetTimeline(c *gin.Context) {
	restaurantID, ok := httpx.ParamID(c, "restaurant_id")
	if !ok {
		return
	}
	orderID, ok := httpx.ParamID(c, "order_id")
	if !ok {
		return
	}
	limit, ok := atoiQuery(c, "limit")
	if !ok {
		return
	}
	offset, ok := atoiQuery(c, "offset")
	if !ok {
		return
	}
	events, err := h.service.GetOrderTimeline(c.Request.Context(), restaurantID, orderID, limit, offset)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, domain.TimelineResponse{OrderID: orderID, Events: events})
}

// atoiQuery reads an optional integer query parameter, 0 when absent.
func atoiQuery(c *gin.Context, key string) (int, bool) {
	s := c.Query(key)
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		httpx.BadRequest(c, key+" must be an integer")
		return 0, false
	}
	return n, true
}

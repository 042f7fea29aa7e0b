package handlers

import (
	"net/http"

	"restaurant-pos/internal/common/httpx"
	"restaurant-pos/internal/microservices/table/service"

	"github.com/gin-gonic/gin"
)

type TableHandler struct {
	service service.TableServiceInterface
}

func NewTableHandler(s service.TableServiceInterface) *TableHandler {
	return &TableHandler{service: s}
}

func (th *TableHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/tables/:table_id/availability", th.Availability)
}

func (th *TableHandler) Availability(c *gin.Context) {
	restaurantID, ok := httpx.ParamID(c, "restaurant_id")
	if !ok {
		return
	}
	tableID, ok := httpx.ParamID(c, "table_id")
	if !ok {
		return
	}
	resp, err := th.service.Availability(c.Request.Context(), restaurantID, tableID)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

package handlers

import (
	"net/http"

	"restaurant-pos/internal/common/httpx"
	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/microservices/ledger/service"

	"github.com/gin-gonic/gin"
)

type LedgerHandler struct {
	service service.LedgerServiceInterface
}

func NewLedgerHandler(s service.LedgerServiceInterface) *LedgerHandler {
	return &LedgerHandler{service: s}
}

func (lh *LedgerHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/points/balance", lh.Balance)
	rg.GET("/points", lh.History)
	rg.POST("/points", lh.Earn)
	rg.POST("/points/spend", lh.Spend)
}

func (lh *LedgerHandler) Balance(c *gin.Context) {
	restaurantID, ok := httpx.ParamID(c, "restaurant_id")
	if !ok {
		return
	}
	customerID, ok := httpx.QueryID(c, "customer_id")
	if !ok {
		return
	}
	bal, err := lh.service.Balance(c.Request.Context(), customerID, restaurantID)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, domain.BalanceResponse{CustomerID: customerID, RestaurantID: restaurantID, Balance: bal})
}

func (lh *LedgerHandler) History(c *gin.Context) {
	restaurantID, ok := httpx.ParamID(c, "restaurant_id")
	if !ok {
		return
	}
	customerID, ok := httpx.QueryID(c, "customer_id")
	if !ok {
		return
	}
	entries, err := lh.service.History(c.Request.Context(), customerID, restaurantID)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (lh *LedgerHandler) Earn(c *gin.Context) {
	restaurantID, ok := httpx.ParamID(c, "restaurant_id")
	if !ok {
		return
	}
	var req domain.PointsRequest
	if !httpx.Bind(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		httpx.Error(c, err)
		return
	}
	p, err := lh.service.Earn(c.Request.Context(), req.CustomerID, restaurantID, req.Amount)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Spend answers 200 either way; spent is false when the balance is short.
func (lh *LedgerHandler) Spend(c *gin.Context) {
	restaurantID, ok := httpx.ParamID(c, "restaurant_id")
	if !ok {
		return
	}
	var req domain.PointsRequest
	if !httpx.Bind(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		httpx.Error(c, err)
		return
	}
	spent, bal, err := lh.service.Spend(c.Request.Context(), req.CustomerID, restaurantID, req.Amount)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, domain.SpendResponse{Spent: spent, Balance: bal})
}

package handler

import (
	"restaurant-pos/internal/microservices/tracker/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	TrackerHandler *TrackerHandler
}

func New(svc service.TrackerServiceInterface) *Handler {
	return &Handler{
		TrackerHandler: NewTrackerHandler(svc),
	}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/orders/:order_id/status", h.TrackerHandler.GetStatus)
	rg.GET("/orders/:order_id/timeline", h.TrackerHandler.GetTimeline)
}

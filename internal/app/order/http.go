// Package order wires the order-service process: every HTTP resource of
// the POS engine served from one gin router over a shared store.
package order

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"restaurant-pos/internal/common/httpx"
	"restaurant-pos/internal/common/logger"
	"restaurant-pos/internal/domain"
	cataloghandlers "restaurant-pos/internal/microservices/catalog/handlers"
	catalogservice "restaurant-pos/internal/microservices/catalog/service"
	ledgerhandlers "restaurant-pos/internal/microservices/ledger/handlers"
	ledgerservice "restaurant-pos/internal/microservices/ledger/service"
	orderhandlers "restaurant-pos/internal/microservices/order/handlers"
	orderservice "restaurant-pos/internal/microservices/order/service"
	tablehandlers "restaurant-pos/internal/microservices/table/handlers"
	tableservice "restaurant-pos/internal/microservices/table/service"
	trackerhandler "restaurant-pos/internal/microservices/tracker/handler"
	trackerservice "restaurant-pos/internal/microservices/tracker/service"
	"restaurant-pos/internal/pricing"
	"restaurant-pos/internal/repository"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	Store     repository.Store
	Publisher domain.Publisher
	Points    pricing.PointsPolicy
	Logger    *logger.Logger
}

func NewRouter(d Deps, opts httpx.Options) *gin.Engine {
	ledger := ledgerservice.NewLedgerService(d.Store, d.Publisher, d.Logger.Named("ledger"))
	orders := orderhandlers.New(orderservice.New(d.Store, ledger, d.Points, d.Publisher, d.Logger.Named("orders")))
	catalog := cataloghandlers.NewCatalogHandler(catalogservice.NewCatalogService(d.Store, d.Logger.Named("catalog")))
	tables := tablehandlers.NewTableHandler(tableservice.NewTableService(d.Store))
	tracker := trackerhandler.New(trackerservice.NewTrackerService(d.Store))
	points := ledgerhandlers.NewLedgerHandler(ledger)

	e := httpx.NewEngine(d.Logger, opts)
	e.GET("/healthz", health(d.Store))

	api := e.Group("/api/v1")
	catalog.RegisterRoot(api)

	r := api.Group("/restaurants/:restaurant_id")
	catalog.Register(r)
	orders.Register(r)
	tracker.Register(r)
	tables.Register(r)
	points.Register(r)
	return e
}

func health(store repository.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			httpx.Logger(c).Error("healthcheck_failed", err, nil)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func Run(ctx context.Context, port int, d Deps, opts httpx.Options) error {
	srv := httpx.New(":"+strconv.Itoa(port), NewRouter(d, opts))
	d.Logger.Info("service_started", map[string]any{
		"service": "order-service", "port": port, "max_concurrent": opts.MaxConcurrent,
	})
	err := srv.Run(ctx)
	d.Logger.Info("service_stopped", map[string]any{"service": "order-service"})
	return err
}

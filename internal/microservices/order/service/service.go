package service

import (
	"restaurant-pos/internal/common/logger"
	"restaurant-pos/internal/domain"
	ledger "restaurant-pos/internal/microservices/ledger/service"
	"restaurant-pos/internal/pricing"
	"restaurant-pos/internal/repository"
)

type Service struct {
	OrderService OrderServiceInterface
}

func New(store repository.Store, l ledger.LedgerServiceInterface, policy pricing.PointsPolicy,
	pub domain.Publisher, lg *logger.Logger) *Service {
	return &Service{
		OrderService: NewOrderService(store, l, policy, pub, lg),
	}
}

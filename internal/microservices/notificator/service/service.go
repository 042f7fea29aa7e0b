package service

import "restaurant-pos/internal/common/logger"

type Service struct {
	NotificatorService NotificatorServiceInterface
}

func New(lg *logger.Logger) *Service {
	return &Service{NotificatorService: NewNotificatorService(lg)}
}

package service

import "restaurant-pos/internal/repository"

type Service struct {
	TrackerService TrackerServiceInterface
}

func New(store repository.Store) *Service {
	return &Service{TrackerService: NewTrackerService(store)}
}

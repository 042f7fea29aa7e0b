package service

import (
	"context"

	"restaurant-pos/internal/common/logger"
	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/repository"
)

type LedgerServiceInterface interface {
	Earn(ctx context.Context, customerID, restaurantID, amount int64) (domain.Point, error)
	// Spend reports false, with no entry written, when the balance is short.
	Spend(ctx context.Context, customerID, restaurantID, amount int64) (bool, int64, error)
	Balance(ctx context.Context, customerID, restaurantID int64) (int64, error)
	History(ctx context.Context, customerID, restaurantID int64) ([]domain.Point, error)
	// EarnTx appends inside tx and returns the new balance.
	EarnTx(ctx context.Context, tx repository.Tx, customerID, restaurantID, amount int64) (domain.Point, int64, error)
}

type LedgerService struct {
	store repository.Store
	pub   domain.Publisher
	lg    *logger.Logger
}

func NewLedgerService(store repository.Store, pub domain.Publisher, lg *logger.Logger) LedgerServiceInterface {
	return &LedgerService{store: store, pub: pub, lg: lg}
}

func checkPair(customerID, restaurantID int64) error {
	if customerID <= 0 {
		return domain.NewInvalidArgument("customer_id is required")
	}
	if restaurantID <= 0 {
		return domain.NewInvalidArgument("restaurant_id is required")
	}
	return nil
}

func (s *LedgerService) Earn(ctx context.Context, customerID, restaurantID, amount int64) (domain.Point, error) {
	var (
		p   domain.Point
		bal int64
	)
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		p, bal, err = s.EarnTx(ctx, tx, customerID, restaurantID, amount)
		return err
	})
	if err != nil {
		return domain.Point{}, err
	}
	s.publish(ctx, domain.NewPointsChanged(p, bal, nil))
	return p, nil
}

func (s *LedgerService) EarnTx(ctx context.Context, tx repository.Tx, customerID, restaurantID, amount int64) (domain.Point, int64, error) {
	if err := checkPair(customerID, restaurantID); err != nil {
		return domain.Point{}, 0, err
	}
	if amount <= 0 {
		return domain.Point{}, 0, domain.NewInvalidArgumentf("points to earn must be positive, got %d", amount)
	}
	if err := tx.Points().LockPair(ctx, customerID, restaurantID); err != nil {
		return domain.Point{}, 0, err
	}
	p := domain.Point{CustomerID: customerID, RestaurantID: restaurantID, Amount: amount}
	if err := tx.Points().Append(ctx, &p); err != nil {
		return domain.Point{}, 0, err
	}
	bal, err := tx.Points().Balance(ctx, customerID, restaurantID)
	if err != nil {
		return domain.Point{}, 0, err
	}
	return p, bal, nil
}

func (s *LedgerService) Spend(ctx context.Context, customerID, restaurantID, amount int64) (bool, int64, error) {
	if err := checkPair(customerID, restaurantID); err != nil {
		return false, 0, err
	}
	if amount <= 0 {
		return false, 0, domain.NewInvalidArgumentf("points to spend must be positive, got %d", amount)
	}

	var (
		spent bool
		bal   int64
		entry domain.Point
	)
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		if err := tx.Points().LockPair(ctx, customerID, restaurantID); err != nil {
			return err
		}
		var err error
		bal, err = tx.Points().Balance(ctx, customerID, restaurantID)
		if err != nil {
			return err
		}
		if bal < amount {
			return nil
		}
		entry = domain.Point{CustomerID: customerID, RestaurantID: restaurantID, Amount: -amount}
		if err := tx.Points().Append(ctx, &entry); err != nil {
			return err
		}
		spent, bal = true, bal-amount
		return nil
	})
	if err != nil {
		return false, 0, err
	}

	if !spent {
		s.lg.Info("points_spend_rejected", map[string]any{
			"customer_id": customerID, "restaurant_id": restaurantID, "amount": amount, "balance": bal,
		})
		return false, bal, nil
	}
	s.publish(ctx, domain.NewPointsChanged(entry, bal, nil))
	return true, bal, nil
}

func (s *LedgerService) Balance(ctx context.Context, customerID, restaurantID int64) (int64, error) {
	if err := checkPair(customerID, restaurantID); err != nil {
		return 0, err
	}
	var bal int64
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		bal, err = tx.Points().Balance(ctx, customerID, restaurantID)
		return err
	})
	return bal, err
}

func (s *LedgerService) History(ctx context.Context, customerID, restaurantID int64) ([]domain.Point, error) {
	if err := checkPair(customerID, restaurantID); err != nil {
		return nil, err
	}
	var out []domain.Point
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		out, err = tx.Points().List(ctx, customerID, restaurantID)
		return err
	})
	return out, err
}

func (s *LedgerService) publish(ctx context.Context, ev domain.Event) {
	if err := s.pub.Publish(ctx, ev); err != nil {
		s.lg.Error("event_publish_failed", err, map[string]any{"type": ev.Type})
	}
}

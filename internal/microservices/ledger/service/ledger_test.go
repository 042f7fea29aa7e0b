package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"restaurant-pos/internal/common/logger"
	"restaurant-pos/internal/common/mq"
	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/repository/memory"
	"restaurant-pos/internal/repository/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const customer = int64(501)

func newLedger(t *testing.T) (LedgerServiceInterface, storetest.Fixture, *mq.Recorder) {
	t.Helper()
	store := memory.New()
	f := storetest.Seed(t, store)
	rec := &mq.Recorder{}
	return NewLedgerService(store, rec, logger.NewNop()), f, rec
}

func TestEarnAndBalance(t *testing.T) {
	ctx := context.Background()
	l, f, rec := newLedger(t)
	r := f.Restaurant.ID

	bal, err := l.Balance(ctx, customer, r)
	require.NoError(t, err)
	assert.Zero(t, bal)

	p, err := l.Earn(ctx, customer, r, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), p.Amount)
	_, err = l.Earn(ctx, customer, r, 5)
	require.NoError(t, err)

	bal, err = l.Balance(ctx, customer, r)
	require.NoError(t, err)
	assert.Equal(t, int64(15), bal)

	other, err := l.Balance(ctx, customer, f.Other.ID)
	require.NoError(t, err)
	assert.Zero(t, other, "balances are per restaurant")

	assert.Equal(t, []string{domain.EventPointsChanged, domain.EventPointsChanged}, rec.Types())
}

func TestEarnRejectsNonPositive(t *testing.T) {
	ctx := context.Background()
	l, f, _ := newLedger(t)
	for _, amt := range []int64{0, -3} {
		_, err := l.Earn(ctx, customer, f.Restaurant.ID, amt)
		assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err), "amount %d", amt)
	}
	_, err := l.Earn(ctx, 0, f.Restaurant.ID, 5)
	assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err))
}

func TestEarnUnknownRestaurant(t *testing.T) {
	l, _, _ := newLedger(t)
	_, err := l.Earn(context.Background(), customer, 999999, 5)
	assert.True(t, domain.IsNotFound(err))
}

func TestSpend(t *testing.T) {
	tests := []struct {
		name      string
		earned    int64
		spend     int64
		wantSpent bool
		wantBal   int64
	}{
		{"exact balance", 10, 10, true, 0},
		{"below balance", 10, 4, true, 6},
		{"insufficient", 10, 15, false, 10},
		{"empty ledger", 0, 1, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			l, f, _ := newLedger(t)
			r := f.Restaurant.ID
			if tt.earned > 0 {
				_, err := l.Earn(ctx, customer, r, tt.earned)
				require.NoError(t, err)
			}
			before, err := l.History(ctx, customer, r)
			require.NoError(t, err)

			spent, bal, err := l.Spend(ctx, customer, r, tt.spend)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSpent, spent)
			assert.Equal(t, tt.wantBal, bal)

			got, err := l.Balance(ctx, customer, r)
			require.NoError(t, err)
			assert.Equal(t, tt.wantBal, got)

			after, err := l.History(ctx, customer, r)
			require.NoError(t, err)
			if tt.wantSpent {
				require.Len(t, after, len(before)+1)
				assert.Equal(t, -tt.spend, after[0].Amount)
			} else {
				assert.Len(t, after, len(before), "a failed spend writes nothing")
			}
		})
	}
}

func TestSpendRejectsNonPositive(t *testing.T) {
	l, f, _ := newLedger(t)
	_, _, err := l.Spend(context.Background(), customer, f.Restaurant.ID, 0)
	assert.Equal(t, domain.KindInvalidArgument, domain.KindOf(err))
}

func TestConcurrentSpendNeverOverdraws(t *testing.T) {
	ctx := context.Background()
	l, f, _ := newLedger(t)
	r := f.Restaurant.ID
	_, err := l.Earn(ctx, customer, r, 100)
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int64
	)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			spent, _, err := l.Spend(ctx, customer, r, 7)
			if assert.NoError(t, err) && spent {
				succeeded.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(14), succeeded.Load(), "100 points cover fourteen spends of 7")
	bal, err := l.Balance(ctx, customer, r)
	require.NoError(t, err)
	assert.Equal(t, int64(2), bal)

	entries, err := l.History(ctx, customer, r)
	require.NoError(t, err)
	var sum int64
	for _, p := range entries {
		sum += p.Amount
	}
	assert.Equal(t, bal, sum)
}

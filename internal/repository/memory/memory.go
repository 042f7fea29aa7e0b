// Package memory is an in-process Store. Transactions run one at a time
// against a copy of the data that replaces the live copy on commit.
package memory

import (
	"context"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/repository"
)

type state struct {
	seq         int64
	restaurants map[int64]domain.Restaurant
	categories  map[int64]domain.Category
	employees   map[int64]domain.Employee
	tables      map[int64]domain.Table
	menuItems   map[int64]domain.MenuItem
	orders      map[int64]domain.Order
	items       map[int64]domain.OrderItem
	history     []domain.StatusHistory
	points      []domain.Point
}

func newState() *state {
	return &state{
		restaurants: map[int64]domain.Restaurant{},
		categories:  map[int64]domain.Category{},
		employees:   map[int64]domain.Employee{},
		tables:      map[int64]domain.Table{},
		menuItems:   map[int64]domain.MenuItem{},
		orders:      map[int64]domain.Order{},
		items:       map[int64]domain.OrderItem{},
	}
}

func (s *state) clone() *state {
	return &state{
		seq:         s.seq,
		restaurants: maps.Clone(s.restaurants),
		categories:  maps.Clone(s.categories),
		employees:   maps.Clone(s.employees),
		tables:      maps.Clone(s.tables),
		menuItems:   maps.Clone(s.menuItems),
		orders:      maps.Clone(s.orders),
		items:       maps.Clone(s.items),
		history:     slices.Clone(s.history),
		points:      slices.Clone(s.points),
	}
}

func (s *state) nextID() int64 {
	s.seq++
	return s.seq
}

type Store struct {
	mu   sync.Mutex
	data *state
	now  func() time.Time
}

func New() *Store {
	return &Store{data: newState(), now: func() time.Time { return time.Now().UTC() }}
}

// WithClock replaces the time source; used by tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.clone()
	if err := fn(ctx, &tx{st: work, now: s.now}); err != nil {
		return err
	}
	s.data = work
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) Close() {}

type tx struct {
	st  *state
	now func() time.Time
}

func (t *tx) Catalog() repository.CatalogRepositoryInterface { return catalogRepo{t} }
func (t *tx) Orders() repository.OrderRepositoryInterface    { return orderRepo{t} }
func (t *tx) Points() repository.PointRepositoryInterface    { return pointRepo{t} }

func sortedValues[V any](m map[int64]V, keep func(V) bool) []V {
	ids := make([]int64, 0, len(m))
	for id, v := range m {
		if keep(v) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]V, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}

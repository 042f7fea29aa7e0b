// Package postgres implements repository.Store on a pgx pool.
package postgres

import (
	"context"

	"restaurant-pos/internal/common/db"
	"restaurant-pos/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type Store struct {
	conn *db.Conn
}

func New(conn *db.Conn) *Store { return &Store{conn: conn} }

// WithTx runs fn at READ COMMITTED. Writers that must not interleave take
// row locks (orders) or advisory locks (points) inside fn.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return db.Translate(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, &repos{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return db.Translate(err, "commit transaction")
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return s.conn.Ping(ctx) }

func (s *Store) Close() { s.conn.Close() }

type repos struct{ tx pgx.Tx }

func (r *repos) Catalog() repository.CatalogRepositoryInterface { return &CatalogRepository{tx: r.tx} }
func (r *repos) Orders() repository.OrderRepositoryInterface    { return &OrderRepository{tx: r.tx} }
func (r *repos) Points() repository.PointRepositoryInterface    { return &PointRepository{tx: r.tx} }

func parseMoney(s string) (decimal.Decimal, error) { return decimal.NewFromString(s) }

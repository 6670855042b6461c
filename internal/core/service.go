package core

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/suryamb/pricing-api/internal/config"
)

// Service owns all database access for the pricing API. Handlers talk to
// it through small method calls; it never leaks pgx types across the
// boundary except via the shared row and result structs.
type Service struct {
	pool    *pgxpool.Pool
	db      DBTX
	begin   Beginner
	timeout time.Duration
}

func NewService(pool *pgxpool.Pool, cfg *config.Config) *Service {
	return &Service{
		pool:    pool,
		db:      pool,
		begin:   poolBeginner{pool},
		timeout: cfg.Upload.Timeout,
	}
}

// poolBeginner adapts *pgxpool.Pool to the Beginner interface so the batch
// updater can be exercised against a fake in tests.
type poolBeginner struct {
	pool *pgxpool.Pool
}

func (b poolBeginner) Begin(ctx context.Context) (Tx, error) {
	tx, err := b.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// Ping verifies database connectivity.
func (s *Service) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

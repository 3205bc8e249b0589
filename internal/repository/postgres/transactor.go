package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DaniellaNwagu/credit-risk/internal/domain/loan"
)

// Transactor commits a loan write and its outbox event together.
type Transactor struct {
	pool *pgxpool.Pool
}

func NewTransactor(pool *pgxpool.Pool) *Transactor {
	return &Transactor{pool: pool}
}

// InTx runs fn against repositories bound to a single transaction. Any error
// from fn rolls both writes back.
func (t *Transactor) InTx(ctx context.Context, fn func(loans loan.Repository, outbox loan.OutboxRepository) error) error {
	return pgx.BeginFunc(ctx, t.pool, func(tx pgx.Tx) error {
		return fn(&LoanRepository{db: tx}, &OutboxRepository{db: tx})
	})
}

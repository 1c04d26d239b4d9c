package store

import (
	"context"

	"github.com/Harshitk-cp/orgdesk/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgTransactor implements domain.Transactor over a pgx pool.
type PgTransactor struct {
	pool *pgxpool.Pool
}

func NewPgTransactor(pool *pgxpool.Pool) *PgTransactor {
	return &PgTransactor{pool: pool}
}

func (t *PgTransactor) WithinTx(ctx context.Context, fn func(s domain.Stores) error) error {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	stores := domain.Stores{
		Tenants: NewTenantStore(tx),
		Teams:   NewTeamStore(tx),
		Users:   NewUserStore(tx),
	}
	if err := fn(stores); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

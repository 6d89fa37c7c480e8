package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories expone repositorios ligados a una misma transaccion.
type Repositories interface {
	Users() UserRepository
	Profiles() ProfileRepository
}

// TxManager ejecuta una funcion dentro de una transaccion.
// Si fn devuelve error se hace rollback, si no commit.
type TxManager interface {
	WithTx(ctx context.Context, fn func(repos Repositories) error) error
}

type pgRepositories struct {
	db DBTX
}

func (r pgRepositories) Users() UserRepository       { return NewPgUserRepository(r.db) }
func (r pgRepositories) Profiles() ProfileRepository { return NewPgProfileRepository(r.db) }

// PgTxManager implementa TxManager sobre pgxpool.
type PgTxManager struct {
	pool *pgxpool.Pool
}

func NewPgTxManager(pool *pgxpool.Pool) *PgTxManager {
	return &PgTxManager{pool: pool}
}

func (m *PgTxManager) WithTx(ctx context.Context, fn func(repos Repositories) error) (err error) {
	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(pgRepositories{db: tx}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

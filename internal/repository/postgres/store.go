package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"quartermaster/internal/domain"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the same
// repository code serves auto-commit calls and transactional units of work.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	pool        *pgxpool.Pool
	devices     *DeviceRepo
	maintenance *MaintenanceRepo
	history     *HistoryRepo
}

func NewStore(pool *pgxpool.Pool) *Store {
	return newStore(pool, pool)
}

func newStore(pool *pgxpool.Pool, db querier) *Store {
	return &Store{
		pool:        pool,
		devices:     &DeviceRepo{db: db},
		maintenance: &MaintenanceRepo{db: db},
		history:     &HistoryRepo{db: db},
	}
}

func (s *Store) Devices() domain.DeviceRepository          { return s.devices }
func (s *Store) Maintenance() domain.MaintenanceRepository { return s.maintenance }
func (s *Store) History() domain.HistoryRepository         { return s.history }

// InTx runs fn against repositories bound to one transaction. The transaction
// commits iff fn returns nil; any error rolls back every write.
func (s *Store) InTx(ctx context.Context, fn func(domain.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(newStore(s.pool, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

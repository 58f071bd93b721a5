package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/claims"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/logging"
)

// PostgresStore keeps claims in a shared Postgres database.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to dsn and ensures the schema exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	timer := logging.StartTimer(logging.CategoryStore, "NewPostgresStore")
	defer timer.Stop()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create claims schema: %w", err)
	}
	logging.Store("PostgresStore connected")
	return &PostgresStore{pool: pool}, nil
}

// List returns every claim in insertion order.
func (s *PostgresStore) List(ctx context.Context) ([]claims.Record, error) {
	rows, err := s.pool.Query(ctx, rebind(qListClaims))
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	defer rows.Close()

	var out []claims.Record
	for rows.Next() {
		rec, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("scan claim: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	return out, nil
}

// Put inserts or replaces rec.
func (s *PostgresStore) Put(ctx context.Context, rec claims.Record) error {
	if rec.ID == "" {
		return fmt.Errorf("put claim: empty id")
	}
	if _, err := s.pool.Exec(ctx, rebind(qUpsertClaim), claimArgs(rec)...); err != nil {
		return fmt.Errorf("put claim %s: %w", rec.ID, err)
	}
	return nil
}

// SetStatus moves claim id to status. The row is locked for the duration of
// the transaction so concurrent desks cannot both finish the same claim.
func (s *PostgresStore) SetStatus(ctx context.Context, id string, status claims.Status, date string) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var from string
	if err = tx.QueryRow(ctx, rebind(qClaimStatus+" FOR UPDATE"), id).Scan(&from); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %s", claims.ErrNotFound, id)
		}
		return fmt.Errorf("read status of %s: %w", id, err)
	}
	if err = claims.CheckTransition(id, claims.Status(from), status); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, rebind(qSetStatus), statusArgs(id, status, date)...)
	if err != nil {
		return fmt.Errorf("update status of %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		err = fmt.Errorf("%w: %s", claims.ErrNotFound, id)
		return err
	}
	if _, err = tx.Exec(ctx, rebind(qLogStatus), id, from, string(status)); err != nil {
		return fmt.Errorf("log status of %s: %w", id, err)
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	logging.Store("claim %s: %s -> %s", id, from, status)
	return nil
}

// StatusLog returns the recorded transitions of claim id, oldest first.
func (s *PostgresStore) StatusLog(ctx context.Context, id string) ([]Transition, error) {
	rows, err := s.pool.Query(ctx, rebind(qStatusLog), id)
	if err != nil {
		return nil, fmt.Errorf("status log of %s: %w", id, err)
	}
	defer rows.Close()

	var out []Transition
	for rows.Next() {
		var from, to string
		if err := rows.Scan(&from, &to); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		out = append(out, Transition{From: claims.Status(from), To: claims.Status(to)})
	}
	return out, rows.Err()
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/claims"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/logging"
)

// SQLiteStore keeps claims in a local SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// NewSQLiteStore opens (creating if needed) the database at path. ":memory:"
// gives a private in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	timer := logging.StartTimer(logging.CategoryStore, "NewSQLiteStore")
	defer timer.Stop()

	logging.Store("Initializing SQLiteStore at path: %s", path)

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			logging.Get(logging.CategoryStore).Error("Failed to create directory %s: %v", dir, err)
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to open database at %s: %v", path, err)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}

	s := &SQLiteStore{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to initialize schema: %v", err)
		db.Close()
		return nil, err
	}
	logging.StoreDebug("Database schema initialized successfully")
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	if _, err := s.db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("failed to create claims schema: %w", err)
	}
	return nil
}

// List returns every claim in insertion order.
func (s *SQLiteStore) List(ctx context.Context) ([]claims.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, qListClaims)
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
	logging.StoreDebug("SQLiteStore listed %d claims", len(out))
	return out, nil
}

// Put inserts rec or replaces the stored claim with the same id, keeping its
// position.
func (s *SQLiteStore) Put(ctx context.Context, rec claims.Record) error {
	if rec.ID == "" {
		return fmt.Errorf("put claim: empty id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, qUpsertClaim, claimArgs(rec)...); err != nil {
		return fmt.Errorf("put claim %s: %w", rec.ID, err)
	}
	return nil
}

// SetStatus moves claim id to status inside a transaction and records the
// change in claim_status_log.
func (s *SQLiteStore) SetStatus(ctx context.Context, id string, status claims.Status, date string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var from claims.Status
	if err = tx.QueryRowContext(ctx, qClaimStatus, id).Scan(&from); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", claims.ErrNotFound, id)
		}
		return fmt.Errorf("read status of %s: %w", id, err)
	}
	if err = claims.CheckTransition(id, from, status); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, qSetStatus, statusArgs(id, status, date)...); err != nil {
		return fmt.Errorf("update status of %s: %w", id, err)
	}
	if _, err = tx.ExecContext(ctx, qLogStatus, id, string(from), string(status)); err != nil {
		return fmt.Errorf("log status of %s: %w", id, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	logging.Store("claim %s: %s -> %s", id, from, status)
	return nil
}

// StatusLog returns the recorded transitions of claim id, oldest first.
func (s *SQLiteStore) StatusLog(ctx context.Context, id string) ([]Transition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, qStatusLog, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transition
	for rows.Next() {
		var t Transition
		if err := rows.Scan(&t.From, &t.To); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Transition is one row of the status log.
type Transition struct {
	From claims.Status
	To   claims.Status
}

// StatusLogger is implemented by stores that record status transitions.
type StatusLogger interface {
	StatusLog(ctx context.Context, id string) ([]Transition, error)
}

// Package sqlite is the default Store backend: a pure-Go, WASM-hosted
// SQLite via github.com/ncruces/go-sqlite3, chosen for its
// driver choice.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofrs/flock"

	"github.com/taskgraph-dev/tg/internal/storage"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx, letting every query method
// below run unmodified whether or not it is part of an ongoing transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements storage.Store over a single SQLite database file.
type Store struct {
	db  *sql.DB
	q   dbtx
	log *slog.Logger
}

var _ storage.Store = (*Store)(nil)

// New opens (creating if absent) the database at path, guards the
// first-open schema bootstrap with an advisory file lock so two racing
// processes don't both try to CREATE TABLE, applies the schema, then runs
// any pending forward-only migrations.
func New(ctx context.Context, path string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}

	lock := flock.New(path + ".lock")
	lockCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	locked, err := lock.TryLockContext(lockCtx, 50*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("acquiring bootstrap lock: %w", err)
	}
	if locked {
		defer func() { _ = lock.Unlock() }()
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: one writer; serializes through the Go pool.

	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if locked {
		if _, err := db.ExecContext(ctx, schema); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("applying schema: %w", err)
		}
		if err := runMigrations(db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	log.Debug("sqlite store opened", "path", path)
	return &Store{db: db, q: db, log: log}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// WithTx runs fn against a Store bound to a single transaction. A context
// cancellation rolls the transaction back: a cancelled write must leave
// storage unchanged.
func (s *Store) WithTx(ctx context.Context, fn func(tx storage.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	scoped := &Store{db: s.db, q: tx, log: s.log}
	if err := fn(scoped); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := ctx.Err(); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

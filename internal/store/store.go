// Package store is the embedded metadata and configuration store for map
// layers, their grouping hierarchy, style presets, and operational
// telemetry. One SQLite database, one logical writer: every operation runs
// synchronously against a single connection pool, and multi-statement
// mutations (group deletion, bulk update, import) are wrapped in database
// transactions. The store never logs its own mutations to the audit
// tables — callers append audit records through separate calls.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Store owns the six layer-store tables. Construct with Open, release with
// Close. Safe for concurrent use; writers are serialized by SQLite's
// single-writer model and readers proceed concurrently under WAL.
type Store struct {
	db   *sql.DB
	log  *zap.Logger
	path string
}

// Options tunes Open. The zero value is usable.
type Options struct {
	// Logger receives structured schema/lifecycle events. Defaults to a
	// no-op logger.
	Logger *zap.Logger
}

// dbtx is the subset of *sql.DB and *sql.Tx the statement layer needs, so
// single-row operations can run standalone or inside a transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open opens (creating if necessary) the database at path and ensures the
// schema is in place. Foreign keys are enforced and the journal runs in
// WAL mode with relaxed full-sync, the right durability point for a
// single-writer embedded store.
func Open(path string, opts Options) (*Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close() // ignore error
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}

	s := &Store{db: db, log: logger, path: path}
	if err := s.ensureSchema(context.Background()); err != nil {
		_ = db.Close() // ignore error
		return nil, err
	}

	return s, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path the store was opened with.
func (s *Store) Path() string { return s.path }

// withTx runs fn inside a transaction, committing on nil and rolling back
// on error. The deferred rollback after commit is a no-op.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // safe to ignore

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

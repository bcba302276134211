package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"go.uber.org/zap"
)

// The migration script is compiled into the binary, so there is no runtime
// path discovery and no "script missing" failure mode.
//
//go:embed migrations/0001_init.sql
var migrationInit string

// schemaVersion is the version recorded after the init script applies.
const schemaVersion = 1

// ensureSchema applies the migration script exactly once. Presence of the
// layers table short-circuits, making repeat calls no-ops. A failed apply
// is fatal: the store does not start on a half-built schema (the script
// runs inside a transaction, so nothing partial survives either way).
func (s *Store) ensureSchema(ctx context.Context) error {
	exists, err := tableExists(ctx, s.db, "layers")
	if err != nil {
		return &SchemaError{Err: fmt.Errorf("probe schema: %w", err)}
	}
	if exists {
		s.log.Debug("schema present", zap.Int("version", schemaVersion))
		return nil
	}

	s.log.Info("applying layer schema", zap.Int("version", schemaVersion))

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, migrationInit); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO schema_migrations (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return nil
	})
	if err != nil {
		return &SchemaError{Err: err}
	}
	return nil
}

// tableExists probes sqlite_master for a table.
func tableExists(ctx context.Context, db dbtx, name string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

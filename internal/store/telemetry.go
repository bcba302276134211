package store

import (
	"context"
	"database/sql"

	"github.com/strataworks/layerd/api"
)

// telemetryLimit caps every telemetry read at the most recent records.
const telemetryLimit = 100

// layerFilter appends the optional per-layer predicate. A nil layerID
// means "no filter"; a non-nil one compares with IS so records with a
// null layer reference behave under 3-valued logic the same way group
// lookups do.
func layerFilter(query string, layerID *string, args []any) (string, []any) {
	if layerID == nil {
		return query, args
	}
	return query + " AND layer_id IS ?", append(args, *layerID)
}

// LogOperation appends one audit record. The store never calls this on
// its own behalf; audit entries come only from callers.
func (s *Store) LogOperation(ctx context.Context, draft api.OperationDraft) error {
	details, err := encodeDoc("details", draft.Details)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO layer_operations (operation, layer_id, details, user_id, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		draft.Operation, nullable(draft.LayerID), details, draft.UserID, now())
	if err != nil {
		return &ConstraintError{Op: "insert operation", Err: err}
	}
	return nil
}

// GetOperations returns the most recent audit records, newest first,
// optionally filtered to one layer.
func (s *Store) GetOperations(ctx context.Context, layerID *string) ([]api.LayerOperation, error) {
	query := `SELECT id, operation, layer_id, details, user_id, created_at
		FROM layer_operations WHERE 1 = 1`
	args := []any{}
	query, args = layerFilter(query, layerID, args)
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, telemetryLimit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &ConstraintError{Op: "query operations", Err: err}
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	ops := []api.LayerOperation{}
	for rows.Next() {
		var (
			op              api.LayerOperation
			layer, details  sql.NullString
			userID          sql.NullString
		)
		if err := rows.Scan(&op.ID, &op.Operation, &layer, &details, &userID, &op.Timestamp); err != nil {
			return nil, err
		}
		op.LayerID = fromNull(layer)
		op.UserID = userID.String
		if details.Valid {
			if op.Details, err = decodeDoc("details", details.String); err != nil {
				return nil, err
			}
		}
		ops = append(ops, op)
	}
	return ops, rows.Err()
}

// LogError appends one error record, unresolved by default.
func (s *Store) LogError(ctx context.Context, draft api.ErrorDraft) error {
	details, err := encodeDoc("details", draft.Details)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO layer_errors (code, message, details, layer_id, resolved, created_at)
		VALUES (?, ?, ?, ?, 0, ?)`,
		draft.Code, draft.Message, details, nullable(draft.LayerID), now())
	if err != nil {
		return &ConstraintError{Op: "insert error", Err: err}
	}
	return nil
}

// GetErrors returns the most recent unresolved errors, newest first.
// Resolved records never reappear through this read.
func (s *Store) GetErrors(ctx context.Context, layerID *string) ([]api.LayerError, error) {
	query := `SELECT id, code, message, details, layer_id, resolved, created_at
		FROM layer_errors WHERE resolved = 0`
	args := []any{}
	query, args = layerFilter(query, layerID, args)
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, telemetryLimit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &ConstraintError{Op: "query errors", Err: err}
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	errs := []api.LayerError{}
	for rows.Next() {
		var (
			e              api.LayerError
			layer, details sql.NullString
			resolved       int
		)
		if err := rows.Scan(&e.ID, &e.Code, &e.Message, &details, &layer, &resolved, &e.Timestamp); err != nil {
			return nil, err
		}
		e.LayerID = fromNull(layer)
		e.Resolved = resolved != 0
		if details.Valid {
			if e.Details, err = decodeDoc("details", details.String); err != nil {
				return nil, err
			}
		}
		errs = append(errs, e)
	}
	return errs, rows.Err()
}

// ClearErrors soft-deletes: matching unresolved records are marked
// resolved. History is never erased, and there is no way back to
// unresolved through this store.
func (s *Store) ClearErrors(ctx context.Context, layerID *string) error {
	query := "UPDATE layer_errors SET resolved = 1 WHERE resolved = 0"
	args := []any{}
	query, args = layerFilter(query, layerID, args)

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return &ConstraintError{Op: "clear errors", Err: err}
	}
	return nil
}

// RecordPerformanceMetrics appends one timestamped sample.
func (s *Store) RecordPerformanceMetrics(ctx context.Context, draft api.MetricsDraft) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO layer_performance_metrics
			(layer_id, load_time_ms, render_time_ms, memory_mb, feature_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		draft.LayerID, draft.LoadTimeMs, draft.RenderTimeMs,
		draft.MemoryMB, draft.FeatureCount, now())
	if err != nil {
		return &ConstraintError{Op: "insert metrics", Err: err}
	}
	return nil
}

// GetPerformanceMetrics returns the most recent samples, newest first.
func (s *Store) GetPerformanceMetrics(ctx context.Context, layerID *string) ([]api.PerformanceMetrics, error) {
	query := `SELECT id, layer_id, load_time_ms, render_time_ms, memory_mb, feature_count, created_at
		FROM layer_performance_metrics WHERE 1 = 1`
	args := []any{}
	query, args = layerFilter(query, layerID, args)
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, telemetryLimit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &ConstraintError{Op: "query metrics", Err: err}
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	metrics := []api.PerformanceMetrics{}
	for rows.Next() {
		var (
			m       api.PerformanceMetrics
			memory  sql.NullFloat64
			feature sql.NullInt64
		)
		if err := rows.Scan(&m.ID, &m.LayerID, &m.LoadTimeMs, &m.RenderTimeMs,
			&memory, &feature, &m.Timestamp); err != nil {
			return nil, err
		}
		if memory.Valid {
			v := memory.Float64
			m.MemoryMB = &v
		}
		if feature.Valid {
			v := feature.Int64
			m.FeatureCount = &v
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

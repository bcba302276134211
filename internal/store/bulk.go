package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/strataworks/layerd/api"
)

// BulkUpdateLayers applies every change through the single-layer update
// path inside one transaction and returns the updated layers in batch
// order. All-or-nothing: a failure on any item, including a not-found id,
// rolls back the entire batch. This is a stronger guarantee than looping
// over UpdateLayer, which would leave earlier items applied.
func (s *Store) BulkUpdateLayers(ctx context.Context, changes []api.BulkLayerChange) ([]api.Layer, error) {
	updated := make([]api.Layer, 0, len(changes))
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, c := range changes {
			l, err := updateLayer(ctx, tx, c.ID, c.Changes)
			if err != nil {
				return fmt.Errorf("bulk update layer %s: %w", c.ID, err)
			}
			updated = append(updated, *l)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/strataworks/layerd/api"
)

// layerColumns is the canonical select list; scanLayer depends on this
// order.
const layerColumns = `id, name, type, source_id, source_config, style_config,
	visible, opacity, z_index, metadata, group_id, locked, created_by,
	created_at, updated_at`

// layerOrder is the draw-stack ordering used by every layer read: higher
// zIndex first, newer first among equals.
const layerOrder = "ORDER BY z_index DESC, created_at DESC"

func scanLayer(row rowScanner) (*api.Layer, error) {
	var (
		l                         api.Layer
		srcDoc, styleDoc, metaDoc string
		visible, locked           int
		groupID, createdBy        sql.NullString
	)
	err := row.Scan(&l.ID, &l.Name, &l.Type, &l.SourceID, &srcDoc, &styleDoc,
		&visible, &l.Opacity, &l.ZIndex, &metaDoc, &groupID, &locked, &createdBy,
		&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}

	l.Visible = visible != 0
	l.Locked = locked != 0
	l.GroupID = fromNull(groupID)
	l.CreatedBy = createdBy.String

	if l.SourceConfig, err = decodeDoc("sourceConfig", srcDoc); err != nil {
		return nil, err
	}
	if l.StyleConfig, err = decodeDoc("styleConfig", styleDoc); err != nil {
		return nil, err
	}
	if l.Metadata, err = decodeDoc("metadata", metaDoc); err != nil {
		return nil, err
	}
	return &l, nil
}

func queryLayers(ctx context.Context, q dbtx, query string, args ...any) ([]api.Layer, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &ConstraintError{Op: "query layers", Err: err}
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	layers := []api.Layer{}
	for rows.Next() {
		l, err := scanLayer(rows)
		if err != nil {
			return nil, err
		}
		layers = append(layers, *l)
	}
	return layers, rows.Err()
}

// CreateLayer assigns an identifier and timestamps, persists the draft,
// and returns the full entity. No validation beyond serialization: a
// structured-document field that cannot encode fails the whole call.
func (s *Store) CreateLayer(ctx context.Context, draft api.LayerDraft) (*api.Layer, error) {
	srcDoc, err := encodeDoc("sourceConfig", draft.SourceConfig)
	if err != nil {
		return nil, err
	}
	styleDoc, err := encodeDoc("styleConfig", draft.StyleConfig)
	if err != nil {
		return nil, err
	}
	metaDoc, err := encodeDoc("metadata", draft.Metadata)
	if err != nil {
		return nil, err
	}

	l := &api.Layer{
		ID:           uuid.NewString(),
		Name:         draft.Name,
		Type:         draft.Type,
		SourceID:     draft.SourceID,
		SourceConfig: draft.SourceConfig,
		StyleConfig:  draft.StyleConfig,
		Visible:      draft.Visible,
		Opacity:      draft.Opacity,
		ZIndex:       draft.ZIndex,
		Metadata:     draft.Metadata,
		GroupID:      draft.GroupID,
		Locked:       draft.Locked,
		CreatedBy:    draft.CreatedBy,
		CreatedAt:    now(),
	}
	l.UpdatedAt = l.CreatedAt
	if l.SourceConfig == nil {
		l.SourceConfig = map[string]any{}
	}
	if l.StyleConfig == nil {
		l.StyleConfig = map[string]any{}
	}
	if l.Metadata == nil {
		l.Metadata = map[string]any{}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO layers (`+layerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.Name, l.Type, l.SourceID, srcDoc, styleDoc,
		boolToInt(l.Visible), l.Opacity, l.ZIndex, metaDoc,
		nullable(l.GroupID), boolToInt(l.Locked), l.CreatedBy,
		l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return nil, &ConstraintError{Op: "insert layer", Err: err}
	}

	return l, nil
}

// GetLayerByID returns the layer, or (nil, nil) when absent.
func (s *Store) GetLayerByID(ctx context.Context, id string) (*api.Layer, error) {
	return getLayer(ctx, s.db, id)
}

func getLayer(ctx context.Context, q dbtx, id string) (*api.Layer, error) {
	l, err := scanLayer(q.QueryRowContext(ctx,
		"SELECT "+layerColumns+" FROM layers WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// GetAllLayers returns every layer in draw-stack order.
func (s *Store) GetAllLayers(ctx context.Context) ([]api.Layer, error) {
	return queryLayers(ctx, s.db,
		"SELECT "+layerColumns+" FROM layers "+layerOrder)
}

// GetLayersByType returns layers of one type in draw-stack order.
func (s *Store) GetLayersByType(ctx context.Context, t api.LayerType) ([]api.Layer, error) {
	return queryLayers(ctx, s.db,
		"SELECT "+layerColumns+" FROM layers WHERE type = ? "+layerOrder, t)
}

// GetLayersByGroup returns the layers owned by groupID. A nil groupID
// selects the ungrouped layers, not all layers: the predicate is the
// 3-valued-logic-safe `group_id IS ?`, never a truthy check.
func (s *Store) GetLayersByGroup(ctx context.Context, groupID *string) ([]api.Layer, error) {
	return queryLayers(ctx, s.db,
		"SELECT "+layerColumns+" FROM layers WHERE group_id IS ? "+layerOrder,
		nullable(groupID))
}

// UpdateLayer overwrites exactly the columns the patch carries; unset
// fields are untouched. Not-found is detected by re-reading after the
// write attempt, per the operation contract — the caller cannot tell
// "nothing changed" from "row missing" any other way.
func (s *Store) UpdateLayer(ctx context.Context, id string, patch api.LayerPatch) (*api.Layer, error) {
	return updateLayer(ctx, s.db, id, patch)
}

// updateLayer is the single-layer update path; BulkUpdateLayers routes
// every batch item through it on one transaction.
func updateLayer(ctx context.Context, q dbtx, id string, patch api.LayerPatch) (*api.Layer, error) {
	var (
		sets []string
		args []any
	)
	set := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if v, ok := patch.Name.Get(); ok {
		set("name", v)
	}
	if v, ok := patch.Type.Get(); ok {
		set("type", string(v))
	}
	if v, ok := patch.SourceID.Get(); ok {
		set("source_id", v)
	}
	if v, ok := patch.SourceConfig.Get(); ok {
		doc, err := encodeDoc("sourceConfig", v)
		if err != nil {
			return nil, err
		}
		set("source_config", doc)
	}
	if v, ok := patch.StyleConfig.Get(); ok {
		doc, err := encodeDoc("styleConfig", v)
		if err != nil {
			return nil, err
		}
		set("style_config", doc)
	}
	if v, ok := patch.Visible.Get(); ok {
		set("visible", boolToInt(v))
	}
	if v, ok := patch.Opacity.Get(); ok {
		set("opacity", v)
	}
	if v, ok := patch.ZIndex.Get(); ok {
		set("z_index", v)
	}
	if v, ok := patch.Metadata.Get(); ok {
		doc, err := encodeDoc("metadata", v)
		if err != nil {
			return nil, err
		}
		set("metadata", doc)
	}
	if v, ok := patch.GroupID.Get(); ok {
		set("group_id", nullable(v))
	}
	if v, ok := patch.Locked.Get(); ok {
		set("locked", boolToInt(v))
	}
	if v, ok := patch.CreatedBy.Get(); ok {
		set("created_by", v)
	}

	// updated_at moves on every mutation, even an otherwise-empty patch.
	set("updated_at", now())
	args = append(args, id)

	query := fmt.Sprintf("UPDATE layers SET %s WHERE id = ?", strings.Join(sets, ", "))
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return nil, &ConstraintError{Op: "update layer", Err: err}
	}

	l, err := getLayer(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, &NotFoundError{Kind: "layer", ID: id}
	}
	return l, nil
}

// DeleteLayer hard-deletes. Returns whether a row was actually removed.
func (s *Store) DeleteLayer(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM layers WHERE id = ?", id)
	if err != nil {
		return false, &ConstraintError{Op: "delete layer", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

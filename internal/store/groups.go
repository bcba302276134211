package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/strataworks/layerd/api"
)

const groupColumns = `id, name, parent_id, sort_order, expanded, color,
	description, created_at, updated_at`

func scanGroup(row rowScanner) (*api.Group, error) {
	var (
		g                 api.Group
		expanded          int
		parentID          sql.NullString
		color, descr      sql.NullString
	)
	err := row.Scan(&g.ID, &g.Name, &parentID, &g.Order, &expanded, &color,
		&descr, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	g.ParentID = fromNull(parentID)
	g.Expanded = expanded != 0
	g.Color = color.String
	g.Description = descr.String
	g.LayerIDs = []string{}
	return &g, nil
}

// memberIDs computes a group's layer id list from the layer table, in
// draw-stack order. layerIds is derived on every read, never stored.
func memberIDs(ctx context.Context, q dbtx, groupID string) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT id FROM layers WHERE group_id IS ? "+layerOrder, groupID)
	if err != nil {
		return nil, &ConstraintError{Op: "query group members", Err: err}
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CreateGroup assigns an identifier and timestamps and persists the draft.
func (s *Store) CreateGroup(ctx context.Context, draft api.GroupDraft) (*api.Group, error) {
	return createGroup(ctx, s.db, draft)
}

func createGroup(ctx context.Context, q dbtx, draft api.GroupDraft) (*api.Group, error) {
	g := &api.Group{
		ID:          uuid.NewString(),
		Name:        draft.Name,
		ParentID:    draft.ParentID,
		Order:       draft.Order,
		Expanded:    draft.Expanded,
		Color:       draft.Color,
		Description: draft.Description,
		LayerIDs:    []string{},
		CreatedAt:   now(),
	}
	g.UpdatedAt = g.CreatedAt

	_, err := q.ExecContext(ctx, `
		INSERT INTO layer_groups (`+groupColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Name, nullable(g.ParentID), g.Order, boolToInt(g.Expanded),
		g.Color, g.Description, g.CreatedAt, g.UpdatedAt)
	if err != nil {
		return nil, &ConstraintError{Op: "insert group", Err: err}
	}
	return g, nil
}

// GetGroupByID returns the group with its derived member list, or
// (nil, nil) when absent.
func (s *Store) GetGroupByID(ctx context.Context, id string) (*api.Group, error) {
	g, err := scanGroup(s.db.QueryRowContext(ctx,
		"SELECT "+groupColumns+" FROM layer_groups WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if g.LayerIDs, err = memberIDs(ctx, s.db, g.ID); err != nil {
		return nil, err
	}
	return g, nil
}

// GetAllGroups returns every group ordered by display order. Member lists
// are filled from one pass over the layer table.
func (s *Store) GetAllGroups(ctx context.Context) ([]api.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+groupColumns+" FROM layer_groups ORDER BY sort_order ASC, created_at ASC")
	if err != nil {
		return nil, &ConstraintError{Op: "query groups", Err: err}
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	groups := []api.Group{}
	index := map[string]int{}
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		index[g.ID] = len(groups)
		groups = append(groups, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lrows, err := s.db.QueryContext(ctx,
		"SELECT id, group_id FROM layers WHERE group_id IS NOT NULL "+layerOrder)
	if err != nil {
		return nil, &ConstraintError{Op: "query group members", Err: err}
	}
	defer func() { _ = lrows.Close() }() // safe to ignore

	for lrows.Next() {
		var layerID, groupID string
		if err := lrows.Scan(&layerID, &groupID); err != nil {
			return nil, err
		}
		if i, ok := index[groupID]; ok {
			groups[i].LayerIDs = append(groups[i].LayerIDs, layerID)
		}
	}
	return groups, lrows.Err()
}

// UpdateGroup mirrors UpdateLayer: present fields overwrite, absent fields
// are preserved, not-found surfaces from the re-read.
func (s *Store) UpdateGroup(ctx context.Context, id string, patch api.GroupPatch) (*api.Group, error) {
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
	if v, ok := patch.ParentID.Get(); ok {
		set("parent_id", nullable(v))
	}
	if v, ok := patch.Order.Get(); ok {
		set("sort_order", v)
	}
	if v, ok := patch.Expanded.Get(); ok {
		set("expanded", boolToInt(v))
	}
	if v, ok := patch.Color.Get(); ok {
		set("color", v)
	}
	if v, ok := patch.Description.Get(); ok {
		set("description", v)
	}
	set("updated_at", now())
	args = append(args, id)

	query := fmt.Sprintf("UPDATE layer_groups SET %s WHERE id = ?", strings.Join(sets, ", "))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, &ConstraintError{Op: "update group", Err: err}
	}

	g, err := s.GetGroupByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, &NotFoundError{Kind: "group", ID: id}
	}
	return g, nil
}

// DeleteGroup removes a group transactionally. With moveLayersTo, every
// member layer is reassigned to that group in the same transaction as the
// delete; the target must exist or the whole operation rolls back. Without
// it, members are orphaned (group reference set to null), never deleted.
// Returns whether the group actually existed.
func (s *Store) DeleteGroup(ctx context.Context, id string, moveLayersTo *string) (bool, error) {
	existed := false
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var one int
		err := tx.QueryRowContext(ctx,
			"SELECT 1 FROM layer_groups WHERE id = ?", id).Scan(&one)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}
		existed = true

		if moveLayersTo != nil {
			err := tx.QueryRowContext(ctx,
				"SELECT 1 FROM layer_groups WHERE id = ?", *moveLayersTo).Scan(&one)
			if err == sql.ErrNoRows {
				return &NotFoundError{Kind: "group", ID: *moveLayersTo}
			}
			if err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx,
			"UPDATE layers SET group_id = ?, updated_at = ? WHERE group_id IS ?",
			nullable(moveLayersTo), now(), id); err != nil {
			return &ConstraintError{Op: "reassign layers", Err: err}
		}

		if _, err := tx.ExecContext(ctx,
			"DELETE FROM layer_groups WHERE id = ?", id); err != nil {
			return &ConstraintError{Op: "delete group", Err: err}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return existed, nil
}

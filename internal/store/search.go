package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/strataworks/layerd/api"
)

// predicate is one typed search filter lowered to a parameterized clause.
// Caller-supplied values only ever travel through args, never through the
// clause text.
type predicate struct {
	clause string
	args   []any
}

// lowerCriteria turns a sparse criteria object into its predicate list.
// Order is fixed: free text, type, creator, group, timestamp range. All
// predicates are independent and AND-composed.
func lowerCriteria(c api.SearchCriteria) []predicate {
	var preds []predicate

	if c.Query != "" {
		like := "%" + c.Query + "%"
		preds = append(preds, predicate{
			clause: `(l.name LIKE ? COLLATE NOCASE
				OR json_extract(l.metadata, '$.description') LIKE ? COLLATE NOCASE)`,
			args: []any{like, like},
		})
	}
	if c.Type != "" {
		preds = append(preds, predicate{clause: "l.type = ?", args: []any{string(c.Type)}})
	}
	if c.CreatedBy != "" {
		preds = append(preds, predicate{clause: "l.created_by = ?", args: []any{c.CreatedBy}})
	}
	if c.GroupID != nil {
		preds = append(preds, predicate{clause: "l.group_id IS ?", args: []any{*c.GroupID}})
	}
	if c.From != nil {
		preds = append(preds, predicate{clause: "l.created_at >= ?", args: []any{*c.From}})
	}
	if c.To != nil {
		preds = append(preds, predicate{clause: "l.created_at <= ?", args: []any{*c.To}})
	}
	return preds
}

// SearchLayers builds one read query from the criteria. No predicate
// present means a full scan. Results come back in draw-stack order with
// the owning group's name joined for display; the join is LEFT so it can
// never affect which layers match.
func (s *Store) SearchLayers(ctx context.Context, c api.SearchCriteria) (*api.SearchResult, error) {
	start := time.Now()

	query := `SELECT ` + prefixedLayerColumns + `, g.name
		FROM layers l
		LEFT JOIN layer_groups g ON l.group_id = g.id`
	var args []any
	for i, p := range lowerCriteria(c) {
		if i == 0 {
			query += " WHERE " + p.clause
		} else {
			query += " AND " + p.clause
		}
		args = append(args, p.args...)
	}
	query += " ORDER BY l.z_index DESC, l.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &ConstraintError{Op: "search layers", Err: err}
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	layers := []api.Layer{}
	for rows.Next() {
		l, err := scanSearchRow(rows)
		if err != nil {
			return nil, err
		}
		layers = append(layers, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &api.SearchResult{
		Layers:     layers,
		TotalCount: len(layers),
		HasMore:    false,
		SearchTime: time.Since(start),
	}, nil
}

// prefixedLayerColumns is layerColumns qualified for the search join.
const prefixedLayerColumns = `l.id, l.name, l.type, l.source_id,
	l.source_config, l.style_config, l.visible, l.opacity, l.z_index,
	l.metadata, l.group_id, l.locked, l.created_by, l.created_at,
	l.updated_at`

func scanSearchRow(row rowScanner) (*api.Layer, error) {
	var (
		l                         api.Layer
		srcDoc, styleDoc, metaDoc string
		visible, locked           int
		groupID, createdBy        sql.NullString
		groupName                 sql.NullString
	)
	err := row.Scan(&l.ID, &l.Name, &l.Type, &l.SourceID, &srcDoc, &styleDoc,
		&visible, &l.Opacity, &l.ZIndex, &metaDoc, &groupID, &locked, &createdBy,
		&l.CreatedAt, &l.UpdatedAt, &groupName)
	if err != nil {
		return nil, err
	}

	l.Visible = visible != 0
	l.Locked = locked != 0
	l.GroupID = fromNull(groupID)
	l.CreatedBy = createdBy.String
	l.GroupName = groupName.String

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

package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/strataworks/layerd/api"
)

const presetColumns = `id, name, layer_type, geometry_type, style, tags,
	preview, is_builtin, created_at`

func scanPreset(row rowScanner) (*api.StylePreset, error) {
	var (
		p                 api.StylePreset
		geom, preview     sql.NullString
		styleDoc, tagsDoc string
		builtin           int
	)
	err := row.Scan(&p.ID, &p.Name, &p.LayerType, &geom, &styleDoc, &tagsDoc,
		&preview, &builtin, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.GeometryType = geom.String
	p.Preview = preview.String
	p.Builtin = builtin != 0
	if p.Style, err = decodeDoc("style", styleDoc); err != nil {
		return nil, err
	}
	if p.Tags, err = decodeTags(tagsDoc); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetAllStylePresets returns every preset, built-ins first.
func (s *Store) GetAllStylePresets(ctx context.Context) ([]api.StylePreset, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+presetColumns+" FROM style_presets ORDER BY is_builtin DESC, name ASC")
	if err != nil {
		return nil, &ConstraintError{Op: "query presets", Err: err}
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	presets := []api.StylePreset{}
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		presets = append(presets, *p)
	}
	return presets, rows.Err()
}

// CreateStylePreset persists the draft with a fresh identifier and
// creation timestamp. Presets are immutable afterwards; there is no
// update operation.
func (s *Store) CreateStylePreset(ctx context.Context, draft api.StylePresetDraft) (*api.StylePreset, error) {
	styleDoc, err := encodeDoc("style", draft.Style)
	if err != nil {
		return nil, err
	}
	tagsDoc, err := encodeTags(draft.Tags)
	if err != nil {
		return nil, err
	}

	p := &api.StylePreset{
		ID:           uuid.NewString(),
		Name:         draft.Name,
		LayerType:    draft.LayerType,
		GeometryType: draft.GeometryType,
		Style:        draft.Style,
		Tags:         draft.Tags,
		Preview:      draft.Preview,
		Builtin:      false,
		CreatedAt:    now(),
	}
	if p.Style == nil {
		p.Style = map[string]any{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO style_presets (`+presetColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?)`,
		p.ID, p.Name, p.LayerType, p.GeometryType, styleDoc, tagsDoc,
		p.Preview, p.CreatedAt)
	if err != nil {
		return nil, &ConstraintError{Op: "insert preset", Err: err}
	}
	return p, nil
}

// DeleteStylePreset removes a user preset. Built-ins are protected: the
// call is a no-op on them and reports false, same as a missing id.
func (s *Store) DeleteStylePreset(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM style_presets WHERE id = ? AND is_builtin = 0", id)
	if err != nil {
		return false, &ConstraintError{Op: "delete preset", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/strataworks/layerd/api"
)

// ExportLayers selects the given layers and the distinct set of groups
// that directly own them (no recursive parent-chain walk) into a portable
// versioned document. Identifiers that no longer exist are skipped
// silently — one of the two documented cases where this store swallows a
// failure.
func (s *Store) ExportLayers(ctx context.Context, ids []string) (*api.ExportDocument, error) {
	doc := &api.ExportDocument{
		Version:    api.ExportVersion,
		ExportedAt: now(),
		Layers:     []api.Layer{},
		Groups:     []api.Group{},
	}

	seen := map[string]bool{}
	for _, id := range ids {
		l, err := getLayer(ctx, s.db, id)
		if err != nil {
			return nil, err
		}
		if l == nil {
			continue
		}
		doc.Layers = append(doc.Layers, *l)

		if l.GroupID != nil && !seen[*l.GroupID] {
			seen[*l.GroupID] = true
			g, err := s.GetGroupByID(ctx, *l.GroupID)
			if err != nil {
				return nil, err
			}
			if g != nil {
				doc.Groups = append(doc.Groups, *g)
			}
		}
	}
	return doc, nil
}

// EncodeExportDocument serializes a document for transport or disk.
func EncodeExportDocument(doc *api.ExportDocument) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, &SerializationError{Field: "export document", Err: err}
	}
	return data, nil
}

// versionPath locates the format tag without committing to the rest of
// the document's shape, so an incompatible future format still produces
// a precise "unsupported version" failure instead of a decode error.
var versionPath = jp.MustParseString("$.version")

// ParseExportDocument parses a document, failing with a serialization
// error on malformed input, a missing version tag, or an unsupported
// format version.
func ParseExportDocument(data []byte) (*api.ExportDocument, error) {
	root, err := oj.Parse(data)
	if err != nil {
		return nil, &SerializationError{Field: "export document", Err: err}
	}
	versions := versionPath.Get(root)
	if len(versions) == 0 {
		return nil, &SerializationError{Field: "export document", Err: errors.New("missing version tag")}
	}
	if v, _ := versions[0].(string); v != api.ExportVersion {
		return nil, &SerializationError{Field: "export document",
			Err: fmt.Errorf("unsupported version %v", versions[0])}
	}

	var doc api.ExportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &SerializationError{Field: "export document", Err: err}
	}
	return &doc, nil
}

// ImportLayers reconstitutes a document in one transaction. Groups come
// first, each with a fresh identifier and timestamps, so re-import never
// collides with existing rows. Layers follow, also with fresh identities;
// their group assignment is overridden to targetGroupID when one is
// supplied, and otherwise remapped from the document's old group ids to
// the just-created ones, so no stale pointer is ever written. Returns the
// newly assigned layer ids in document order.
func (s *Store) ImportLayers(ctx context.Context, doc *api.ExportDocument, targetGroupID *string) ([]string, error) {
	newIDs := make([]string, 0, len(doc.Layers))

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		ts := now()

		// Pre-assign group ids so parent references inside the document
		// can be remapped regardless of document order.
		groupIDs := map[string]string{}
		for _, g := range doc.Groups {
			groupIDs[g.ID] = uuid.NewString()
		}

		for _, g := range doc.Groups {
			parent := g.ParentID
			if parent != nil {
				if mapped, ok := groupIDs[*parent]; ok {
					parent = &mapped
				}
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO layer_groups (`+groupColumns+`)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				groupIDs[g.ID], g.Name, nullable(parent), g.Order,
				boolToInt(g.Expanded), g.Color, g.Description, ts, ts); err != nil {
				return &ConstraintError{Op: "import group", Err: err}
			}
		}

		for _, l := range doc.Layers {
			groupID := l.GroupID
			switch {
			case targetGroupID != nil:
				groupID = targetGroupID
			case groupID != nil:
				if mapped, ok := groupIDs[*groupID]; ok {
					groupID = &mapped
				}
			}

			srcDoc, err := encodeDoc("sourceConfig", l.SourceConfig)
			if err != nil {
				return err
			}
			styleDoc, err := encodeDoc("styleConfig", l.StyleConfig)
			if err != nil {
				return err
			}
			metaDoc, err := encodeDoc("metadata", l.Metadata)
			if err != nil {
				return err
			}

			id := uuid.NewString()
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO layers (`+layerColumns+`)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				id, l.Name, l.Type, l.SourceID, srcDoc, styleDoc,
				boolToInt(l.Visible), l.Opacity, l.ZIndex, metaDoc,
				nullable(groupID), boolToInt(l.Locked), l.CreatedBy,
				ts, ts); err != nil {
				return &ConstraintError{Op: "import layer", Err: err}
			}
			newIDs = append(newIDs, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newIDs, nil
}

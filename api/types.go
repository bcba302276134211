// Package api holds the argument and result shapes shared between the
// store, the MCP tool surface, and the CLI. These are wire types: field
// names match the JSON the transport collaborator sends and receives.
package api

import "time"

// LayerType discriminates the two kinds of map data sources.
type LayerType string

const (
	LayerTypeRaster LayerType = "raster"
	LayerTypeVector LayerType = "vector"
)

// Layer is a single map data source with its style, visibility and
// ordering metadata. The identifier is assigned by the store at creation
// and never changes.
type Layer struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Type         LayerType      `json:"type"`
	SourceID     string         `json:"sourceId"`
	SourceConfig map[string]any `json:"sourceConfig"`
	StyleConfig  map[string]any `json:"styleConfig"`
	Visible      bool           `json:"visible"`
	Opacity      float64        `json:"opacity"`
	ZIndex       int            `json:"zIndex"`
	Metadata     map[string]any `json:"metadata"`
	GroupID      *string        `json:"groupId"`
	Locked       bool           `json:"locked"`
	CreatedBy    string         `json:"createdBy,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`

	// GroupName is the owning group's name, joined in by searches for
	// display. Never persisted and empty outside search results.
	GroupName string `json:"groupName,omitempty"`
}

// LayerDraft is the caller-supplied portion of a Layer. The store assigns
// the identifier and both timestamps.
type LayerDraft struct {
	Name         string         `json:"name"`
	Type         LayerType      `json:"type"`
	SourceID     string         `json:"sourceId"`
	SourceConfig map[string]any `json:"sourceConfig"`
	StyleConfig  map[string]any `json:"styleConfig"`
	Visible      bool           `json:"visible"`
	Opacity      float64        `json:"opacity"`
	ZIndex       int            `json:"zIndex"`
	Metadata     map[string]any `json:"metadata"`
	GroupID      *string        `json:"groupId"`
	Locked       bool           `json:"locked"`
	CreatedBy    string         `json:"createdBy,omitempty"`
}

// LayerPatch is a partial update. Every field is optional; a field left
// unset is preserved, while an explicitly provided null or false value is
// written. The Opt wrapper keeps those two cases apart in the type system.
type LayerPatch struct {
	Name         Opt[string]         `json:"name,omitzero"`
	Type         Opt[LayerType]      `json:"type,omitzero"`
	SourceID     Opt[string]         `json:"sourceId,omitzero"`
	SourceConfig Opt[map[string]any] `json:"sourceConfig,omitzero"`
	StyleConfig  Opt[map[string]any] `json:"styleConfig,omitzero"`
	Visible      Opt[bool]           `json:"visible,omitzero"`
	Opacity      Opt[float64]        `json:"opacity,omitzero"`
	ZIndex       Opt[int]            `json:"zIndex,omitzero"`
	Metadata     Opt[map[string]any] `json:"metadata,omitzero"`
	GroupID      Opt[*string]        `json:"groupId,omitzero"`
	Locked       Opt[bool]           `json:"locked,omitzero"`
	CreatedBy    Opt[string]         `json:"createdBy,omitzero"`
}

// Group is a named, optionally nested container of layers, used for UI
// organization. LayerIDs is derived from the layer table on every read and
// is never stored.
type Group struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ParentID    *string   `json:"parentId"`
	Order       int       `json:"order"`
	Expanded    bool      `json:"expanded"`
	Color       string    `json:"color,omitempty"`
	Description string    `json:"description,omitempty"`
	LayerIDs    []string  `json:"layerIds"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// GroupDraft is the caller-supplied portion of a Group.
type GroupDraft struct {
	Name        string  `json:"name"`
	ParentID    *string `json:"parentId"`
	Order       int     `json:"order"`
	Expanded    bool    `json:"expanded"`
	Color       string  `json:"color,omitempty"`
	Description string  `json:"description,omitempty"`
}

// GroupPatch is a partial update for a Group, with the same presence
// semantics as LayerPatch.
type GroupPatch struct {
	Name        Opt[string]  `json:"name,omitzero"`
	ParentID    Opt[*string] `json:"parentId,omitzero"`
	Order       Opt[int]     `json:"order,omitzero"`
	Expanded    Opt[bool]    `json:"expanded,omitzero"`
	Color       Opt[string]  `json:"color,omitzero"`
	Description Opt[string]  `json:"description,omitzero"`
}

// StylePreset is a reusable named style document attachable to layers of a
// given type. Built-in presets ship with the schema and cannot be deleted.
// Presets have no update operation; they are immutable once created.
type StylePreset struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	LayerType    LayerType      `json:"layerType"`
	GeometryType string         `json:"geometryType,omitempty"`
	Style        map[string]any `json:"style"`
	Tags         []string       `json:"tags"`
	Preview      string         `json:"preview,omitempty"`
	Builtin      bool           `json:"builtin"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// StylePresetDraft is the caller-supplied portion of a StylePreset.
type StylePresetDraft struct {
	Name         string         `json:"name"`
	LayerType    LayerType      `json:"layerType"`
	GeometryType string         `json:"geometryType,omitempty"`
	Style        map[string]any `json:"style"`
	Tags         []string       `json:"tags"`
	Preview      string         `json:"preview,omitempty"`
}

// LayerOperation is one append-only audit record. LayerID is nullable:
// operations like imports are not tied to a single layer.
type LayerOperation struct {
	ID        int64          `json:"id"`
	Operation string         `json:"operation"`
	LayerID   *string        `json:"layerId"`
	Details   map[string]any `json:"details,omitempty"`
	UserID    string         `json:"userId,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// OperationDraft is the caller-supplied portion of a LayerOperation.
type OperationDraft struct {
	Operation string         `json:"operation"`
	LayerID   *string        `json:"layerId"`
	Details   map[string]any `json:"details,omitempty"`
	UserID    string         `json:"userId,omitempty"`
}

// LayerError is one error-log record. Records are never hard-deleted;
// clearing marks them resolved and they drop out of subsequent reads.
type LayerError struct {
	ID        int64          `json:"id"`
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	LayerID   *string        `json:"layerId"`
	Resolved  bool           `json:"resolved"`
	Timestamp time.Time      `json:"timestamp"`
}

// ErrorDraft is the caller-supplied portion of a LayerError.
type ErrorDraft struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	LayerID *string        `json:"layerId"`
}

// PerformanceMetrics is one timestamped load/render sample for a layer.
type PerformanceMetrics struct {
	ID           int64     `json:"id"`
	LayerID      string    `json:"layerId"`
	LoadTimeMs   float64   `json:"loadTimeMs"`
	RenderTimeMs float64   `json:"renderTimeMs"`
	MemoryMB     *float64  `json:"memoryMb,omitempty"`
	FeatureCount *int64    `json:"featureCount,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// MetricsDraft is the caller-supplied portion of a PerformanceMetrics.
type MetricsDraft struct {
	LayerID      string   `json:"layerId"`
	LoadTimeMs   float64  `json:"loadTimeMs"`
	RenderTimeMs float64  `json:"renderTimeMs"`
	MemoryMB     *float64 `json:"memoryMb,omitempty"`
	FeatureCount *int64   `json:"featureCount,omitempty"`
}

// SearchCriteria is a sparse filter set. Zero-valued fields do not
// constrain the search; all present filters are AND-composed.
type SearchCriteria struct {
	// Query matches the layer name or the metadata description field,
	// substring and case-insensitive.
	Query     string     `json:"query,omitempty"`
	Type      LayerType  `json:"type,omitempty"`
	CreatedBy string     `json:"createdBy,omitempty"`
	GroupID   *string    `json:"groupId,omitempty"`
	From      *time.Time `json:"from,omitempty"`
	To        *time.Time `json:"to,omitempty"`
}

// SearchResult carries the matched layers plus query bookkeeping. The
// store returns every match at once, so TotalCount equals len(Layers) and
// HasMore is always false; both exist for the transport contract.
type SearchResult struct {
	Layers     []Layer       `json:"layers"`
	TotalCount int           `json:"totalCount"`
	HasMore    bool          `json:"hasMore"`
	SearchTime time.Duration `json:"searchTime"`
}

// ExportVersion tags the export document format.
const ExportVersion = "1.0"

// ExportDocument is the portable representation of a layer subset: the
// selected layers plus the distinct set of groups that directly own them.
// Imports always mint fresh identifiers, so a document can be replayed
// without colliding with existing rows.
type ExportDocument struct {
	Version    string    `json:"version"`
	ExportedAt time.Time `json:"exportedAt"`
	Layers     []Layer   `json:"layers"`
	Groups     []Group   `json:"groups"`
}

// BulkLayerChange addresses one layer inside a bulk update batch.
type BulkLayerChange struct {
	ID      string     `json:"id"`
	Changes LayerPatch `json:"changes"`
}

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataworks/layerd/api"
)

func TestGetAllStylePresets_BuiltinsFirst(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	created, err := st.CreateStylePreset(ctx, api.StylePresetDraft{
		Name:      "AAA Custom", // sorts before every builtin name
		LayerType: api.LayerTypeVector,
		Style:     map[string]any{"line-color": "#000000"},
	})
	require.NoError(t, err)

	presets, err := st.GetAllStylePresets(ctx)
	require.NoError(t, err)
	require.Len(t, presets, 5)

	for _, p := range presets[:4] {
		assert.True(t, p.Builtin, "builtins come first regardless of name")
	}
	assert.Equal(t, created.ID, presets[4].ID)
	assert.False(t, presets[4].Builtin)
}

func TestCreateStylePreset_RoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	created, err := st.CreateStylePreset(ctx, api.StylePresetDraft{
		Name:         "Heat",
		LayerType:    api.LayerTypeVector,
		GeometryType: "point",
		Style:        map[string]any{"circle-color": "#ff0000"},
		Tags:         []string{"thermal", "point"},
		Preview:      "data:image/png;base64,xyz",
	})
	require.NoError(t, err)
	assert.False(t, created.Builtin, "caller can never mint a builtin")

	presets, err := st.GetAllStylePresets(ctx)
	require.NoError(t, err)

	var got *api.StylePreset
	for i := range presets {
		if presets[i].ID == created.ID {
			got = &presets[i]
		}
	}
	require.NotNil(t, got)
	assert.Equal(t, "Heat", got.Name)
	assert.Equal(t, "point", got.GeometryType)
	assert.Equal(t, map[string]any{"circle-color": "#ff0000"}, got.Style)
	assert.Equal(t, []string{"thermal", "point"}, got.Tags)
	assert.Equal(t, "data:image/png;base64,xyz", got.Preview)
}

func TestDeleteStylePreset_BuiltinProtected(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	ok, err := st.DeleteStylePreset(ctx, "builtin-raster-default")
	require.NoError(t, err)
	assert.False(t, ok, "builtin delete is a refused no-op")

	presets, err := st.GetAllStylePresets(ctx)
	require.NoError(t, err)
	assert.Len(t, presets, 4, "nothing removed")
}

func TestDeleteStylePreset_UserPreset(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	created, err := st.CreateStylePreset(ctx, api.StylePresetDraft{
		Name:      "Ephemeral",
		LayerType: api.LayerTypeRaster,
		Style:     map[string]any{},
	})
	require.NoError(t, err)

	ok, err := st.DeleteStylePreset(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = st.DeleteStylePreset(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

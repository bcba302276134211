package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataworks/layerd/api"
)

func TestBulkUpdateLayers_AppliesAll(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	l1, err := st.CreateLayer(ctx, rasterDraft("first"))
	require.NoError(t, err)
	l2, err := st.CreateLayer(ctx, vectorDraft("second"))
	require.NoError(t, err)

	updated, err := st.BulkUpdateLayers(ctx, []api.BulkLayerChange{
		{ID: l1.ID, Changes: api.LayerPatch{Visible: api.Set(false)}},
		{ID: l2.ID, Changes: api.LayerPatch{Opacity: api.Set(0.1)}},
	})
	require.NoError(t, err)
	require.Len(t, updated, 2)
	assert.False(t, updated[0].Visible)
	assert.Equal(t, 0.1, updated[1].Opacity)
}

func TestBulkUpdateLayers_RollsBackOnAnyFailure(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	l1, err := st.CreateLayer(ctx, rasterDraft("survivor"))
	require.NoError(t, err)

	_, err = st.BulkUpdateLayers(ctx, []api.BulkLayerChange{
		{ID: l1.ID, Changes: api.LayerPatch{Name: api.Set("mutated")}},
		{ID: "nonexistent", Changes: api.LayerPatch{Name: api.Set("whatever")}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	// The first item's change must not be visible: all-or-nothing.
	got, err := st.GetLayerByID(ctx, l1.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "survivor", got.Name)
}

func TestBulkUpdateLayers_EmptyBatch(t *testing.T) {
	st := newTestStore(t)

	updated, err := st.BulkUpdateLayers(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, updated)
}

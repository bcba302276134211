package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataworks/layerd/api"
)

func TestSearchLayers_NoCriteriaReturnsAll(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.CreateLayer(ctx, rasterDraft("one"))
	require.NoError(t, err)
	_, err = st.CreateLayer(ctx, vectorDraft("two"))
	require.NoError(t, err)

	res, err := st.SearchLayers(ctx, api.SearchCriteria{})
	require.NoError(t, err)
	assert.Len(t, res.Layers, 2)
	assert.Equal(t, 2, res.TotalCount)
	assert.False(t, res.HasMore)
	assert.GreaterOrEqual(t, res.SearchTime, time.Duration(0))
}

func TestSearchLayers_TextMatchesNameAndDescription(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	byName := rasterDraft("Coastline Imagery")
	byDescr := vectorDraft("Shore Features")
	byDescr.Metadata = map[string]any{"description": "everything near the COAST"}
	miss := rasterDraft("Inland Terrain")
	miss.Metadata = map[string]any{"description": "mountains"}

	for _, d := range []api.LayerDraft{byName, byDescr, miss} {
		_, err := st.CreateLayer(ctx, d)
		require.NoError(t, err)
	}

	res, err := st.SearchLayers(ctx, api.SearchCriteria{Query: "coast"})
	require.NoError(t, err)
	require.Len(t, res.Layers, 2)

	names := []string{res.Layers[0].Name, res.Layers[1].Name}
	assert.Contains(t, names, "Coastline Imagery")
	assert.Contains(t, names, "Shore Features")
}

func TestSearchLayers_TypeAndTextCompose(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	rasterHit := rasterDraft("Coast Raster High")
	rasterHit.ZIndex = 10
	rasterHit2 := rasterDraft("Coast Raster Low")
	rasterHit2.ZIndex = 2
	vectorCoast := vectorDraft("Coast Vector")
	rasterMiss := rasterDraft("Desert Raster")

	for _, d := range []api.LayerDraft{rasterHit2, vectorCoast, rasterHit, rasterMiss} {
		_, err := st.CreateLayer(ctx, d)
		require.NoError(t, err)
	}

	res, err := st.SearchLayers(ctx, api.SearchCriteria{
		Query: "coast",
		Type:  api.LayerTypeRaster,
	})
	require.NoError(t, err)
	require.Len(t, res.Layers, 2, "only raster layers matching the text")
	assert.Equal(t, "Coast Raster High", res.Layers[0].Name, "higher zIndex first")
	assert.Equal(t, "Coast Raster Low", res.Layers[1].Name)
}

func TestSearchLayers_CreatorFilter(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	mine := rasterDraft("mine")
	mine.CreatedBy = "alice"
	other := rasterDraft("other")
	other.CreatedBy = "bob"

	_, err := st.CreateLayer(ctx, mine)
	require.NoError(t, err)
	_, err = st.CreateLayer(ctx, other)
	require.NoError(t, err)

	res, err := st.SearchLayers(ctx, api.SearchCriteria{CreatedBy: "alice"})
	require.NoError(t, err)
	require.Len(t, res.Layers, 1)
	assert.Equal(t, "mine", res.Layers[0].Name)
}

func TestSearchLayers_GroupFilterAndJoinedName(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	g, err := st.CreateGroup(ctx, api.GroupDraft{Name: "Basemaps"})
	require.NoError(t, err)

	member := rasterDraft("member")
	member.GroupID = &g.ID
	_, err = st.CreateLayer(ctx, member)
	require.NoError(t, err)
	_, err = st.CreateLayer(ctx, rasterDraft("floating"))
	require.NoError(t, err)

	res, err := st.SearchLayers(ctx, api.SearchCriteria{GroupID: &g.ID})
	require.NoError(t, err)
	require.Len(t, res.Layers, 1)
	assert.Equal(t, "member", res.Layers[0].Name)
	assert.Equal(t, "Basemaps", res.Layers[0].GroupName, "group name joined for display")
}

func TestSearchLayers_TimeRange(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	l, err := st.CreateLayer(ctx, rasterDraft("recent"))
	require.NoError(t, err)

	past := l.CreatedAt.Add(-time.Hour)
	future := l.CreatedAt.Add(time.Hour)

	res, err := st.SearchLayers(ctx, api.SearchCriteria{From: &past, To: &future})
	require.NoError(t, err)
	assert.Len(t, res.Layers, 1)

	res, err = st.SearchLayers(ctx, api.SearchCriteria{From: &future})
	require.NoError(t, err)
	assert.Empty(t, res.Layers)

	res, err = st.SearchLayers(ctx, api.SearchCriteria{To: &past})
	require.NoError(t, err)
	assert.Empty(t, res.Layers)
}

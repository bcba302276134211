package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataworks/layerd/api"
)

func TestCreateGroup_RoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	parent, err := st.CreateGroup(ctx, api.GroupDraft{Name: "Parent", Order: 1})
	require.NoError(t, err)

	child, err := st.CreateGroup(ctx, api.GroupDraft{
		Name:        "Child",
		ParentID:    &parent.ID,
		Order:       2,
		Expanded:    true,
		Color:       "#ff8800",
		Description: "nested",
	})
	require.NoError(t, err)

	got, err := st.GetGroupByID(ctx, child.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Child", got.Name)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, parent.ID, *got.ParentID)
	assert.Equal(t, 2, got.Order)
	assert.True(t, got.Expanded)
	assert.Equal(t, "#ff8800", got.Color)
	assert.Equal(t, "nested", got.Description)
	assert.Equal(t, []string{}, got.LayerIDs)
}

func TestGetGroupByID_Missing(t *testing.T) {
	st := newTestStore(t)

	got, err := st.GetGroupByID(context.Background(), "no-such-group")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGroup_LayerIDsAreDerived(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	g, err := st.CreateGroup(ctx, api.GroupDraft{Name: "Basemaps"})
	require.NoError(t, err)

	bottom := rasterDraft("bottom")
	bottom.GroupID = &g.ID
	bottom.ZIndex = 1
	top := vectorDraft("top")
	top.GroupID = &g.ID
	top.ZIndex = 9

	l1, err := st.CreateLayer(ctx, bottom)
	require.NoError(t, err)
	l2, err := st.CreateLayer(ctx, top)
	require.NoError(t, err)

	got, err := st.GetGroupByID(ctx, g.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{l2.ID, l1.ID}, got.LayerIDs, "members in draw-stack order")

	// Reassigning the layer is immediately visible on the group read.
	_, err = st.UpdateLayer(ctx, l2.ID, api.LayerPatch{GroupID: api.Set[*string](nil)})
	require.NoError(t, err)

	got, err = st.GetGroupByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{l1.ID}, got.LayerIDs)
}

func TestGetAllGroups_OrderAndMembers(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	second, err := st.CreateGroup(ctx, api.GroupDraft{Name: "Second", Order: 2})
	require.NoError(t, err)
	first, err := st.CreateGroup(ctx, api.GroupDraft{Name: "First", Order: 1})
	require.NoError(t, err)

	member := rasterDraft("member")
	member.GroupID = &second.ID
	l, err := st.CreateLayer(ctx, member)
	require.NoError(t, err)

	groups, err := st.GetAllGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, first.ID, groups[0].ID)
	assert.Equal(t, second.ID, groups[1].ID)
	assert.Equal(t, []string{}, groups[0].LayerIDs)
	assert.Equal(t, []string{l.ID}, groups[1].LayerIDs)
}

func TestUpdateGroup_PartialPatch(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	g, err := st.CreateGroup(ctx, api.GroupDraft{Name: "Before", Color: "#111111", Expanded: true})
	require.NoError(t, err)

	updated, err := st.UpdateGroup(ctx, g.ID, api.GroupPatch{
		Name:     api.Set("After"),
		Expanded: api.Set(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "After", updated.Name)
	assert.False(t, updated.Expanded)
	assert.Equal(t, "#111111", updated.Color, "unset field preserved")
}

func TestUpdateGroup_NotFound(t *testing.T) {
	st := newTestStore(t)

	_, err := st.UpdateGroup(context.Background(), "ghost", api.GroupPatch{
		Name: api.Set("anything"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteGroup_OrphansMembers(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	g, err := st.CreateGroup(ctx, api.GroupDraft{Name: "Doomed"})
	require.NoError(t, err)

	member := rasterDraft("member")
	member.GroupID = &g.ID
	l, err := st.CreateLayer(ctx, member)
	require.NoError(t, err)

	ok, err := st.DeleteGroup(ctx, g.ID, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	gone, err := st.GetGroupByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	got, err := st.GetLayerByID(ctx, l.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.GroupID, "member orphaned, never deleted")
}

func TestDeleteGroup_ReassignsMembers(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	from, err := st.CreateGroup(ctx, api.GroupDraft{Name: "From"})
	require.NoError(t, err)
	to, err := st.CreateGroup(ctx, api.GroupDraft{Name: "To"})
	require.NoError(t, err)

	member := vectorDraft("mover")
	member.GroupID = &from.ID
	l, err := st.CreateLayer(ctx, member)
	require.NoError(t, err)

	ok, err := st.DeleteGroup(ctx, from.ID, &to.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := st.GetLayerByID(ctx, l.ID)
	require.NoError(t, err)
	require.NotNil(t, got.GroupID)
	assert.Equal(t, to.ID, *got.GroupID)
}

func TestDeleteGroup_MissingTargetRollsBack(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	g, err := st.CreateGroup(ctx, api.GroupDraft{Name: "Keeper"})
	require.NoError(t, err)

	member := vectorDraft("member")
	member.GroupID = &g.ID
	l, err := st.CreateLayer(ctx, member)
	require.NoError(t, err)

	_, err = st.DeleteGroup(ctx, g.ID, strPtr("no-such-target"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	// Whole operation rolled back: group still present, member untouched.
	kept, err := st.GetGroupByID(ctx, g.ID)
	require.NoError(t, err)
	require.NotNil(t, kept)

	got, err := st.GetLayerByID(ctx, l.ID)
	require.NoError(t, err)
	require.NotNil(t, got.GroupID)
	assert.Equal(t, g.ID, *got.GroupID)
}

func TestDeleteGroup_MissingGroup(t *testing.T) {
	st := newTestStore(t)

	ok, err := st.DeleteGroup(context.Background(), "no-such-group", nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataworks/layerd/api"
)

func TestBuildSearchCriteria_EmptyFlagsMeanNoFilters(t *testing.T) {
	criteria, err := buildSearchCriteria("", "", "", "", "", "")
	require.NoError(t, err)

	assert.Empty(t, criteria.Query)
	assert.Empty(t, criteria.Type)
	assert.Empty(t, criteria.CreatedBy)
	assert.Nil(t, criteria.GroupID)
	assert.Nil(t, criteria.From)
	assert.Nil(t, criteria.To)
}

func TestBuildSearchCriteria_AllFlags(t *testing.T) {
	criteria, err := buildSearchCriteria("coast", "raster", "alice", "g-1",
		"2026-01-01T00:00:00Z", "2026-06-30T23:59:59Z")
	require.NoError(t, err)

	assert.Equal(t, "coast", criteria.Query)
	assert.Equal(t, api.LayerTypeRaster, criteria.Type)
	assert.Equal(t, "alice", criteria.CreatedBy)
	require.NotNil(t, criteria.GroupID)
	assert.Equal(t, "g-1", *criteria.GroupID)
	require.NotNil(t, criteria.From)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), criteria.From.UTC())
	require.NotNil(t, criteria.To)
	assert.Equal(t, time.Date(2026, 6, 30, 23, 59, 59, 0, time.UTC), criteria.To.UTC())
}

func TestBuildSearchCriteria_RejectsBadTimestamps(t *testing.T) {
	_, err := buildSearchCriteria("", "", "", "", "yesterday", "")
	assert.Error(t, err)

	_, err = buildSearchCriteria("", "", "", "", "", "2026-13-99")
	assert.Error(t, err)
}

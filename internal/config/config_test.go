package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.hcl"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(DefaultDir(), "layers.db"), cfg.Storage.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "layerd", cfg.Server.Name)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layerd.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
storage {
  path = "/srv/layerd/layers.db"
}
log {
  level = "debug"
}
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/layerd/layers.db", cfg.Storage.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	// The omitted block keeps its default.
	assert.Equal(t, "layerd", cfg.Server.Name)
}

func TestLoad_PartialBlockKeepsOtherDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layerd.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
server {
  name = "layerd-staging"
}
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "layerd-staging", cfg.Server.Name)
	assert.Equal(t, filepath.Join(DefaultDir(), "layers.db"), cfg.Storage.Path)
}

func TestLoad_MalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layerd.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`storage { path = `), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

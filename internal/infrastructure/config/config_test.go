package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "hermes", cfg.Source.Campaign)
	assert.Equal(t, "hermes_models", cfg.Source.Dirs.Models)
	assert.Equal(t, "hermes_core", cfg.Source.Dirs.Core)
	assert.Equal(t, "target", cfg.Target.Root)
	assert.Equal(t, "catalog.db", cfg.Catalog.Path)
	assert.Empty(t, cfg.Catalog.HashIndexPath)
	assert.Equal(t, "dependency_graph.json", cfg.Graph.Path)
	assert.True(t, cfg.Graph.AutoSave)
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "forge.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
source:
  campaign: prologue
  dirs:
    models: prologue_models
target:
  root: /srv/godot/wcsaga
catalog:
  path: assets.db
  hash_index_path: hashes
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prologue", cfg.Source.Campaign)
	assert.Equal(t, "prologue_models", cfg.Source.Dirs.Models)
	assert.Equal(t, "/srv/godot/wcsaga", cfg.Target.Root)
	assert.Equal(t, "assets.db", cfg.Catalog.Path)
	assert.Equal(t, "hashes", cfg.Catalog.HashIndexPath)

	// Untouched sections keep their defaults.
	assert.Equal(t, "hermes_maps", cfg.Source.Dirs.Maps)
	assert.Equal(t, "dependency_graph.json", cfg.Graph.Path)
	assert.True(t, cfg.Graph.AutoSave)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source: [unclosed"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

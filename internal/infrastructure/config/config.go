// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default config file name, looked up in the
// working directory.
const DefaultConfigFile = "forge.yaml"

// Config holds static pipeline configuration (read-only after init).
type Config struct {
	Source  SourceConfig  `yaml:"source,omitempty"`
	Target  TargetConfig  `yaml:"target,omitempty"`
	Catalog CatalogConfig `yaml:"catalog,omitempty"`
	Graph   GraphConfig   `yaml:"graph,omitempty"`
}

// SourceConfig names the campaign and its source subdirectories.
type SourceConfig struct {
	// Campaign is the campaign slug used in target audio paths.
	Campaign string `yaml:"campaign,omitempty"`

	Dirs SourceDirs `yaml:"dirs,omitempty"`
}

// SourceDirs overrides the source subdirectory names.
type SourceDirs struct {
	Models    string `yaml:"models,omitempty"`
	Maps      string `yaml:"maps,omitempty"`
	Sounds    string `yaml:"sounds,omitempty"`
	CBAnims   string `yaml:"cbanims,omitempty"`
	Interface string `yaml:"interface,omitempty"`
	Core      string `yaml:"core,omitempty"`
	Movies    string `yaml:"movies,omitempty"`
}

// TargetConfig names the output project roots.
type TargetConfig struct {
	// Root is the Godot project directory assets are written under.
	Root string `yaml:"root,omitempty"`
}

// CatalogConfig holds the catalog database settings.
type CatalogConfig struct {
	// Path is the SQLite database file; the manifest JSON is written as a
	// sibling.
	Path string `yaml:"path,omitempty"`

	// HashIndexPath is the pebble directory for the content-hash index.
	// Empty keeps the index in memory for the run.
	HashIndexPath string `yaml:"hash_index_path,omitempty"`
}

// GraphConfig holds the dependency graph settings.
type GraphConfig struct {
	// Path is the JSON file the graph persists to.
	Path string `yaml:"path,omitempty"`

	// AutoSave writes the graph after every committed transaction.
	AutoSave bool `yaml:"auto_save,omitempty"`
}

// Default returns a Config with default values matching the hermes campaign
// data layout.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Campaign: "hermes",
			Dirs: SourceDirs{
				Models:    "hermes_models",
				Maps:      "hermes_maps",
				Sounds:    "hermes_sounds",
				CBAnims:   "hermes_cbanims",
				Interface: "hermes_interface",
				Core:      "hermes_core",
				Movies:    "hermes_movies",
			},
		},
		Target: TargetConfig{
			Root: "target",
		},
		Catalog: CatalogConfig{
			Path: "catalog.db",
		},
		Graph: GraphConfig{
			Path:     "dependency_graph.json",
			AutoSave: true,
		},
	}
}

// Load reads configuration from path, falling back to defaults when the
// file does not exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

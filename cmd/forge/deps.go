package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wcsaga/forge/internal/application/handlers"
	"github.com/wcsaga/forge/internal/domain/diag"
	"github.com/wcsaga/forge/internal/domain/graph"
	"github.com/wcsaga/forge/internal/domain/ports"
	"github.com/wcsaga/forge/internal/domain/services"
	catalogdb "github.com/wcsaga/forge/internal/infrastructure/catalog/sqlite"
	"github.com/wcsaga/forge/internal/infrastructure/config"
	"github.com/wcsaga/forge/internal/infrastructure/godot"
	"github.com/wcsaga/forge/internal/infrastructure/hashindex"
	"github.com/wcsaga/forge/internal/infrastructure/tables"
)

// Deps holds high-level dependencies for commands. Only handlers are
// exposed; services stay internal to the wiring.
type Deps struct {
	Config  *config.Config
	Diags   *diag.Handler
	Mapping *handlers.MappingHandler
	Graph   *graph.Graph
}

// pipelineDeps additionally opens the catalog, the hash index and the
// resource generator for full pipeline runs.
type pipelineDeps struct {
	Deps
	Migrate *handlers.MigrateHandler
	Catalog ports.Catalog
	hashes  ports.HashIndex
}

// buildDeps wires the mapping-only dependency set over a source directory.
func buildDeps(sourceDir string, hashes ports.HashIndex) (*Deps, error) {
	cfg, err := config.Load(globalConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if info, err := os.Stat(sourceDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("source directory %s does not exist", sourceDir)
	}

	diags := diag.NewHandler()
	classifier := services.NewClassifier()
	resolver := services.NewPathResolver(classifier, cfg.Source.Campaign)
	discovery := services.NewDiscovery(os.DirFS(sourceDir), layoutFromConfig(cfg))
	parser := tables.NewParser()
	builder := services.NewBuilder(os.DirFS(sourceDir), parser, classifier, discovery, resolver, hashes)

	g := graph.New(cfg.Graph.Path, cfg.Graph.AutoSave)

	return &Deps{
		Config:  cfg,
		Diags:   diags,
		Mapping: handlers.NewMappingHandler(parser, builder, diags),
		Graph:   g,
	}, nil
}

// withPipelineDeps wires the full pipeline, runs fn and closes everything.
func withPipelineDeps(sourceDir, outputDir string, fn func(*pipelineDeps) error) error {
	cfg, err := config.Load(globalConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var hashes ports.HashIndex
	if cfg.Catalog.HashIndexPath != "" {
		store, err := hashindex.Open(filepath.Join(outputDir, cfg.Catalog.HashIndexPath))
		if err != nil {
			return err
		}
		hashes = store
	} else {
		hashes = hashindex.NewMemory()
	}
	defer hashes.Close()

	deps, err := buildDeps(sourceDir, hashes)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	catalog, err := catalogdb.NewRepository(filepath.Join(outputDir, cfg.Catalog.Path))
	if err != nil {
		return err
	}
	defer catalog.Close()

	classifier := services.NewClassifier()
	resolver := services.NewPathResolver(classifier, cfg.Source.Campaign)
	generator := godot.NewGenerator(filepath.Join(outputDir, "assets"), classifier, resolver)

	graphPath := filepath.Join(outputDir, cfg.Graph.Path)
	g := graph.New(graphPath, cfg.Graph.AutoSave)
	if _, err := os.Stat(graphPath); err == nil {
		if err := g.Load(graphPath); err != nil {
			fmt.Fprintf(os.Stderr, "warning: existing graph unusable, starting fresh: %v\n", err)
		}
	}
	deps.Graph = g

	pd := &pipelineDeps{
		Deps:    *deps,
		Migrate: handlers.NewMigrateHandler(deps.Mapping, catalog, g, generator, deps.Diags),
		Catalog: catalog,
		hashes:  hashes,
	}
	return fn(pd)
}

// withCatalog opens an existing catalog database for query commands.
func withCatalog(ctx context.Context, dbPath string, fn func(*handlers.CatalogHandler) error) error {
	catalog, err := catalogdb.NewRepository(dbPath)
	if err != nil {
		return err
	}
	defer catalog.Close()

	if err := catalog.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := catalog.LoadCatalog(ctx); err != nil {
		return err
	}
	return fn(handlers.NewCatalogHandler(catalog))
}

func layoutFromConfig(cfg *config.Config) services.DirLayout {
	layout := services.DefaultDirLayout()
	dirs := cfg.Source.Dirs
	if dirs.Models != "" {
		layout.Models = dirs.Models
	}
	if dirs.Maps != "" {
		layout.Maps = dirs.Maps
	}
	if dirs.Sounds != "" {
		layout.Sounds = dirs.Sounds
	}
	if dirs.CBAnims != "" {
		layout.CBAnims = dirs.CBAnims
	}
	if dirs.Interface != "" {
		layout.Interface = dirs.Interface
	}
	if dirs.Core != "" {
		layout.Core = dirs.Core
	}
	if dirs.Movies != "" {
		layout.Movies = dirs.Movies
	}
	return layout
}

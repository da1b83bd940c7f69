package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/wcsaga/forge/internal/domain/diag"
	"github.com/wcsaga/forge/internal/domain/entities"
	"github.com/wcsaga/forge/internal/domain/graph"
	"github.com/wcsaga/forge/internal/domain/ports"
	"github.com/wcsaga/forge/internal/domain/services"
	"github.com/wcsaga/forge/internal/infrastructure/godot"
)

// MigrateHandler runs the full pipeline: mapping, catalog registration,
// graph construction, resource generation and validation.
type MigrateHandler struct {
	mapping   *MappingHandler
	catalog   ports.Catalog
	graph     *graph.Graph
	generator *godot.Generator
	diags     *diag.Handler
}

// NewMigrateHandler creates a MigrateHandler.
func NewMigrateHandler(mapping *MappingHandler, catalog ports.Catalog, g *graph.Graph, generator *godot.Generator, diags *diag.Handler) *MigrateHandler {
	return &MigrateHandler{
		mapping:   mapping,
		catalog:   catalog,
		graph:     g,
		generator: generator,
		diags:     diags,
	}
}

// MigrateResult summarises one migration run.
type MigrateResult struct {
	RunID            string         `json:"run_id"`
	Mapping          *MappingResult `json:"mapping"`
	AssetsRegistered int            `json:"assets_registered"`
	EdgesRecorded    int            `json:"edges_recorded"`
	ResourcesWritten int            `json:"resources_written"`
	ScenesWritten    int            `json:"scenes_written"`
	Issues           int            `json:"validation_issues"`
	Failed           bool           `json:"failed"`
}

// HandleMigrate runs the pipeline end to end. A failing stage marks the run
// failed but the catalog is still flushed so partial progress survives.
func (h *MigrateHandler) HandleMigrate(ctx context.Context, sourceDir, coreDir, mappingOut string) (*MigrateResult, error) {
	if err := h.catalog.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	mapping, err := h.mapping.HandleMapAssets(ctx, sourceDir, coreDir, mappingOut)
	if err != nil {
		return nil, err
	}
	result := &MigrateResult{RunID: uuid.NewString(), Mapping: mapping}

	if err := h.registerMappings(ctx, sourceDir, mapping, result); err != nil {
		result.Failed = true
		fmt.Fprintf(os.Stderr, "Error: recording mappings: %v\n", err)
	}

	if err := h.generateResources(mapping, result); err != nil {
		result.Failed = true
		fmt.Fprintf(os.Stderr, "Error: generating resources: %v\n", err)
	}

	issues, err := h.catalog.Issues(ctx)
	if err == nil {
		result.Issues = len(issues)
	}

	// Flush even a failed run; partial catalogs are still useful.
	if err := h.catalog.SaveCatalog(ctx); err != nil {
		result.Failed = true
		fmt.Fprintf(os.Stderr, "Error: saving catalog: %v\n", err)
	}
	return result, nil
}

// registerMappings projects every mapping into the catalog and the
// dependency graph.
func (h *MigrateHandler) registerMappings(ctx context.Context, sourceDir string, mapping *MappingResult, result *MigrateResult) error {
	for name, m := range mapping.Mappings {
		all := m.RelatedAssets
		if m.PrimaryAsset != nil {
			all = append([]entities.AssetRelationship{*m.PrimaryAsset}, all...)
		}

		entityID := entities.AssetIDForPath("entity/" + name)
		if err := h.catalog.RegisterAsset(ctx, &entities.Asset{
			AssetID:      entityID,
			Name:         name,
			FilePath:     "entity/" + name,
			Type:         entities.AssetOther,
			Category:     string(m.EntityType),
			FeatureGroup: featureGroup(m),
		}); err != nil {
			return err
		}

		txErr := func() error {
			_, err := h.graph.Transaction(func(tx *graph.Tx) error {
				tx.AddNode(entityID, "entity/"+name, string(m.EntityType), m.Metadata)
				for _, rel := range all {
					targetID := entities.AssetIDForPath(rel.TargetAsset)
					asset := &entities.Asset{
						AssetID:      targetID,
						Name:         filepath.Base(rel.TargetAsset),
						FilePath:     rel.TargetAsset,
						Type:         entities.AssetTypeForPath(rel.TargetAsset),
						TargetPath:   rel.TargetPath,
						FeatureGroup: featureGroup(m),
					}
					if info, err := os.Stat(filepath.Join(sourceDir, filepath.FromSlash(rel.TargetAsset))); err == nil {
						asset.FileSize = info.Size()
					}
					if err := h.catalog.RegisterAsset(ctx, asset); err != nil {
						return err
					}
					result.AssetsRegistered++

					stored := rel
					stored.SourceAsset = entityID
					stored.TargetAsset = targetID
					if err := h.catalog.AddRelationship(ctx, &stored); err != nil {
						return err
					}
					tx.AddNode(targetID, rel.TargetAsset, string(asset.Type), nil)
					tx.AddEdge(graph.Edge{
						Source:   entityID,
						Target:   targetID,
						Type:     rel.Type,
						Strength: rel.Strength,
						Required: rel.Required,
					})
					result.EdgesRecorded++
				}
				return nil
			})
			return err
		}()
		if txErr != nil {
			return txErr
		}
	}
	return nil
}

// generateResources renders .tres files for every generated table family
// and scene skeletons for mapped entities.
func (h *MigrateHandler) generateResources(mapping *MappingResult, result *MigrateResult) error {
	var firstErr error
	for _, tr := range mapping.TableResults {
		switch tr.Kind {
		case entities.TableShips, entities.TableWeapons, entities.TableAI,
			entities.TableAIProfiles, entities.TableSpecies, entities.TableIFF:
			written, err := h.generator.GenerateResources(tr)
			result.ResourcesWritten += len(written)
			if err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}

	for _, m := range mapping.Mappings {
		switch m.EntityType {
		case entities.TypeShip, entities.TypeWeapon, entities.TypeEffect, entities.TypeFireball:
			if _, err := h.generator.GenerateSceneSkeleton(m); err != nil {
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			result.ScenesWritten++
		}
	}
	return firstErr
}

// featureGroup derives the catalog feature group from a mapping, e.g.
// "fighters/confed_rapier".
func featureGroup(m entities.AssetMapping) string {
	sub := "misc"
	if s, ok := m.Metadata["subcategory"].(string); ok && s != "" {
		sub = s
	} else if m.EntityType == entities.TypeWeapon {
		sub = "missiles"
	}
	return sub + "/" + services.CleanName(m.EntityName)
}

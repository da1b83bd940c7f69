// Package handlers coordinates the domain services into the operations the
// CLI exposes.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wcsaga/forge/internal/domain/diag"
	"github.com/wcsaga/forge/internal/domain/entities"
	"github.com/wcsaga/forge/internal/domain/ports"
	"github.com/wcsaga/forge/internal/domain/services"
)

// MappingHandler drives table parsing, classification and discovery to
// produce the asset mapping document.
type MappingHandler struct {
	tables  ports.TableParser
	builder *services.Builder
	diags   *diag.Handler
}

// NewMappingHandler creates a MappingHandler.
func NewMappingHandler(tables ports.TableParser, builder *services.Builder, diags *diag.Handler) *MappingHandler {
	return &MappingHandler{
		tables:  tables,
		builder: builder,
		diags:   diags,
	}
}

// MappingResult summarises one asset-mapping run.
type MappingResult struct {
	Mappings        map[string]entities.AssetMapping `json:"mappings"`
	EntityCount     int                              `json:"entity_count"`
	EdgeCount       int                              `json:"relationship_count"`
	DuplicatesFound int                              `json:"duplicates_found"`
	Warnings        int                              `json:"warnings"`
	Errors          int                              `json:"errors"`
	TableResults    []*entities.TableResult          `json:"-"`
}

// HandleMapAssets parses every table, mission and campaign file under the
// core directory, builds the per-entity asset mappings and writes them to
// outputPath as JSON. Parse diagnostics never abort the run; they are
// counted into the result.
func (h *MappingHandler) HandleMapAssets(ctx context.Context, sourceDir, coreDir, outputPath string) (*MappingResult, error) {
	tableFiles, missionFiles, campaignFiles, err := enumerateSourceFiles(filepath.Join(sourceDir, coreDir))
	if err != nil {
		return nil, err
	}

	sounds := h.loadSounds(tableFiles)

	results := make([]*entities.TableResult, 0, len(tableFiles))
	for _, file := range tableFiles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// Sound tables are pure lookup data, already consumed above.
		if entities.TableKindForFile(file) == entities.TableSounds {
			continue
		}
		result, err := h.tables.ParseTable(file, sounds)
		if err != nil {
			// A single unreadable table must not sink the batch.
			h.diags.AbsorbAll([]diag.Diagnostic{{
				Category: diag.CategoryIO,
				Severity: diag.SeverityError,
				Message:  fmt.Sprintf("skipping table %s: %v", file, err),
			}})
			continue
		}
		h.diags.AbsorbAll(result.Diagnostics)
		results = append(results, result)
	}

	rels, types := h.builder.BuildFromParsed(results)

	missionRels, err := h.builder.BuildFromMissions(missionFiles)
	if err != nil {
		return nil, err
	}
	for name, mr := range missionRels {
		rels[name] = append(rels[name], mr...)
		if _, ok := types[name]; !ok {
			types[name] = entities.TypeMission
		}
	}
	campaignRels, err := h.builder.BuildFromCampaigns(campaignFiles)
	if err != nil {
		return nil, err
	}
	for name, cr := range campaignRels {
		rels[name] = append(rels[name], cr...)
		if _, ok := types[name]; !ok {
			types[name] = entities.TypeCampaign
		}
	}

	mappings := h.builder.EnhanceWithDiscovery(rels, types)

	edgeCount := 0
	for _, m := range mappings {
		edgeCount += len(m.RelatedAssets)
		if m.PrimaryAsset != nil {
			edgeCount++
		}
	}

	result := &MappingResult{
		Mappings:        mappings,
		EntityCount:     len(mappings),
		EdgeCount:       edgeCount,
		DuplicatesFound: h.builder.DuplicatesFound(),
		Warnings:        h.diags.Total(diag.SeverityWarning),
		Errors:          h.diags.Total(diag.SeverityError) + h.diags.Total(diag.SeverityCritical),
		TableResults:    results,
	}

	if outputPath != "" {
		if err := writeMappingFile(outputPath, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// loadSounds parses sounds.tbl if present so weapon launch sound ids
// resolve to filenames.
func (h *MappingHandler) loadSounds(tableFiles []string) entities.SoundTable {
	for _, file := range tableFiles {
		if entities.TableKindForFile(file) != entities.TableSounds {
			continue
		}
		sounds, err := h.tables.ParseSoundTable(file)
		if err != nil {
			h.diags.AbsorbAll([]diag.Diagnostic{{
				Category: diag.CategoryParsing,
				Severity: diag.SeverityWarning,
				Message:  fmt.Sprintf("sounds table unusable, sound ids stay unresolved: %v", err),
			}})
			return nil
		}
		return sounds
	}
	return nil
}

// enumerateSourceFiles splits the core directory contents into tables,
// missions and campaigns.
func enumerateSourceFiles(coreDir string) (tables, missions, campaigns []string, err error) {
	entries, err := os.ReadDir(coreDir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("reading core directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		full := filepath.Join(coreDir, e.Name())
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".tbl", ".tbm":
			tables = append(tables, full)
		case ".fs2":
			missions = append(missions, full)
		case ".fc2":
			campaigns = append(campaigns, full)
		}
	}
	sort.Strings(tables)
	sort.Strings(missions)
	sort.Strings(campaigns)
	return tables, missions, campaigns, nil
}

func writeMappingFile(path string, result *MappingResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding mapping: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing mapping file: %w", err)
	}
	return nil
}

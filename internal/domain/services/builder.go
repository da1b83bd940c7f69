package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wcsaga/forge/internal/domain/entities"
	"github.com/wcsaga/forge/internal/domain/ports"
)

// Builder drives the table parsers, classifier, discovery engine and path
// resolver to produce one AssetMapping per entity.
type Builder struct {
	source     fs.FS
	tables     ports.TableParser
	classifier *Classifier
	discovery  *Discovery
	resolver   *PathResolver
	hashes     ports.HashIndex

	mu              sync.Mutex
	duplicatesFound int
}

// NewBuilder wires the relationship builder. hashes may be nil to disable
// content deduplication.
func NewBuilder(source fs.FS, tables ports.TableParser, classifier *Classifier, discovery *Discovery, resolver *PathResolver, hashes ports.HashIndex) *Builder {
	return &Builder{
		source:     source,
		tables:     tables,
		classifier: classifier,
		discovery:  discovery,
		resolver:   resolver,
		hashes:     hashes,
	}
}

// DuplicatesFound returns how many source files were mapped onto an existing
// target path because their content hash had been seen before.
func (b *Builder) DuplicatesFound() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.duplicatesFound
}

// BuildFromTables parses each table file, classifies its entries and returns
// the table-declared relationships plus the classified type per entity name.
// sounds resolves numeric sound ids to filenames and may be nil.
func (b *Builder) BuildFromTables(tableFiles []string, sounds entities.SoundTable) (map[string][]entities.AssetRelationship, map[string]entities.EntityType, error) {
	results := make([]*entities.TableResult, 0, len(tableFiles))
	for _, file := range tableFiles {
		result, err := b.tables.ParseTable(file, sounds)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing table %s: %w", file, err)
		}
		results = append(results, result)
	}
	rels, types := b.BuildFromParsed(results)
	return rels, types, nil
}

// BuildFromParsed derives table-declared relationships from already parsed
// table results.
func (b *Builder) BuildFromParsed(results []*entities.TableResult) (map[string][]entities.AssetRelationship, map[string]entities.EntityType) {
	rels := make(map[string][]entities.AssetRelationship)
	types := make(map[string]entities.EntityType)
	for _, result := range results {
		for _, entry := range result.Entries {
			entity := b.classifier.ClassifyEntry(entry, result)
			if _, seen := types[entity.Name]; !seen {
				types[entity.Name] = entity.Type
			}
			if _, seen := rels[entity.Name]; !seen {
				rels[entity.Name] = nil
			}
			rels[entity.Name] = append(rels[entity.Name], b.entryRelationships(entity, entry)...)
		}
	}
	return rels, types
}

// entryRelationships derives relationships explicitly declared by a table
// entry: primary model, texture replacements and launch sounds.
func (b *Builder) entryRelationships(entity entities.Entity, entry entities.TableEntry) []entities.AssetRelationship {
	var rels []entities.AssetRelationship

	if model, ok := entry.Properties["pof_file"].(string); ok && model != "" {
		rels = append(rels, entities.AssetRelationship{
			SourceAsset: entity.Name,
			TargetAsset: model,
			Type:        entities.RelPrimaryModel,
			Strength:    1.0,
			Required:    true,
			TargetPath:  b.resolver.ResolveModelPath(entity.Name, entity.Type),
			Metadata:    map[string]any{"source": "table_scan", "table": entity.SourceTable},
		})
	}
	if model, ok := entry.Properties["model_file"].(string); ok && model != "" {
		rels = append(rels, entities.AssetRelationship{
			SourceAsset: entity.Name,
			TargetAsset: model,
			Type:        entities.RelPrimaryModel,
			Strength:    1.0,
			Required:    true,
			TargetPath:  b.resolver.ResolveModelPath(entity.Name, entity.Type),
			Metadata:    map[string]any{"source": "table_scan", "table": entity.SourceTable},
		})
	}

	if reps, ok := entry.Properties["texture_replace"].([]entities.TextureReplacement); ok {
		for _, rep := range reps {
			rels = append(rels, entities.AssetRelationship{
				SourceAsset: entity.Name,
				TargetAsset: rep.New,
				Type:        entities.RelTextureReplacement,
				Strength:    0.9,
				Metadata:    map[string]any{"replaces": rep.Old, "source": "table_scan"},
			})
		}
	}

	if snd, ok := entry.Properties["launch_sound"].(string); ok && snd != "" {
		rels = append(rels, entities.AssetRelationship{
			SourceAsset: entity.Name,
			TargetAsset: snd,
			Type:        entities.RelFireSound,
			Strength:    0.9,
			Metadata:    map[string]any{"source": "table_scan"},
		})
	}

	if tex, ok := entry.Properties["texture"].(string); ok && tex != "" {
		rels = append(rels, entities.AssetRelationship{
			SourceAsset: entity.Name,
			TargetAsset: tex,
			Type:        entities.RelEffectDefinition,
			Strength:    0.9,
			Metadata:    map[string]any{"source": "table_scan"},
		})
	}

	return rels
}

// BuildFromMissions scrapes mission files for asset references and returns
// one relationship list per mission.
func (b *Builder) BuildFromMissions(missionFiles []string) (map[string][]entities.AssetRelationship, error) {
	return b.buildFromReferenceFiles(missionFiles, entities.RelMissionReference)
}

// BuildFromCampaigns scrapes campaign files for referenced missions, movies
// and fiction.
func (b *Builder) BuildFromCampaigns(campaignFiles []string) (map[string][]entities.AssetRelationship, error) {
	return b.buildFromReferenceFiles(campaignFiles, entities.RelDependsOn)
}

func (b *Builder) buildFromReferenceFiles(files []string, relType entities.RelationshipType) (map[string][]entities.AssetRelationship, error) {
	out := make(map[string][]entities.AssetRelationship)
	for _, file := range files {
		result, err := b.tables.ParseTable(file, nil)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", file, err)
		}
		for _, entry := range result.Entries {
			var rels []entities.AssetRelationship
			for key, value := range entry.Properties {
				refs, ok := value.([]string)
				if !ok {
					continue
				}
				for _, ref := range refs {
					rels = append(rels, entities.AssetRelationship{
						SourceAsset: entry.Name,
						TargetAsset: ref,
						Type:        relType,
						Strength:    0.6,
						Metadata:    map[string]any{"reference_kind": key, "source": "file_scan"},
					})
				}
			}
			sort.Slice(rels, func(i, j int) bool { return rels[i].TargetAsset < rels[j].TargetAsset })
			out[entry.Name] = append(out[entry.Name], rels...)
		}
	}
	return out, nil
}

// EnhanceWithDiscovery merges table-declared relationships with filesystem
// discovery and assembles the final AssetMapping per entity. Relationships
// without a target path get one from the path resolver; ships, weapons and
// effects additionally get a complete_scene relationship.
func (b *Builder) EnhanceWithDiscovery(relationships map[string][]entities.AssetRelationship, types map[string]entities.EntityType) map[string]entities.AssetMapping {
	mappings := make(map[string]entities.AssetMapping, len(relationships))
	for name, rels := range relationships {
		entityType := types[name]
		if entityType == "" {
			entityType = entities.TypeUnknown
		}

		primaryModel := ""
		for _, rel := range rels {
			if rel.Type == entities.RelPrimaryModel {
				primaryModel = rel.TargetAsset
				break
			}
		}

		all := append([]entities.AssetRelationship(nil), rels...)
		all = append(all, b.discovery.DiscoverEntityAssets(name, entityType, primaryModel)...)
		all = dedupeRelationships(all)

		for i := range all {
			if all[i].TargetPath == "" {
				all[i].TargetPath = b.resolveTarget(name, entityType, all[i])
			}
			if all[i].CreatedAt.IsZero() {
				all[i].CreatedAt = time.Now().UTC()
			}
		}

		switch entityType {
		case entities.TypeShip, entities.TypeWeapon, entities.TypeEffect, entities.TypeFireball:
			all = append(all, entities.AssetRelationship{
				SourceAsset: name,
				TargetAsset: name,
				Type:        entities.RelCompleteScene,
				Strength:    1.0,
				TargetPath:  b.resolver.ResolveScenePath(name, entityType),
				CreatedAt:   time.Now().UTC(),
			})
		}

		faction := b.classifier.DetectFaction(name)
		mapping := entities.AssetMapping{
			EntityName:    name,
			EntityType:    entityType,
			RelatedAssets: all,
			Metadata: map[string]any{
				"relationship_count": len(all),
				"faction":            string(faction),
				"subcategory":        string(b.classifier.ClassifySubcategory(name, faction)),
			},
		}
		if idx := pickPrimary(all); idx >= 0 {
			primary := all[idx]
			mapping.PrimaryAsset = &primary
			mapping.RelatedAssets = append(all[:idx:idx], all[idx+1:]...)
		}
		mappings[name] = mapping
	}
	return mappings
}

// pickPrimary returns the index of the mapping's primary asset: the first
// primary_model edge, else the first edge targeting a model file, else -1.
func pickPrimary(rels []entities.AssetRelationship) int {
	for i, rel := range rels {
		if rel.Type == entities.RelPrimaryModel {
			return i
		}
	}
	for i, rel := range rels {
		if entities.AssetTypeForPath(rel.TargetAsset) == entities.AssetModel {
			return i
		}
	}
	return -1
}

// resolveTarget assigns a target path for a relationship, consulting the
// content-hash index so identical files share one target.
func (b *Builder) resolveTarget(name string, entityType entities.EntityType, rel entities.AssetRelationship) string {
	if rel.Type == entities.RelMissionReference || rel.Type == entities.RelDependsOn {
		return ""
	}

	assetType := entities.AssetTypeForPath(rel.TargetAsset)
	proposed := b.resolver.ResolveSemanticFactionPath(name, entityType, assetType, rel.TargetAsset, rel.Type)

	if b.hashes == nil || b.source == nil {
		return proposed
	}
	hash, err := b.hashContent(rel.TargetAsset)
	if err != nil || hash == "" {
		return proposed
	}
	if existing, err := b.hashes.Get(hash); err == nil && existing != "" {
		if existing != proposed {
			b.mu.Lock()
			b.duplicatesFound++
			b.mu.Unlock()
		}
		return existing
	}
	if err := b.hashes.Put(hash, proposed); err != nil {
		return proposed
	}
	return proposed
}

// hashContent computes the SHA-256 of a source-relative file. Missing files
// return an empty hash without error so table references to absent assets
// still get a proposed target.
func (b *Builder) hashContent(sourcePath string) (string, error) {
	clean := strings.TrimPrefix(path.Clean(sourcePath), "/")
	f, err := b.source.Open(clean)
	if err != nil {
		return "", nil
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", sourcePath, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

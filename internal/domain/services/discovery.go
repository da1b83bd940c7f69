package services

import (
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/wcsaga/forge/internal/domain/entities"
)

// DirLayout names the source subdirectories under the campaign root.
type DirLayout struct {
	Models    string `yaml:"models"`
	Maps      string `yaml:"maps"`
	Sounds    string `yaml:"sounds"`
	CBAnims   string `yaml:"cbanims"`
	Interface string `yaml:"interface"`
	Core      string `yaml:"core"`
	Movies    string `yaml:"movies"`
}

// DefaultDirLayout is the fixed layout of the shipped campaign data.
func DefaultDirLayout() DirLayout {
	return DirLayout{
		Models:    "hermes_models",
		Maps:      "hermes_maps",
		Sounds:    "hermes_sounds",
		CBAnims:   "hermes_cbanims",
		Interface: "hermes_interface",
		Core:      "hermes_core",
		Movies:    "hermes_movies",
	}
}

// reFrameSuffix matches the numeric frame suffix of effect frame textures.
var reFrameSuffix = regexp.MustCompile(`^(.*)_(\d{4})\.dds$`)

// MaterialReport is the result of the material completeness analyzer.
type MaterialReport struct {
	BaseName     string              `json:"base_name"`
	Found        map[string]string   `json:"found"`
	Missing      []string            `json:"missing_materials"`
	Completeness float64             `json:"completeness"`
}

// Discovery finds every asset related to an entity by filename-pattern
// expansion across the fixed campaign directory layout. Results are cached
// per (entity type, entity name).
type Discovery struct {
	root   fs.FS
	layout DirLayout

	mu    sync.Mutex
	cache map[string][]entities.AssetRelationship
}

// NewDiscovery creates a discovery engine over the campaign root.
func NewDiscovery(root fs.FS, layout DirLayout) *Discovery {
	return &Discovery{
		root:   root,
		layout: layout,
		cache:  make(map[string][]entities.AssetRelationship),
	}
}

// DiscoverEntityAssets returns every related asset for the entity, from the
// type-specific pass plus the universal texture/sound/animation/mission
// passes.
func (d *Discovery) DiscoverEntityAssets(name string, entityType entities.EntityType, primaryModel string) []entities.AssetRelationship {
	cacheKey := string(entityType) + "/" + entities.NormalizeName(name)
	d.mu.Lock()
	if cached, ok := d.cache[cacheKey]; ok {
		d.mu.Unlock()
		return cached
	}
	d.mu.Unlock()

	var rels []entities.AssetRelationship
	switch entityType {
	case entities.TypeShip:
		rels = append(rels, d.discoverShipTextures(name, primaryModel)...)
	case entities.TypeWeapon:
		rels = append(rels, d.discoverEffects(name, []string{"wpn_", "missile_"})...)
	case entities.TypeEffect, entities.TypeFireball:
		rels = append(rels, d.discoverEffects(name, nil)...)
	}

	// Universal passes. The ship pass already covered textures.
	if entityType != entities.TypeShip {
		rels = append(rels, d.discoverShipTextures(name, "")...)
	}
	rels = append(rels, d.discoverSounds(name)...)
	if entityType != entities.TypeWeapon && entityType != entities.TypeEffect && entityType != entities.TypeFireball {
		rels = append(rels, d.discoverEffects(name, nil)...)
	}
	rels = append(rels, d.discoverMissionReferences(name)...)

	rels = dedupeRelationships(rels)

	d.mu.Lock()
	d.cache[cacheKey] = rels
	d.mu.Unlock()
	return rels
}

// namePatterns expands an entity name into the lowercase substrings used for
// filename matching.
func namePatterns(name string, prefixes []string) []string {
	lower := entities.NormalizeName(name)
	snake := strings.ReplaceAll(lower, " ", "_")
	patterns := []string{lower}
	if snake != lower {
		patterns = append(patterns, snake)
	}
	for _, p := range prefixes {
		patterns = append(patterns, p+lower, p+snake)
	}
	return patterns
}

// searchDir lists a source subdirectory and returns entries whose lowercased
// name contains any pattern. Missing directories yield no matches.
func (d *Discovery) searchDir(dir string, patterns []string) []string {
	infos, err := fs.ReadDir(d.root, dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		lower := strings.ToLower(info.Name())
		for _, p := range patterns {
			if p != "" && strings.Contains(lower, p) {
				out = append(out, path.Join(dir, info.Name()))
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

// discoverShipTextures searches the maps directory for the entity's material
// set. Only the diffuse map is marked required.
func (d *Discovery) discoverShipTextures(name, primaryModel string) []entities.AssetRelationship {
	patterns := namePatterns(name, []string{"tcf_", "kib_"})
	if primaryModel != "" {
		stem := strings.ToLower(strings.TrimSuffix(path.Base(primaryModel), path.Ext(primaryModel)))
		patterns = append(patterns, stem, stem+"_", stem+"-")
	}

	var rels []entities.AssetRelationship
	for _, hit := range d.searchDir(d.layout.Maps, patterns) {
		material := DetectMaterialType(hit)
		rels = append(rels, entities.AssetRelationship{
			SourceAsset: name,
			TargetAsset: hit,
			Type:        materialRelType(material),
			Strength:    0.8,
			Required:    material == MaterialDiffuse,
			Metadata:    map[string]any{"material_type": string(material)},
		})
	}
	return rels
}

func materialRelType(material MaterialType) entities.RelationshipType {
	switch material {
	case MaterialNormal:
		return entities.RelNormal
	case MaterialSpecular:
		return entities.RelSpecular
	case MaterialEmission:
		return entities.RelGlow
	case MaterialBump:
		return entities.RelBump
	default:
		return entities.RelDiffuse
	}
}

// discoverEffects searches the cbanims directory for .eff definitions and
// their numbered frame textures.
func (d *Discovery) discoverEffects(name string, prefixes []string) []entities.AssetRelationship {
	patterns := namePatterns(name, prefixes)

	var rels []entities.AssetRelationship
	for _, hit := range d.searchDir(d.layout.CBAnims, patterns) {
		if !strings.HasSuffix(strings.ToLower(hit), ".eff") {
			continue
		}
		rels = append(rels, entities.AssetRelationship{
			SourceAsset: name,
			TargetAsset: hit,
			Type:        entities.RelEffectDefinition,
			Strength:    1.0,
			Required:    true,
		})
		rels = append(rels, d.discoverEffectFrames(name, hit)...)
	}
	return rels
}

// discoverEffectFrames finds the `<stem>_0000.dds` frame sequence of an
// effect definition, sorted numerically.
func (d *Discovery) discoverEffectFrames(name, effPath string) []entities.AssetRelationship {
	stem := strings.ToLower(strings.TrimSuffix(path.Base(effPath), path.Ext(effPath)))
	dir := path.Dir(effPath)

	infos, err := fs.ReadDir(d.root, dir)
	if err != nil {
		return nil
	}

	type frame struct {
		path  string
		index string
	}
	var frames []frame
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		m := reFrameSuffix.FindStringSubmatch(strings.ToLower(info.Name()))
		if m == nil || m[1] != stem {
			continue
		}
		frames = append(frames, frame{path: path.Join(dir, info.Name()), index: m[2]})
	}
	sort.Slice(frames, func(i, j int) bool { return frames[i].index < frames[j].index })

	rels := make([]entities.AssetRelationship, 0, len(frames))
	for _, f := range frames {
		rels = append(rels, entities.AssetRelationship{
			SourceAsset: name,
			TargetAsset: f.path,
			Type:        entities.RelFrameTexture,
			Strength:    0.9,
			Metadata:    map[string]any{"frame": f.index, "effect": effPath},
		})
	}
	return rels
}

// discoverSounds searches the sounds directory and classifies each hit.
func (d *Discovery) discoverSounds(name string) []entities.AssetRelationship {
	var rels []entities.AssetRelationship
	for _, hit := range d.searchDir(d.layout.Sounds, namePatterns(name, nil)) {
		cls := ClassifyAudio(hit)
		meta := map[string]any{"audio_category": string(cls.Category)}
		if cls.Mission != "" {
			meta["mission"] = cls.Mission
		}
		if cls.Location != "" {
			meta["location"] = cls.Location
		}
		rels = append(rels, entities.AssetRelationship{
			SourceAsset: name,
			TargetAsset: hit,
			Type:        entities.RelSoundEffect,
			Strength:    0.7,
			Metadata:    meta,
		})
	}
	return rels
}

// discoverMissionReferences scans the mission files for case-insensitive
// mentions of the entity name.
func (d *Discovery) discoverMissionReferences(name string) []entities.AssetRelationship {
	infos, err := fs.ReadDir(d.root, d.layout.Core)
	if err != nil {
		return nil
	}
	needle := entities.NormalizeName(name)

	var rels []entities.AssetRelationship
	for _, info := range infos {
		if info.IsDir() || !strings.HasSuffix(strings.ToLower(info.Name()), ".fs2") {
			continue
		}
		missionPath := path.Join(d.layout.Core, info.Name())
		data, err := fs.ReadFile(d.root, missionPath)
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(string(data)), needle) {
			rels = append(rels, entities.AssetRelationship{
				SourceAsset: name,
				TargetAsset: missionPath,
				Type:        entities.RelMissionReference,
				Strength:    0.5,
			})
		}
	}
	return rels
}

// AnalyzeMaterials checks material-set completeness for a base texture stem:
// one slot each for diffuse, normal, specular and glow.
func (d *Discovery) AnalyzeMaterials(baseStem string) MaterialReport {
	suffixSets := []struct {
		slot     string
		suffixes []string
	}{
		{"diffuse", []string{"", "_diffuse", "_d", "_col"}},
		{"normal", []string{"_normal", "_n", "_nrm", "_bump"}},
		{"specular", []string{"_specular", "_spec", "_s", "_shine"}},
		{"glow", []string{"_glow", "_g", "_emissive", "_emit"}},
	}
	extensions := []string{".dds", ".pcx", ".tga", ".png"}

	report := MaterialReport{BaseName: baseStem, Found: make(map[string]string)}
	base := entities.NormalizeName(baseStem)
	for _, set := range suffixSets {
		located := ""
		for _, suffix := range set.suffixes {
			for _, ext := range extensions {
				candidate := path.Join(d.layout.Maps, base+suffix+ext)
				if _, err := fs.Stat(d.root, candidate); err == nil {
					located = candidate
					break
				}
			}
			if located != "" {
				break
			}
		}
		if located != "" {
			report.Found[set.slot] = located
		} else {
			report.Missing = append(report.Missing, set.slot)
		}
	}
	report.Completeness = float64(len(report.Found)) / 4.0
	return report
}

// dedupeRelationships drops duplicate (target, type) pairs, keeping the
// first occurrence.
func dedupeRelationships(rels []entities.AssetRelationship) []entities.AssetRelationship {
	seen := make(map[string]bool, len(rels))
	out := rels[:0]
	for _, rel := range rels {
		key := rel.TargetAsset + "|" + string(rel.Type)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, rel)
	}
	return out
}

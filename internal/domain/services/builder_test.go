package services

import (
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wcsaga/forge/internal/domain/entities"
)

// stubTableParser returns canned results keyed by path.
type stubTableParser struct {
	results map[string]*entities.TableResult
}

func (s *stubTableParser) ParseTable(path string, _ entities.SoundTable) (*entities.TableResult, error) {
	result, ok := s.results[path]
	if !ok {
		return nil, fmt.Errorf("unrecognized table file: %s", path)
	}
	return result, nil
}

func (s *stubTableParser) ParseSoundTable(string) (entities.SoundTable, error) {
	return nil, nil
}

// memoryHashIndex is a map-backed hash index for dedup tests.
type memoryHashIndex struct {
	m map[string]string
}

func newMemoryHashIndex() *memoryHashIndex {
	return &memoryHashIndex{m: make(map[string]string)}
}

func (h *memoryHashIndex) Get(hash string) (string, error) { return h.m[hash], nil }
func (h *memoryHashIndex) Put(hash, target string) error   { h.m[hash] = target; return nil }
func (h *memoryHashIndex) Close() error                    { return nil }

func shipEntry(name, pof string) entities.TableEntry {
	entry := entities.TableEntry{Name: name}
	entry.Set("pof_file", pof)
	return entry
}

func newTestBuilder(source fstest.MapFS, parser *stubTableParser, hashes *memoryHashIndex) *Builder {
	classifier := NewClassifier()
	discovery := NewDiscovery(source, DefaultDirLayout())
	resolver := NewPathResolver(classifier, "hermes")
	if hashes == nil {
		return NewBuilder(source, parser, classifier, discovery, resolver, nil)
	}
	return NewBuilder(source, parser, classifier, discovery, resolver, hashes)
}

func TestBuilder_BuildFromTables(t *testing.T) {
	shipResult := &entities.TableResult{Source: "ships.tbl", Kind: entities.TableShips}
	fenris := shipEntry("GTC Fenris", "fenris.pof")
	fenris.Set("texture_replace", []entities.TextureReplacement{{Old: "hull_a", New: "hull_b"}})
	shipResult.Entries = append(shipResult.Entries, fenris, shipEntry("Dart", "dart.pof"))

	weaponResult := &entities.TableResult{Source: "weapons.tbl", Kind: entities.TableWeapons}
	javelin := entities.TableEntry{Name: "Javelin HS"}
	javelin.Set("model_file", "javelin.pof")
	javelin.Set("launch_sound", "snd_missile_launch.wav")
	weaponResult.Entries = append(weaponResult.Entries, javelin)

	parser := &stubTableParser{results: map[string]*entities.TableResult{
		"ships.tbl":   shipResult,
		"weapons.tbl": weaponResult,
	}}
	b := newTestBuilder(fstest.MapFS{}, parser, nil)

	rels, types, err := b.BuildFromTables([]string{"ships.tbl", "weapons.tbl"}, nil)
	require.NoError(t, err)

	assert.Equal(t, entities.TypeShip, types["GTC Fenris"])
	// ships.tbl carries weapon entries; the classifier overrides the table
	assert.Equal(t, entities.TypeWeapon, types["Dart"])
	assert.Equal(t, entities.TypeWeapon, types["Javelin HS"])

	fenrisRels := rels["GTC Fenris"]
	require.Len(t, fenrisRels, 2)
	assert.Equal(t, entities.RelPrimaryModel, fenrisRels[0].Type)
	assert.Equal(t, "fenris.pof", fenrisRels[0].TargetAsset)
	assert.True(t, fenrisRels[0].Required)
	assert.Equal(t, "entities/ships/misc/misc/gtc_fenris/gtc_fenris.glb", fenrisRels[0].TargetPath)
	assert.Equal(t, entities.RelTextureReplacement, fenrisRels[1].Type)
	assert.Equal(t, "hull_b", fenrisRels[1].TargetAsset)
	assert.Equal(t, "hull_a", fenrisRels[1].Metadata["replaces"])

	javelinRels := rels["Javelin HS"]
	require.Len(t, javelinRels, 2)
	assert.Equal(t, entities.RelPrimaryModel, javelinRels[0].Type)
	assert.Equal(t, entities.RelFireSound, javelinRels[1].Type)
	assert.Equal(t, "snd_missile_launch.wav", javelinRels[1].TargetAsset)
}

func TestBuilder_BuildFromTables_ParseError(t *testing.T) {
	parser := &stubTableParser{results: map[string]*entities.TableResult{}}
	b := newTestBuilder(fstest.MapFS{}, parser, nil)

	_, _, err := b.BuildFromTables([]string{"bogus.tbl"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing table bogus.tbl")
}

func TestBuilder_BuildFromMissions(t *testing.T) {
	mission := &entities.TableResult{Source: "m01.fs2", Kind: entities.TableMission}
	entry := entities.TableEntry{Name: "m01.fs2"}
	entry.Set("background_bitmaps", []string{"nebula01", "suncorona"})
	entry.Set("wave_names", []string{"alpha_attack.wav"})
	entry.Set("not_a_list", 42)
	mission.Entries = append(mission.Entries, entry)

	parser := &stubTableParser{results: map[string]*entities.TableResult{"m01.fs2": mission}}
	b := newTestBuilder(fstest.MapFS{}, parser, nil)

	rels, err := b.BuildFromMissions([]string{"m01.fs2"})
	require.NoError(t, err)

	refs := rels["m01.fs2"]
	require.Len(t, refs, 3)
	for _, rel := range refs {
		assert.Equal(t, entities.RelMissionReference, rel.Type)
		assert.InDelta(t, 0.6, rel.Strength, 1e-9)
	}
	// sorted by target
	assert.Equal(t, "alpha_attack.wav", refs[0].TargetAsset)
	assert.Equal(t, "nebula01", refs[1].TargetAsset)
	assert.Equal(t, "suncorona", refs[2].TargetAsset)
	assert.Equal(t, "background_bitmaps", refs[1].Metadata["reference_kind"])
}

func TestBuilder_EnhanceWithDiscovery(t *testing.T) {
	source := fstest.MapFS{
		"hermes_maps/tcf_rapier.dds":      &fstest.MapFile{Data: []byte("diffuse")},
		"hermes_maps/tcf_rapier_glow.dds": &fstest.MapFile{Data: []byte("glow")},
	}
	parser := &stubTableParser{}
	b := newTestBuilder(source, parser, nil)

	rels := map[string][]entities.AssetRelationship{
		"tcf_rapier": {{
			SourceAsset: "tcf_rapier",
			TargetAsset: "tcf_rapier.pof",
			Type:        entities.RelPrimaryModel,
			Strength:    1.0,
			Required:    true,
			TargetPath:  "entities/ships/terran/fighters/tcf_rapier/tcf_rapier.glb",
		}},
	}
	types := map[string]entities.EntityType{"tcf_rapier": entities.TypeShip}

	mappings := b.EnhanceWithDiscovery(rels, types)
	require.Contains(t, mappings, "tcf_rapier")
	mapping := mappings["tcf_rapier"]

	require.NotNil(t, mapping.PrimaryAsset)
	assert.Equal(t, entities.RelPrimaryModel, mapping.PrimaryAsset.Type)
	assert.Equal(t, "tcf_rapier.pof", mapping.PrimaryAsset.TargetAsset)

	// the primary is removed from the related list
	for _, rel := range mapping.RelatedAssets {
		assert.NotEqual(t, entities.RelPrimaryModel, rel.Type)
	}

	byType := make(map[entities.RelationshipType]entities.AssetRelationship)
	for _, rel := range mapping.RelatedAssets {
		byType[rel.Type] = rel
		assert.False(t, rel.CreatedAt.IsZero(), "missing created timestamp on %s", rel.TargetAsset)
	}

	diffuse := byType[entities.RelDiffuse]
	assert.Equal(t, "hermes_maps/tcf_rapier.dds", diffuse.TargetAsset)
	assert.Equal(t, "entities/ships/terran/fighters/tcf_rapier/textures/diffuse_tcf_rapier.png", diffuse.TargetPath)

	scene := byType[entities.RelCompleteScene]
	assert.Equal(t, "entities/ships/terran/fighters/tcf_rapier/tcf_rapier.tscn", scene.TargetPath)

	assert.Equal(t, "terran", mapping.Metadata["faction"])
	assert.Equal(t, "fighters", mapping.Metadata["subcategory"])
}

func TestBuilder_ContentDeduplication(t *testing.T) {
	// two entities reference byte-identical textures under different names
	source := fstest.MapFS{
		"hermes_maps/tcf_alpha.dds": &fstest.MapFile{Data: []byte("same bytes")},
		"hermes_maps/tcf_beta.dds":  &fstest.MapFile{Data: []byte("same bytes")},
	}
	hashes := newMemoryHashIndex()
	b := newTestBuilder(source, &stubTableParser{}, hashes)

	rels := map[string][]entities.AssetRelationship{
		"tcf_alpha": {{SourceAsset: "tcf_alpha", TargetAsset: "hermes_maps/tcf_alpha.dds", Type: entities.RelDiffuse, Strength: 0.8}},
		"tcf_beta":  {{SourceAsset: "tcf_beta", TargetAsset: "hermes_maps/tcf_beta.dds", Type: entities.RelDiffuse, Strength: 0.8}},
	}
	types := map[string]entities.EntityType{
		"tcf_alpha": entities.TypeShip,
		"tcf_beta":  entities.TypeShip,
	}

	mappings := b.EnhanceWithDiscovery(rels, types)
	require.Len(t, mappings, 2)

	var targets []string
	for _, mapping := range mappings {
		all := mapping.RelatedAssets
		if mapping.PrimaryAsset != nil {
			all = append(all, *mapping.PrimaryAsset)
		}
		for _, rel := range all {
			if rel.Type == entities.RelDiffuse {
				targets = append(targets, rel.TargetPath)
			}
		}
	}
	require.Len(t, targets, 2)

	// identical content collapses onto one target path
	assert.Equal(t, targets[0], targets[1])
	assert.Equal(t, 1, b.DuplicatesFound())
}

func TestBuilder_DedupSkipsMissingFiles(t *testing.T) {
	hashes := newMemoryHashIndex()
	b := newTestBuilder(fstest.MapFS{}, &stubTableParser{}, hashes)

	rels := map[string][]entities.AssetRelationship{
		"tcf_alpha": {{SourceAsset: "tcf_alpha", TargetAsset: "hermes_maps/missing.dds", Type: entities.RelDiffuse, Strength: 0.8}},
	}
	mappings := b.EnhanceWithDiscovery(rels, map[string]entities.EntityType{"tcf_alpha": entities.TypeShip})

	mapping := mappings["tcf_alpha"]
	require.Len(t, mapping.RelatedAssets, 2) // diffuse + complete scene
	assert.NotEmpty(t, mapping.RelatedAssets[0].TargetPath)
	assert.Equal(t, 0, b.DuplicatesFound())
	assert.Empty(t, hashes.m)
}

package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wcsaga/forge/internal/domain/entities"
)

func TestCleanName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"GTC Fenris", "gtc_fenris"},
		{"F-44A Rapier II", "f-44a_rapier_ii"},
		{"  Mk.25  Javelin  ", "mk_25_javelin"},
		{"__already__clean__", "already_clean"},
		{"***", "unnamed"},
		{"", "unnamed"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanName(tt.in), "input %q", tt.in)
	}
}

func TestConvertExtension(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"fenris.pof", "fenris.glb"},
		{"hull_diffuse.dds", "hull_diffuse.png"},
		{"old_map.PCX", "old_map.png"},
		{"engine_hum.wav", "engine_hum.ogg"},
		{"ambience.ogg", "ambience.ogg"},
		{"warp.eff", "warp.tscn"},
		{"ships.tbl", "ships.tres"},
		{"thruster01.ani", "thruster01_spritesheet.png"},
		{"unknown.xyz", "unknown.xyz"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ConvertExtension(tt.in), "input %q", tt.in)
	}
}

func TestDetectMaterialType(t *testing.T) {
	tests := []struct {
		file string
		want MaterialType
	}{
		{"rapier_hull.dds", MaterialDiffuse},
		{"rapier_hull_normal.dds", MaterialNormal},
		{"rapier_hull_nrm.dds", MaterialNormal},
		{"rapier_hull_spec.dds", MaterialSpecular},
		{"rapier_hull_shine.dds", MaterialSpecular},
		{"rapier_hull_glow.dds", MaterialEmission},
		{"rapier_hull_emit.dds", MaterialEmission},
		{"rapier_hull_bump.dds", MaterialBump},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectMaterialType(tt.file), "file %q", tt.file)
	}
}

func TestPathResolver_EntityPaths(t *testing.T) {
	r := NewPathResolver(NewClassifier(), "hermes")

	t.Run("ship gets faction and subcategory directories", func(t *testing.T) {
		assert.Equal(t,
			"entities/ships/terran/fighters/tcf_rapier/tcf_rapier.glb",
			r.ResolveModelPath("tcf_rapier", entities.TypeShip))
		assert.Equal(t,
			"entities/ships/terran/fighters/tcf_rapier/tcf_rapier.tscn",
			r.ResolveScenePath("tcf_rapier", entities.TypeShip))
	})

	t.Run("unknown faction falls back to misc", func(t *testing.T) {
		assert.Equal(t,
			"entities/ships/misc/capital_ships/gtc_fenris_cruiser/gtc_fenris_cruiser.glb",
			r.ResolveModelPath("GTC Fenris Cruiser", entities.TypeShip))
	})

	t.Run("weapon skips subcategory", func(t *testing.T) {
		assert.Equal(t,
			"entities/weapons/terran/tcm_pilum/tcm_pilum.glb",
			r.ResolveModelPath("tcm_pilum", entities.TypeWeapon))
	})

	t.Run("effect and environment roots", func(t *testing.T) {
		assert.Equal(t,
			"entities/effects/exp20/exp20.tscn",
			r.ResolveScenePath("exp20", entities.TypeEffect))
		assert.Equal(t,
			"entities/environment/asteroids/small_asteroid/small_asteroid.glb",
			r.ResolveModelPath("Small Asteroid", entities.TypeAsteroid))
	})
}

func TestPathResolver_ResolveSemanticFactionPath(t *testing.T) {
	r := NewPathResolver(NewClassifier(), "hermes")

	t.Run("primary model keeps the entity name", func(t *testing.T) {
		got := r.ResolveSemanticFactionPath("tcf_rapier", entities.TypeShip, entities.AssetModel, "rapier_lod0.pof", entities.RelPrimaryModel)
		assert.Equal(t, "entities/ships/terran/fighters/tcf_rapier/tcf_rapier.glb", got)
	})

	t.Run("secondary model keeps its own name", func(t *testing.T) {
		got := r.ResolveSemanticFactionPath("tcf_rapier", entities.TypeShip, entities.AssetModel, "rapier_debris.pof", entities.RelDependsOn)
		assert.Equal(t, "entities/ships/terran/fighters/tcf_rapier/rapier_debris.glb", got)
	})

	t.Run("texture is placed by material type", func(t *testing.T) {
		got := r.ResolveSemanticFactionPath("tcf_rapier", entities.TypeShip, entities.AssetTexture, "rapier_hull_glow.dds", entities.RelGlow)
		assert.Equal(t, "entities/ships/terran/fighters/tcf_rapier/textures/emission_rapier_hull_glow.png", got)
	})

	t.Run("entity audio stays under the entity", func(t *testing.T) {
		got := r.ResolveSemanticFactionPath("tcf_rapier", entities.TypeShip, entities.AssetAudio, "engine_hum.wav", entities.RelSoundEffect)
		assert.Equal(t, "entities/ships/terran/fighters/tcf_rapier/audio/engine_hum.ogg", got)
	})

	t.Run("pilot voice goes to the campaign tree", func(t *testing.T) {
		got := r.ResolveSemanticFactionPath("tcf_rapier", entities.TypeShip, entities.AssetAudio, "03_sandman_12.wav", entities.RelSoundEffect)
		assert.Equal(t, "campaigns/hermes/audio/voice/mission_03/03_sandman_12.ogg", got)
	})
}

func TestPathResolver_ResolveSharedAudioPath(t *testing.T) {
	r := NewPathResolver(NewClassifier(), "hermes")

	assert.Equal(t,
		"campaigns/hermes/audio/voice/control/bradshaw/control_bradshaw_04.ogg",
		r.ResolveSharedAudioPath("control_bradshaw_04.wav"))
	assert.Equal(t,
		"audio/ambient_sounds/nebula_hum.ogg",
		r.ResolveSharedAudioPath("nebula_hum.wav"))
	assert.Equal(t,
		"audio/music/music_briefing.ogg",
		r.ResolveSharedAudioPath("music_briefing.wav"))
}

func TestPathResolver_ResolveDataPath(t *testing.T) {
	r := NewPathResolver(NewClassifier(), "hermes")

	assert.Equal(t, "data/ships/gtc_fenris.tres", r.ResolveDataPath("ships", "GTC Fenris"))
	assert.Equal(t, "data/weapons/javelin_hs.tres", r.ResolveDataPath("weapons", "Javelin HS"))
	assert.Equal(t, "data/ai/captain_behavior.tres", r.ResolveDataPath("ai", "Captain"))
	assert.Equal(t, "data/ai/profiles/saga_retail.tres", r.ResolveDataPath("ai_profiles", "SAGA RETAIL"))
	assert.Equal(t, "data/species/terran.tres", r.ResolveDataPath("species", "Terran"))
}

func TestPathResolver_DefaultCampaign(t *testing.T) {
	r := NewPathResolver(NewClassifier(), "")
	assert.Equal(t,
		"campaigns/hermes/audio/voice/mission_07/07_ninja_01.ogg",
		r.ResolveSharedAudioPath("07_ninja_01.wav"))
}

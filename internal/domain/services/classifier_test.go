package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wcsaga/forge/internal/domain/entities"
)

func TestClassifier_Classify(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name  string
		table entities.TableKind
		want  entities.EntityType
	}{
		// ships.tbl carries weapon definitions; known weapon names are
		// reclassified
		{"Dart", entities.TableShips, entities.TypeWeapon},
		{"Dart#Short", entities.TableShips, entities.TypeWeapon},
		{"Javelin", entities.TableShips, entities.TypeWeapon},
		{"Pilum", entities.TableShips, entities.TypeWeapon},
		{"GTC Fenris", entities.TableShips, entities.TypeShip},
		{"F-44A Rapier II", entities.TableShips, entities.TypeShip},

		{"Laser Cannon", entities.TableWeapons, entities.TypeWeapon},
		{"exp20", entities.TableFireball, entities.TypeEffect},
		{"Small Asteroid", entities.TableAsteroid, entities.TypeAsteroid},
		{"Terran", entities.TableSpecies, entities.TypeSpecies},
		{"Friendly", entities.TableIFF, entities.TypeIFF},

		// no table signal: naming patterns decide
		{"dralthi_mk4", entities.TableUnknown, entities.TypeShip},
		{"warhammer torpedo", entities.TableUnknown, entities.TypeWeapon},
		{"big_explosion_a", entities.TableUnknown, entities.TypeEffect},
		{"mystery_thing", entities.TableUnknown, entities.TypeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.name, tt.table, ""))
		})
	}
}

func TestClassifier_ContextHints(t *testing.T) {
	c := NewClassifier()

	assert.Equal(t, entities.TypeWeapon, c.Classify("zz_proto", entities.TableUnknown, "#Primary Weapons"))
	assert.Equal(t, entities.TypeShip, c.Classify("zz_proto", entities.TableUnknown, "#Ship Classes"))
	assert.Equal(t, entities.TypeUnknown, c.Classify("zz_proto", entities.TableUnknown, ""))
}

func TestClassifier_DetectFaction(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name string
		want entities.Faction
	}{
		{"tcf_rapier", entities.FactionTerran},
		{"TCS_Bradshaw", entities.FactionTerran},
		{"kib_paktahn", entities.FactionKilrathi},
		{"prf_talon", entities.FactionPirate},
		{"bwf_striker", entities.FactionBorderWorlds},
		{"confed_logo", entities.FactionTerran},
		{"GTC Fenris", entities.FactionUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.DetectFaction(tt.name), "name %q", tt.name)
	}
}

func TestClassifier_ClassifySubcategory(t *testing.T) {
	c := NewClassifier()

	// prefix wins
	assert.Equal(t, entities.SubcategoryFighters, c.ClassifySubcategory("tcf_rapier", entities.FactionTerran))
	assert.Equal(t, entities.SubcategoryBombers, c.ClassifySubcategory("kib_paktahn", entities.FactionKilrathi))
	assert.Equal(t, entities.SubcategoryCapitalShips, c.ClassifySubcategory("tcs_bradshaw", entities.FactionTerran))

	// pattern fallback for unprefixed names
	assert.Equal(t, entities.SubcategoryCapitalShips, c.ClassifySubcategory("GTC Fenris Cruiser", entities.FactionUnknown))
	assert.Equal(t, entities.SubcategoryMissiles, c.ClassifySubcategory("Lance Torpedo", entities.FactionUnknown))
	assert.Equal(t, entities.SubcategoryInstallations, c.ClassifySubcategory("Supply Station", entities.FactionUnknown))
	assert.Equal(t, entities.SubcategoryMisc, c.ClassifySubcategory("cargo pod", entities.FactionUnknown))
}

func TestClassifier_Confidence(t *testing.T) {
	c := NewClassifier()

	// table + prefix + ship token
	assert.InDelta(t, 1.0, c.Confidence("tcf_rapier", entities.TableShips), 1e-9)
	// table only
	assert.InDelta(t, 0.7, c.Confidence("Laser Cannon", entities.TableWeapons), 1e-9)
	// nothing
	assert.InDelta(t, 0.0, c.Confidence("mystery", entities.TableUnknown), 1e-9)
}

func TestClassifier_ClassifyByExtension(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		path string
		want entities.EntityType
	}{
		{"models/tcf_rapier.pof", entities.TypeShip},
		{"models/tcm_pilum.pof", entities.TypeWeapon},
		{"models/ast01.pof", entities.TypeAsteroid},
		{"models/sky_nebula.pof", entities.TypeEnvironment},
		{"models/debris01.pof", entities.TypeDebris},
		{"models/supply_base.pof", entities.TypeInstallation},
		{"maps/interface_button.dds", entities.TypeUIElement},
		{"maps/exp_flash.dds", entities.TypeEffect},
		{"effects/warp.eff", entities.TypeEffect},
		{"sounds/engine_hum.wav", entities.TypeSound},
		{"missions/m01.fs2", entities.TypeMission},
		{"font01.vf", entities.TypeUIElement},
		{"notes.txt", entities.TypeUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.ClassifyByExtension(tt.path), "path %q", tt.path)
	}
}

func TestClassifier_ClassifyEntry(t *testing.T) {
	c := NewClassifier()

	result := &entities.TableResult{Source: "ships.tbl", Kind: entities.TableShips}
	entry := entities.TableEntry{Name: "tcf_rapier"}
	entry.Set("pof_file", "rapier.pof")

	entity := c.ClassifyEntry(entry, result)
	assert.Equal(t, "tcf_rapier", entity.Name)
	assert.Equal(t, entities.TypeShip, entity.Type)
	assert.Equal(t, entities.FactionTerran, entity.Faction)
	assert.Equal(t, entities.SubcategoryFighters, entity.Subcategory)
	assert.Equal(t, "ships.tbl", entity.SourceTable)
	require.NotNil(t, entity.Properties)
	assert.Equal(t, "rapier.pof", entity.Properties["pof_file"])
	assert.InDelta(t, 1.0, entity.Confidence, 1e-9)
}

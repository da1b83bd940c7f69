// Package services contains domain business logic.
package services

import (
	"path/filepath"
	"strings"

	"github.com/wcsaga/forge/internal/domain/entities"
)

// weaponTokens are names that appear in ships.tbl but are actually weapons.
// Matching is on the lowercased base name (variant suffixes after `#`
// stripped).
var weaponTokens = map[string]bool{
	"dart": true, "pilum": true, "javelin": true, "spiculum": true,
	"porcupine": true, "lance": true, "warhammer": true, "torpedo": true,
	"missile": true, "paw": true, "fang": true, "stalker": true,
	"claw": true, "scratch": true, "spear": true, "predator": true,
}

// weaponSubstrings force weapon classification when found anywhere in a name.
var weaponSubstrings = []string{"missile", "torpedo", "rocket", "child"}

// shipTokens are naming patterns that imply a ship when no table says
// otherwise.
var shipTokens = []string{
	"hornet", "rapier", "excalibur", "arrow", "ferret", "sabre", "broadsword",
	"epee", "stiletto", "thunderbolt", "hellcat", "scimitar", "raptor",
	"dralthi", "salthi", "gothri", "jalkehi", "grikath", "krant", "gratha",
	"vaktoth", "darket", "strakha", "sartha", "hhriss", "paktahn",
	"carrier", "destroyer", "cruiser", "corvette", "frigate", "transport",
	"tanker", "freighter", "dreadnought",
}

// effectTokens are naming patterns that imply an effect.
var effectTokens = []string{
	"explosion", "blast", "flash", "trail", "exhaust", "muzzle", "impact",
	"debris", "shockwave", "fireball",
}

// factionPrefix maps name prefixes to factions; matched longest first.
type factionPrefix struct {
	prefix      string
	faction     entities.Faction
	subcategory entities.Subcategory
}

var factionPrefixes = []factionPrefix{
	{"confed_", entities.FactionTerran, entities.SubcategoryMisc},
	{"misc_", entities.FactionMisc, entities.SubcategoryMisc},
	{"tcf_", entities.FactionTerran, entities.SubcategoryFighters},
	{"tcb_", entities.FactionTerran, entities.SubcategoryBombers},
	{"tcs_", entities.FactionTerran, entities.SubcategoryCapitalShips},
	{"tcm_", entities.FactionTerran, entities.SubcategoryMissiles},
	{"tci_", entities.FactionTerran, entities.SubcategoryInstallations},
	{"kif_", entities.FactionKilrathi, entities.SubcategoryFighters},
	{"kib_", entities.FactionKilrathi, entities.SubcategoryBombers},
	{"kis_", entities.FactionKilrathi, entities.SubcategoryCapitalShips},
	{"kim_", entities.FactionKilrathi, entities.SubcategoryMissiles},
	{"kii_", entities.FactionKilrathi, entities.SubcategoryInstallations},
	{"kil_", entities.FactionKilrathi, entities.SubcategoryMisc},
	{"prf_", entities.FactionPirate, entities.SubcategoryFighters},
	{"prs_", entities.FactionPirate, entities.SubcategoryCapitalShips},
	{"bwf_", entities.FactionBorderWorlds, entities.SubcategoryFighters},
	{"bws_", entities.FactionBorderWorlds, entities.SubcategoryCapitalShips},
	{"tc_", entities.FactionTerran, entities.SubcategoryMisc},
	{"ki_", entities.FactionKilrathi, entities.SubcategoryMisc},
	{"kb_", entities.FactionKilrathi, entities.SubcategoryMisc},
	{"pr_", entities.FactionPirate, entities.SubcategoryMisc},
	{"bw_", entities.FactionBorderWorlds, entities.SubcategoryMisc},
}

// Classifier maps entity names to types, factions and subcategories.
// Tables lie about types — ships.tbl carries weapon definitions — so the
// table-of-origin is only the first vote, validated against naming
// conventions.
type Classifier struct{}

// NewClassifier creates a classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify returns the entity type for a name extracted from the given
// table. sourceContext carries optional free-form hints (nearby table text).
func (c *Classifier) Classify(name string, tableKind entities.TableKind, sourceContext string) entities.EntityType {
	lower := entities.NormalizeName(name)

	// Table-of-origin is the primary signal.
	switch tableKind {
	case entities.TableShips:
		if c.isWeaponName(lower) {
			return entities.TypeWeapon
		}
		return entities.TypeShip
	case entities.TableWeapons:
		return entities.TypeWeapon
	case entities.TableFireball:
		return entities.TypeEffect
	case entities.TableAsteroid:
		return entities.TypeAsteroid
	case entities.TableSpecies:
		return entities.TypeSpecies
	case entities.TableIFF:
		return entities.TypeIFF
	case entities.TableSounds:
		return entities.TypeSound
	case entities.TableMission:
		return entities.TypeMission
	case entities.TableCampaign:
		return entities.TypeCampaign
	}

	// No table signal: fall back to naming patterns.
	if c.isWeaponName(lower) {
		return entities.TypeWeapon
	}
	for _, token := range shipTokens {
		if strings.Contains(lower, token) {
			return entities.TypeShip
		}
	}
	for _, token := range effectTokens {
		if strings.Contains(lower, token) {
			return entities.TypeEffect
		}
	}

	// Context hints are the weakest signal.
	context := strings.ToLower(sourceContext)
	switch {
	case strings.Contains(context, "weapon"):
		return entities.TypeWeapon
	case strings.Contains(context, "ship"):
		return entities.TypeShip
	case strings.Contains(context, "effect"):
		return entities.TypeEffect
	}

	return entities.TypeUnknown
}

// isWeaponName checks the known-weapon token list, weapon substrings, and
// `#`-variant base names.
func (c *Classifier) isWeaponName(lower string) bool {
	base := lower
	if idx := strings.Index(base, "#"); idx >= 0 {
		base = strings.TrimSpace(base[:idx])
	}
	if weaponTokens[base] || weaponTokens[lower] {
		return true
	}
	for _, sub := range weaponSubstrings {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}

// DetectFaction derives the faction from the entity name prefix using a
// longest-prefix match.
func (c *Classifier) DetectFaction(name string) entities.Faction {
	if p := c.matchPrefix(name); p != nil {
		return p.faction
	}
	return entities.FactionUnknown
}

// ClassifySubcategory derives the subcategory from the same prefix table,
// with a pattern fallback for unprefixed names.
func (c *Classifier) ClassifySubcategory(name string, faction entities.Faction) entities.Subcategory {
	if p := c.matchPrefix(name); p != nil && p.subcategory != entities.SubcategoryMisc {
		return p.subcategory
	}
	lower := entities.NormalizeName(name)
	switch {
	case strings.Contains(lower, "bomber"):
		return entities.SubcategoryBombers
	case strings.Contains(lower, "missile") || strings.Contains(lower, "torpedo"):
		return entities.SubcategoryMissiles
	case strings.Contains(lower, "station") || strings.Contains(lower, "base") || strings.Contains(lower, "platform"):
		return entities.SubcategoryInstallations
	case strings.Contains(lower, "fighter"):
		return entities.SubcategoryFighters
	}
	for _, token := range []string{"carrier", "destroyer", "cruiser", "corvette", "frigate", "dreadnought", "transport", "tanker", "freighter"} {
		if strings.Contains(lower, token) {
			return entities.SubcategoryCapitalShips
		}
	}
	return entities.SubcategoryMisc
}

func (c *Classifier) matchPrefix(name string) *factionPrefix {
	lower := entities.NormalizeName(name)
	var best *factionPrefix
	for i := range factionPrefixes {
		p := &factionPrefixes[i]
		if strings.HasPrefix(lower, p.prefix) {
			if best == nil || len(p.prefix) > len(best.prefix) {
				best = p
			}
		}
	}
	return best
}

// Confidence scores a classification: table-derived type contributes 0.7,
// a matching faction prefix 0.2, a matching ship-name pattern 0.1, clamped
// to 1.0.
func (c *Classifier) Confidence(name string, tableKind entities.TableKind) float64 {
	score := 0.0
	if tableKind != entities.TableUnknown {
		score += 0.7
	}
	if c.matchPrefix(name) != nil {
		score += 0.2
	}
	lower := entities.NormalizeName(name)
	for _, token := range shipTokens {
		if strings.Contains(lower, token) {
			score += 0.1
			break
		}
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// ClassifyByExtension maps a file path to an entity type using its extension
// and, for models and images, filename heuristics.
func (c *Classifier) ClassifyByExtension(path string) entities.EntityType {
	lower := strings.ToLower(path)
	stem := strings.TrimSuffix(filepath.Base(lower), filepath.Ext(lower))

	switch filepath.Ext(lower) {
	case ".pof":
		return c.classifyModelStem(stem)
	case ".dds", ".pcx", ".tga":
		if strings.Contains(lower, "interface") {
			return entities.TypeUIElement
		}
		return entities.TypeEffect
	case ".eff":
		return entities.TypeEffect
	case ".wav", ".ogg":
		return entities.TypeSound
	case ".fs2":
		return entities.TypeMission
	case ".fc2":
		return entities.TypeCampaign
	case ".tbm":
		return entities.TypeTableMod
	case ".tbl":
		return entities.TypeTableMod
	case ".vf":
		return entities.TypeUIElement
	default:
		return entities.TypeUnknown
	}
}

// classifyModelStem applies the .pof filename heuristics.
func (c *Classifier) classifyModelStem(stem string) entities.EntityType {
	switch {
	case strings.HasPrefix(stem, "ast"):
		return entities.TypeAsteroid
	case strings.HasPrefix(stem, "sky_"):
		return entities.TypeEnvironment
	}
	if c.isWeaponName(stem) {
		return entities.TypeWeapon
	}
	for _, token := range shipTokens {
		if strings.Contains(stem, token) {
			return entities.TypeShip
		}
	}
	if strings.Contains(stem, "debris") || strings.Contains(stem, "rock") {
		return entities.TypeDebris
	}
	for _, token := range []string{"base", "station", "platform"} {
		if strings.Contains(stem, token) {
			return entities.TypeInstallation
		}
	}
	for _, token := range []string{"shockwave", "warp", "subspace", "jump"} {
		if strings.Contains(stem, token) {
			return entities.TypeEffect
		}
	}
	if p := c.matchPrefix(stem); p != nil {
		switch p.subcategory {
		case entities.SubcategoryMissiles:
			return entities.TypeWeapon
		case entities.SubcategoryInstallations:
			return entities.TypeInstallation
		default:
			return entities.TypeShip
		}
	}
	return entities.TypeUnknown
}

// ClassifyEntry classifies a full table entry into a domain Entity.
func (c *Classifier) ClassifyEntry(entry entities.TableEntry, result *entities.TableResult) entities.Entity {
	entityType := c.Classify(entry.Name, result.Kind, "")
	faction := c.DetectFaction(entry.Name)
	return entities.Entity{
		Name:        entry.Name,
		Type:        entityType,
		Faction:     faction,
		Subcategory: c.ClassifySubcategory(entry.Name, faction),
		SourceTable: result.Source,
		Properties:  entry.Properties,
		Confidence:  c.Confidence(entry.Name, result.Kind),
		ParseErrors: entry.Errors,
	}
}

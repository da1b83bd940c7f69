// Package entities contains core domain data structures.
package entities

import (
	"strings"
	"time"
)

// EntityType categorizes a record extracted from a table or mission file.
type EntityType string

// Entity types known to the pipeline.
const (
	TypeShip         EntityType = "ship"
	TypeWeapon       EntityType = "weapon"
	TypeArmor        EntityType = "armor"
	TypeEffect       EntityType = "effect"
	TypeAsteroid     EntityType = "asteroid"
	TypeDebris       EntityType = "debris"
	TypeInstallation EntityType = "installation"
	TypeMission      EntityType = "mission"
	TypeCampaign     EntityType = "campaign"
	TypeSpecies      EntityType = "species"
	TypeIFF          EntityType = "iff"
	TypeFireball     EntityType = "fireball"
	TypeMusic        EntityType = "music"
	TypeSound        EntityType = "sound"
	TypeUIElement    EntityType = "ui_element"
	TypeTableMod     EntityType = "table_mod"
	TypeEnvironment  EntityType = "environment"
	TypeMisc         EntityType = "misc"
	TypeUnknown      EntityType = "unknown"
)

// Faction is an allegiance tag derived from an entity's name prefix.
type Faction string

// Factions recognized by the classifier.
const (
	FactionTerran       Faction = "terran"
	FactionKilrathi     Faction = "kilrathi"
	FactionPirate       Faction = "pirate"
	FactionBorderWorlds Faction = "border_worlds"
	FactionMisc         Faction = "misc"
	FactionUnknown      Faction = "unknown"
)

// Subcategory is a finer classification within a faction.
type Subcategory string

// Subcategories recognized by the classifier.
const (
	SubcategoryFighters      Subcategory = "fighters"
	SubcategoryBombers       Subcategory = "bombers"
	SubcategoryCapitalShips  Subcategory = "capital_ships"
	SubcategoryMissiles      Subcategory = "missiles"
	SubcategoryInstallations Subcategory = "installations"
	SubcategoryMisc          Subcategory = "misc"
)

// Entity represents a named, typed record extracted from a game table or
// mission file. (Name, SourceTable) is unique across a pipeline run.
type Entity struct {
	Name        string         `json:"name"`
	Type        EntityType     `json:"type"`
	Faction     Faction        `json:"faction"`
	Subcategory Subcategory    `json:"subcategory"`
	SourceTable string         `json:"source_table,omitempty"`
	Properties  map[string]any `json:"properties,omitempty"`
	Confidence  float64        `json:"classification_confidence"`
	ParseErrors []string       `json:"parse_errors,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Key returns the uniqueness key for an entity within a run.
func (e *Entity) Key() string {
	return e.SourceTable + "/" + NormalizeName(e.Name)
}

// NormalizeName converts a name to lowercase for case-insensitive matching.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

package entities

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/wcsaga/forge/internal/domain/diag"
)

// TableKind identifies a game table family.
type TableKind string

// Table kinds understood by the pipeline.
const (
	TableShips      TableKind = "ships"
	TableWeapons    TableKind = "weapons"
	TableAI         TableKind = "ai"
	TableAIProfiles TableKind = "ai_profiles"
	TableSpecies    TableKind = "species"
	TableIFF        TableKind = "iff"
	TableFireball   TableKind = "fireball"
	TableAsteroid   TableKind = "asteroid"
	TableSounds     TableKind = "sounds"
	TableMission    TableKind = "mission"
	TableCampaign   TableKind = "campaign"
	TableUnknown    TableKind = "unknown"
)

// TableKindForFile maps a filename to its table kind.
func TableKindForFile(path string) TableKind {
	base := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasPrefix(base, "ships"):
		return TableShips
	case strings.HasPrefix(base, "weapon"):
		return TableWeapons
	case strings.HasPrefix(base, "ai_profiles"):
		return TableAIProfiles
	case strings.HasPrefix(base, "ai"):
		return TableAI
	case strings.HasPrefix(base, "species"):
		return TableSpecies
	case strings.HasPrefix(base, "iff"):
		return TableIFF
	case strings.HasPrefix(base, "fireball"):
		return TableFireball
	case strings.HasPrefix(base, "asteroid"):
		return TableAsteroid
	case strings.HasPrefix(base, "sounds"):
		return TableSounds
	case strings.HasSuffix(base, ".fs2"):
		return TableMission
	case strings.HasSuffix(base, ".fc2"):
		return TableCampaign
	default:
		return TableUnknown
	}
}

// SoundTable maps sound ids declared in sounds.tbl to their wav filenames.
type SoundTable map[int]string

// TextureReplacement is one +old/+new pair of a $Texture Replace block.
type TextureReplacement struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// TableEntry is one named record extracted from a table.
type TableEntry struct {
	Name       string         `json:"name"`
	Properties map[string]any `json:"properties,omitempty"`
	Errors     []string       `json:"errors,omitempty"`
}

// Set stores a property on the entry.
func (e *TableEntry) Set(key string, value any) {
	if e.Properties == nil {
		e.Properties = make(map[string]any)
	}
	e.Properties[key] = value
}

// Annotate marks the entry with a parsing problem without invalidating it.
func (e *TableEntry) Annotate(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

// TableResult is the output of one table parse.
type TableResult struct {
	Source      string            `json:"source"`
	Kind        TableKind         `json:"kind"`
	Entries     []TableEntry      `json:"entries"`
	Diagnostics []diag.Diagnostic `json:"diagnostics,omitempty"`
}

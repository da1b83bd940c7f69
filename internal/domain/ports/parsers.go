// Package ports defines the interfaces between domain services and
// infrastructure implementations.
package ports

import "github.com/wcsaga/forge/internal/domain/entities"

// TableParser parses game table, mission and campaign files into table
// results.
type TableParser interface {
	// ParseTable parses the file at path with the parser matching its table
	// kind. sounds may be nil.
	ParseTable(path string, sounds entities.SoundTable) (*entities.TableResult, error)

	// ParseSoundTable parses sounds.tbl into an id → filename lookup.
	ParseSoundTable(path string) (entities.SoundTable, error)
}

// ModelParser parses POF model files.
type ModelParser interface {
	Parse(path string) (*entities.ModelData, error)
}

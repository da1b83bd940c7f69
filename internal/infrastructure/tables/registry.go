package tables

import (
	"fmt"

	"github.com/wcsaga/forge/internal/domain/entities"
)

// Parser dispatches table files to their family parsers. It implements
// ports.TableParser.
type Parser struct{}

// NewParser creates a dispatching parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseTable parses the file at path with the parser matching its table
// kind. sounds may be nil; weapons then keep unresolved launch sound ids.
func (p *Parser) ParseTable(path string, sounds entities.SoundTable) (*entities.TableResult, error) {
	switch entities.TableKindForFile(path) {
	case entities.TableShips:
		return ParseShips(path)
	case entities.TableWeapons:
		return ParseWeapons(path, sounds)
	case entities.TableAI:
		return ParseAI(path)
	case entities.TableAIProfiles:
		return ParseAIProfiles(path)
	case entities.TableSpecies:
		return ParseSpecies(path)
	case entities.TableIFF:
		return ParseIFF(path)
	case entities.TableFireball:
		return ParseFireball(path)
	case entities.TableAsteroid:
		return ParseAsteroid(path)
	case entities.TableMission:
		return ParseMission(path)
	case entities.TableCampaign:
		return ParseCampaign(path)
	case entities.TableSounds:
		return nil, fmt.Errorf("sounds.tbl is a lookup table, use ParseSounds: %s", path)
	default:
		return nil, fmt.Errorf("unrecognized table file: %s", path)
	}
}

// ParseSoundTable parses sounds.tbl into a lookup table.
func (p *Parser) ParseSoundTable(path string) (entities.SoundTable, error) {
	return ParseSounds(path)
}

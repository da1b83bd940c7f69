package tables

import (
	"strings"

	"github.com/wcsaga/forge/internal/domain/diag"
	"github.com/wcsaga/forge/internal/domain/entities"
)

// ParseShips parses a ships.tbl file. The table historically contains weapon
// definitions alongside ships; every extracted name must be reclassified by
// the entity classifier before being treated as a ship.
func ParseShips(path string) (*entities.TableResult, error) {
	state, err := NewParseStateFromFile(path)
	if err != nil {
		return nil, err
	}
	return parseShips(state), nil
}

// ParseShipsContent parses ships.tbl content held in memory.
func ParseShipsContent(source string, data []byte) *entities.TableResult {
	return parseShips(NewParseState(source, data))
}

func parseShips(state *ParseState) *entities.TableResult {
	result := &entities.TableResult{Source: state.Source, Kind: entities.TableShips}
	var current *entities.TableEntry
	var pendingOld string

	flush := func() {
		if current != nil {
			if _, ok := current.Properties["pof_file"]; !ok {
				current.Annotate("missing $POF file")
			}
			result.Entries = append(result.Entries, *current)
			current = nil
		}
	}

	for {
		line, ok := state.Next()
		if !ok {
			break
		}
		if name, isSection := Section(line); isSection {
			if strings.EqualFold(name, "End") {
				flush()
			}
			continue
		}

		if key, value, ok := KeyValue(line); ok {
			switch strings.ToLower(key) {
			case "name":
				flush()
				value = strings.TrimPrefix(value, "@")
				if !ValidName(value) {
					state.Diagnostics().Warnf(diag.CategoryParsing, "line %d: invalid ship name %q, entry dropped", state.Line(), value)
					continue
				}
				current = &entities.TableEntry{Name: value}
			case "pof file":
				if current != nil && !strings.EqualFold(value, "none") {
					current.Set("pof_file", value)
				}
			case "texture replace":
				// Block of +old/+new pairs follows.
			}
			continue
		}

		if key, value, ok := SubKeyValue(line); ok && current != nil {
			switch strings.ToLower(key) {
			case "old":
				pendingOld = value
			case "new":
				if pendingOld != "" {
					reps, _ := current.Properties["texture_replace"].([]entities.TextureReplacement)
					current.Set("texture_replace", append(reps, entities.TextureReplacement{Old: pendingOld, New: value}))
					pendingOld = ""
				}
			}
		}
	}
	flush()

	result.Diagnostics = state.Diagnostics().All()
	return result
}

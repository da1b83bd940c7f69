package tables

import (
	"strings"

	"github.com/wcsaga/forge/internal/domain/diag"
	"github.com/wcsaga/forge/internal/domain/entities"
)

// aiScaleKeys maps lowercased ai.tbl keys to property names. Every value is
// a five-element per-difficulty array.
var aiScaleKeys = map[string]string{
	"accuracy":                     "accuracy",
	"evasion":                      "evasion",
	"courage":                      "courage",
	"patience":                     "patience",
	"afterburner use factor":       "afterburner_use_factor",
	"shockwave evade chances per second": "shockwave_evade_chances",
	"shockwave evade chances":      "shockwave_evade_chances",
	"get away chance":              "get_away_chance",
	"secondary range multiplier":   "secondary_range_multiplier",
	"bomb range multiplier":        "bomb_range_multiplier",
	"chance to use missiles on plr": "countermeasure_firing_chance",
	"countermeasure firing chance": "countermeasure_firing_chance",
}

// ParseAI parses ai.tbl behavior classes.
func ParseAI(path string) (*entities.TableResult, error) {
	state, err := NewParseStateFromFile(path)
	if err != nil {
		return nil, err
	}
	return parseAI(state), nil
}

// ParseAIContent parses ai.tbl content held in memory.
func ParseAIContent(source string, data []byte) *entities.TableResult {
	return parseAI(NewParseState(source, data))
}

func parseAI(state *ParseState) *entities.TableResult {
	result := &entities.TableResult{Source: state.Source, Kind: entities.TableAI}
	var current *entities.TableEntry

	flush := func() {
		if current != nil {
			result.Entries = append(result.Entries, *current)
			current = nil
		}
	}

	for {
		line, ok := state.Next()
		if !ok {
			break
		}
		if _, isSection := Section(line); isSection {
			flush()
			continue
		}
		key, value, ok := KeyValue(line)
		if !ok {
			continue
		}
		lower := strings.ToLower(key)
		switch {
		case lower == "name":
			flush()
			if !ValidName(value) {
				state.Diagnostics().Warnf(diag.CategoryParsing, "line %d: invalid AI class name %q", state.Line(), value)
				continue
			}
			current = &entities.TableEntry{Name: value}
		case lower == "autoscale by ai class" || lower == "ai class autoscale":
			if current != nil {
				current.Set("autoscale_by_ai_class", ParseBool(value))
			}
		default:
			prop, known := aiScaleKeys[lower]
			if !known || current == nil {
				continue
			}
			if scale, ok := ParseDifficultyScale(state, key, value); ok {
				current.Set(prop, scale)
			} else {
				current.Annotate("unparsable $%s", key)
			}
		}
	}
	flush()

	result.Diagnostics = state.Diagnostics().All()
	return result
}

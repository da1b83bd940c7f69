package tables

import (
	"strings"

	"github.com/wcsaga/forge/internal/domain/diag"
	"github.com/wcsaga/forge/internal/domain/entities"
)

// ParseSpecies parses species_defs.tbl (or the older species.tbl).
func ParseSpecies(path string) (*entities.TableResult, error) {
	state, err := NewParseStateFromFile(path)
	if err != nil {
		return nil, err
	}
	return parseSpecies(state), nil
}

// ParseSpeciesContent parses species table content held in memory.
func ParseSpeciesContent(source string, data []byte) *entities.TableResult {
	return parseSpecies(NewParseState(source, data))
}

func parseSpecies(state *ParseState) *entities.TableResult {
	result := &entities.TableResult{Source: state.Source, Kind: entities.TableSpecies}
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

		if key, value, ok := KeyValue(line); ok {
			lower := strings.ToLower(key)
			switch lower {
			case "species_name", "name":
				flush()
				if !ValidName(value) {
					state.Diagnostics().Warnf(diag.CategoryParsing, "line %d: invalid species name %q", state.Line(), value)
					continue
				}
				current = &entities.TableEntry{Name: value}
			case "default iff":
				setIf(current, "default_iff", value)
			case "default armor":
				setIf(current, "default_armor", value)
			case "fred color", "color":
				if current == nil {
					continue
				}
				rgb, err := parseRGB(value)
				if err != nil {
					current.Annotate("unparsable color %q", value)
					continue
				}
				current.Set("color", rgb)
			case "ai aggression":
				setFloatIf(state, current, "ai_aggression", key, value)
			case "ai caution":
				setFloatIf(state, current, "ai_caution", key, value)
			case "ai accuracy":
				setFloatIf(state, current, "ai_accuracy", key, value)
			case "debris texture":
				setIf(current, "debris_texture", value)
			case "shield hit ani":
				setIf(current, "shield_hit_ani", value)
			case "awacs multiplier", "awacsmultiplier":
				setFloatIf(state, current, "awacs_multiplier", key, value)
			case "thrust anims", "thrust glows":
				// Sub-entries follow as +Key lines.
			}
			continue
		}

		if key, value, ok := SubKeyValue(line); ok && current != nil {
			lower := strings.ToLower(key)
			switch lower {
			case "normal", "afterburn":
				anims, _ := current.Properties["thrust_anims"].([]string)
				current.Set("thrust_anims", append(anims, value))
			case "glow":
				glows, _ := current.Properties["thrust_glows"].([]string)
				current.Set("thrust_glows", append(glows, value))
			}
		}
	}
	flush()

	result.Diagnostics = state.Diagnostics().All()
	return result
}

func setIf(e *entities.TableEntry, key, value string) {
	if e != nil && value != "" {
		e.Set(key, value)
	}
}

func setFloatIf(state *ParseState, e *entities.TableEntry, prop, key, value string) {
	if e == nil {
		return
	}
	values, err := ParseFloatList(value)
	if err != nil || len(values) == 0 {
		e.Annotate("unparsable $%s %q", key, value)
		return
	}
	e.Set(prop, values[0])
}

// parseRGB parses a `r g b` or `( r, g, b )` byte triplet.
func parseRGB(value string) ([3]int, error) {
	var rgb [3]int
	values, err := ParseFloatList(value)
	if err != nil {
		return rgb, err
	}
	if len(values) < 3 {
		return rgb, errTooFewComponents
	}
	for i := 0; i < 3; i++ {
		c := int(values[i])
		if c < 0 {
			c = 0
		}
		if c > 255 {
			c = 255
		}
		rgb[i] = c
	}
	return rgb, nil
}

package tables

import (
	"strings"

	"github.com/wcsaga/forge/internal/domain/diag"
	"github.com/wcsaga/forge/internal/domain/entities"
)

// profileScaleKeys maps lowercased ai_profiles.tbl keys carrying five-element
// difficulty arrays to property names.
var profileScaleKeys = map[string]string{
	"player weapon recharge scale":   "primary_weapon_delay",
	"primary weapon delay":           "primary_weapon_delay",
	"secondary weapon delay":         "secondary_weapon_delay",
	"shield manage delay":            "shield_manage_delay",
	"predict position delay":         "predict_position_delay",
	"in range time":                  "in_range_time",
	"accuracy scale":                 "accuracy_scale",
	"evasion scale":                  "evasion_scale",
	"courage scale":                  "courage_scale",
}

// profileFlagKeys maps lowercased boolean flag keys to property names.
var profileFlagKeys = map[string]string{
	"use countermeasures":    "use_countermeasures",
	"evade missiles":         "evade_missiles",
	"allow player targeting": "allow_player_targeting",
	"ai aims at friendly":    "ai_aims_at_friendly",
	"respect player orders":  "respect_player_orders",
}

// ParseAIProfiles parses ai_profiles.tbl.
func ParseAIProfiles(path string) (*entities.TableResult, error) {
	state, err := NewParseStateFromFile(path)
	if err != nil {
		return nil, err
	}
	return parseAIProfiles(state), nil
}

// ParseAIProfilesContent parses ai_profiles.tbl content held in memory.
func ParseAIProfilesContent(source string, data []byte) *entities.TableResult {
	return parseAIProfiles(NewParseState(source, data))
}

func parseAIProfiles(state *ParseState) *entities.TableResult {
	result := &entities.TableResult{Source: state.Source, Kind: entities.TableAIProfiles}
	var current *entities.TableEntry
	defaultProfile := ""

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
		case lower == "profile name":
			flush()
			if !ValidName(value) {
				state.Diagnostics().Warnf(diag.CategoryParsing, "line %d: invalid profile name %q", state.Line(), value)
				continue
			}
			current = &entities.TableEntry{Name: value}
			if defaultProfile != "" {
				current.Set("default_profile", defaultProfile)
			}
		case lower == "default profile":
			// Declared before the profiles; inherited by each one.
			defaultProfile = value
			if current != nil {
				current.Set("default_profile", value)
			}
		default:
			if current == nil {
				continue
			}
			if prop, known := profileScaleKeys[lower]; known {
				if scale, ok := ParseDifficultyScale(state, key, value); ok {
					current.Set(prop, scale)
				} else {
					current.Annotate("unparsable $%s", key)
				}
				continue
			}
			if prop, known := profileFlagKeys[lower]; known {
				current.Set(prop, ParseBool(value))
			}
		}
	}
	flush()

	result.Diagnostics = state.Diagnostics().All()
	return result
}

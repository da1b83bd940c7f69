package tables

import (
	"strconv"
	"strings"

	"github.com/wcsaga/forge/internal/domain/diag"
	"github.com/wcsaga/forge/internal/domain/entities"
)

// ParseSounds parses sounds.tbl `$Name: <id> <filename>` records into a
// lookup table.
func ParseSounds(path string) (entities.SoundTable, error) {
	state, err := NewParseStateFromFile(path)
	if err != nil {
		return nil, err
	}
	return parseSounds(state), nil
}

// ParseSoundsContent parses sounds.tbl content held in memory.
func ParseSoundsContent(source string, data []byte) entities.SoundTable {
	return parseSounds(NewParseState(source, data))
}

func parseSounds(state *ParseState) entities.SoundTable {
	sounds := make(entities.SoundTable)
	for {
		line, ok := state.Next()
		if !ok {
			return sounds
		}
		key, value, ok := KeyValue(line)
		if !ok || !strings.EqualFold(key, "name") {
			continue
		}
		fields := strings.Fields(value)
		if len(fields) < 2 {
			state.Diagnostics().Warnf(diag.CategoryParsing, "line %d: malformed sound entry %q", state.Line(), value)
			continue
		}
		id, err := strconv.Atoi(strings.TrimSuffix(fields[0], ","))
		if err != nil {
			state.Diagnostics().Warnf(diag.CategoryParsing, "line %d: non-numeric sound id %q", state.Line(), fields[0])
			continue
		}
		sounds[id] = strings.TrimSuffix(fields[1], ",")
	}
}

// ParseWeapons parses a weapons.tbl (or weapon_expl.tbl) file. sounds may be
// nil; launch sound ids then stay unresolved.
func ParseWeapons(path string, sounds entities.SoundTable) (*entities.TableResult, error) {
	state, err := NewParseStateFromFile(path)
	if err != nil {
		return nil, err
	}
	return parseWeapons(state, sounds), nil
}

// ParseWeaponsContent parses weapons.tbl content held in memory.
func ParseWeaponsContent(source string, data []byte, sounds entities.SoundTable) *entities.TableResult {
	return parseWeapons(NewParseState(source, data), sounds)
}

func parseWeapons(state *ParseState, sounds entities.SoundTable) *entities.TableResult {
	result := &entities.TableResult{Source: state.Source, Kind: entities.TableWeapons}
	var current *entities.TableEntry
	section := ""

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
		if name, isSection := Section(line); isSection {
			flush()
			switch {
			case strings.EqualFold(name, "Primary Weapons"):
				section = "primary"
			case strings.EqualFold(name, "Secondary Weapons"):
				section = "secondary"
			case strings.EqualFold(name, "End"):
				section = ""
			}
			continue
		}

		key, value, ok := KeyValue(line)
		if !ok {
			continue
		}
		switch strings.ToLower(key) {
		case "name":
			flush()
			// @-prefixed names are internal references, not weapons.
			if strings.HasPrefix(value, "@") {
				continue
			}
			if !ValidName(value) {
				state.Diagnostics().Warnf(diag.CategoryParsing, "line %d: invalid weapon name %q, entry dropped", state.Line(), value)
				continue
			}
			current = &entities.TableEntry{Name: value}
			if section != "" {
				current.Set("section", section)
			}
		case "model file":
			if current != nil && !strings.EqualFold(value, "none") {
				current.Set("model_file", value)
			}
		case "launchsnd":
			if current == nil {
				continue
			}
			fields := strings.Fields(value)
			if len(fields) == 0 {
				current.Annotate("empty $LaunchSnd value")
				continue
			}
			id, err := strconv.Atoi(fields[0])
			if err != nil {
				current.Annotate("non-numeric $LaunchSnd %q", value)
				continue
			}
			current.Set("launch_sound_id", id)
			if sounds != nil {
				if wav, ok := sounds[id]; ok {
					current.Set("launch_sound", wav)
				} else {
					current.Annotate("launch sound id %d not in sounds.tbl", id)
				}
			}
		}
	}
	flush()

	result.Diagnostics = state.Diagnostics().All()
	return result
}

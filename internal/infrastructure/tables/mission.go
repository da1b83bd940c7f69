package tables

import (
	"strings"

	"github.com/wcsaga/forge/internal/domain/entities"
)

// missionKeys are the `+Key:` asset references scraped from .fs2 files,
// mapped to the property list they accumulate under.
var missionKeys = map[string]string{
	"avi name":          "avi_names",
	"wave name":         "wave_names",
	"music":             "music",
	"skybox model":      "skybox_models",
	"texture":           "textures",
	"background bitmap": "background_bitmaps",
	"sun bitmap":        "sun_bitmaps",
}

// campaignKeys are the `+Key:` references scraped from .fc2 files.
var campaignKeys = map[string]string{
	"intro movie":    "intro_movies",
	"briefing audio": "briefing_audio",
	"mission file":   "mission_files",
	"fiction":        "fiction",
	"mainhall":       "mainhalls",
}

// ParseMission scrapes asset and ship references from a .fs2 mission file.
// Missions are not fully decoded; the pipeline only needs the file names the
// mission pulls in and the ship names it places.
func ParseMission(path string) (*entities.TableResult, error) {
	state, err := NewParseStateFromFile(path)
	if err != nil {
		return nil, err
	}
	return scrapeReferences(state, entities.TableMission, missionKeys, true), nil
}

// ParseMissionContent scrapes a mission held in memory.
func ParseMissionContent(source string, data []byte) *entities.TableResult {
	return scrapeReferences(NewParseState(source, data), entities.TableMission, missionKeys, true)
}

// ParseCampaign scrapes references from a .fc2 campaign file.
func ParseCampaign(path string) (*entities.TableResult, error) {
	state, err := NewParseStateFromFile(path)
	if err != nil {
		return nil, err
	}
	return scrapeReferences(state, entities.TableCampaign, campaignKeys, false), nil
}

// ParseCampaignContent scrapes a campaign held in memory.
func ParseCampaignContent(source string, data []byte) *entities.TableResult {
	return scrapeReferences(NewParseState(source, data), entities.TableCampaign, campaignKeys, false)
}

// scrapeReferences produces a single entry named after the file whose
// properties accumulate every matched reference. shipNames additionally
// collects `$Name:` ship placements.
func scrapeReferences(state *ParseState, kind entities.TableKind, keys map[string]string, shipNames bool) *entities.TableResult {
	result := &entities.TableResult{Source: state.Source, Kind: kind}
	entry := entities.TableEntry{Name: state.Source}

	appendValue := func(prop, value string) {
		value = strings.Trim(strings.TrimSpace(value), `"`)
		if value == "" || strings.EqualFold(value, "none") {
			return
		}
		list, _ := entry.Properties[prop].([]string)
		for _, existing := range list {
			if strings.EqualFold(existing, value) {
				return
			}
		}
		entry.Set(prop, append(list, value))
	}

	for {
		line, ok := state.Next()
		if !ok {
			break
		}
		if key, value, ok := SubKeyValue(line); ok {
			if prop, known := keys[strings.ToLower(key)]; known {
				appendValue(prop, value)
			}
			continue
		}
		if shipNames {
			if key, value, ok := KeyValue(line); ok && strings.EqualFold(key, "name") {
				if ValidName(value) {
					appendValue("ship_names", value)
				}
			}
		}
	}

	result.Entries = append(result.Entries, entry)
	result.Diagnostics = state.Diagnostics().All()
	return result
}

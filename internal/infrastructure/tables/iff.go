package tables

import (
	"errors"
	"strings"

	"github.com/wcsaga/forge/internal/domain/diag"
	"github.com/wcsaga/forge/internal/domain/entities"
)

var errTooFewComponents = errors.New("expected 3 color components")

// ParseIFF parses iff_defs.tbl.
func ParseIFF(path string) (*entities.TableResult, error) {
	state, err := NewParseStateFromFile(path)
	if err != nil {
		return nil, err
	}
	return parseIFF(state), nil
}

// ParseIFFContent parses iff_defs.tbl content held in memory.
func ParseIFFContent(source string, data []byte) *entities.TableResult {
	return parseIFF(NewParseState(source, data))
}

func parseIFF(state *ParseState) *entities.TableResult {
	result := &entities.TableResult{Source: state.Source, Kind: entities.TableIFF}
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
			// `+Sees <IFF> As: ( r, g, b )` color overrides.
			subkey, subvalue, ok := SubKeyValue(line)
			if !ok || current == nil {
				continue
			}
			lower := strings.ToLower(subkey)
			if strings.HasPrefix(lower, "sees ") && strings.HasSuffix(lower, " as") {
				target := strings.TrimSpace(subkey[5 : len(subkey)-3])
				rgb, err := parseRGB(subvalue)
				if err != nil {
					current.Annotate("unparsable sees-as color for %q: %q", target, subvalue)
					continue
				}
				seesAs, _ := current.Properties["sees_as"].(map[string][3]int)
				if seesAs == nil {
					seesAs = make(map[string][3]int)
				}
				seesAs[target] = rgb
				current.Set("sees_as", seesAs)
			}
			continue
		}

		lower := strings.ToLower(key)
		switch lower {
		case "iff name", "name":
			flush()
			if !ValidName(value) {
				state.Diagnostics().Warnf(diag.CategoryParsing, "line %d: invalid IFF name %q", state.Line(), value)
				continue
			}
			current = &entities.TableEntry{Name: value}
		case "color", "colour":
			if current == nil {
				continue
			}
			rgb, err := parseRGB(value)
			if err != nil {
				current.Annotate("unparsable color %q", value)
				continue
			}
			current.Set("color", rgb)
		case "attacks":
			if current != nil {
				current.Set("attacks", ParseQuotedList(value))
			}
		case "flags":
			if current != nil {
				current.Set("flags", ParseQuotedList(value))
			}
		case "default ship flags":
			if current != nil {
				current.Set("default_ship_flags", ParseQuotedList(value))
			}
		case "default ship flags2":
			if current != nil {
				current.Set("default_ship_flags2", ParseQuotedList(value))
			}
		}
	}
	flush()

	result.Diagnostics = state.Diagnostics().All()
	return result
}

package tables

import (
	"strings"

	"github.com/wcsaga/forge/internal/domain/diag"
	"github.com/wcsaga/forge/internal/domain/entities"
)

// ParseFireball parses fireball.tbl (name + texture reference per entry).
func ParseFireball(path string) (*entities.TableResult, error) {
	state, err := NewParseStateFromFile(path)
	if err != nil {
		return nil, err
	}
	return parseNameRef(state, entities.TableFireball), nil
}

// ParseFireballContent parses fireball.tbl content held in memory.
func ParseFireballContent(source string, data []byte) *entities.TableResult {
	return parseNameRef(NewParseState(source, data), entities.TableFireball)
}

// ParseAsteroid parses asteroid.tbl (name + model reference per entry).
func ParseAsteroid(path string) (*entities.TableResult, error) {
	state, err := NewParseStateFromFile(path)
	if err != nil {
		return nil, err
	}
	return parseNameRef(state, entities.TableAsteroid), nil
}

// ParseAsteroidContent parses asteroid.tbl content held in memory.
func ParseAsteroidContent(source string, data []byte) *entities.TableResult {
	return parseNameRef(NewParseState(source, data), entities.TableAsteroid)
}

// parseNameRef handles the simple name-plus-reference tables. Both fireball
// and asteroid entries are a $Name followed by a texture or model key.
func parseNameRef(state *ParseState, kind entities.TableKind) *entities.TableResult {
	result := &entities.TableResult{Source: state.Source, Kind: kind}
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
		switch strings.ToLower(key) {
		case "name":
			flush()
			if !ValidName(value) {
				state.Diagnostics().Warnf(diag.CategoryParsing, "line %d: invalid name %q", state.Line(), value)
				continue
			}
			current = &entities.TableEntry{Name: value}
		case "texture":
			setIf(current, "texture", value)
		case "pof file", "model file", "pof file1", "pof file2", "pof file3":
			if current != nil && !strings.EqualFold(value, "none") {
				models, _ := current.Properties["models"].([]string)
				current.Set("models", append(models, value))
				if _, ok := current.Properties["model_file"]; !ok {
					current.Set("model_file", value)
				}
			}
		}
	}
	flush()

	result.Diagnostics = state.Diagnostics().All()
	return result
}

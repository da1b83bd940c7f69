// Package tables parses the game's line-oriented .tbl, .fs2 and .fc2 files.
package tables

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/wcsaga/forge/internal/domain/diag"
)

// ParseState walks the comment-stripped lines of a table file.
type ParseState struct {
	Source string
	lines  []string
	idx    int
	diag   *diag.Collector
}

// NewParseState splits raw table content into comment-stripped lines.
// Content is treated as UTF-8; invalid sequences are replaced rather than
// rejected, matching the lossy decode the original data needs.
func NewParseState(source string, data []byte) *ParseState {
	text := string(data)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "?")
	}
	raw := strings.Split(text, "\n")
	lines := make([]string, len(raw))
	for i, line := range raw {
		if idx := strings.Index(line, ";"); idx >= 0 {
			line = line[:idx]
		}
		lines[i] = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
	}
	return &ParseState{
		Source: source,
		lines:  lines,
		diag:   diag.NewCollector(source),
	}
}

// NewParseStateFromFile reads and splits a table file.
func NewParseStateFromFile(path string) (*ParseState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading table file: %w", err)
	}
	return NewParseState(path, data), nil
}

// Diagnostics returns the collector attached to this parse.
func (s *ParseState) Diagnostics() *diag.Collector {
	return s.diag
}

// Next returns the next non-empty line. The second return is false at EOF.
func (s *ParseState) Next() (string, bool) {
	for s.idx < len(s.lines) {
		line := s.lines[s.idx]
		s.idx++
		if line != "" {
			return line, true
		}
	}
	return "", false
}

// Peek returns the next non-empty line without consuming it.
func (s *ParseState) Peek() (string, bool) {
	save := s.idx
	line, ok := s.Next()
	s.idx = save
	return line, ok
}

// Back rewinds the cursor by one line.
func (s *ParseState) Back() {
	if s.idx > 0 {
		s.idx--
	}
}

// Line returns the 1-based number of the most recently consumed line.
func (s *ParseState) Line() int {
	return s.idx
}

// Section returns the section name if the line is a `#Section` marker.
func Section(line string) (string, bool) {
	if strings.HasPrefix(line, "#") {
		return strings.TrimSpace(line[1:]), true
	}
	return "", false
}

// KeyValue splits a `$Key: value` line. ok is false for any other shape.
func KeyValue(line string) (key, value string, ok bool) {
	return splitPrefixed(line, "$")
}

// SubKeyValue splits a `+Subkey: value` line.
func SubKeyValue(line string) (key, value string, ok bool) {
	return splitPrefixed(line, "+")
}

func splitPrefixed(line, prefix string) (string, string, bool) {
	if !strings.HasPrefix(line, prefix) {
		return "", "", false
	}
	rest := line[len(prefix):]
	idx := strings.Index(rest, ":")
	if idx < 0 {
		return "", "", false
	}
	return strings.TrimSpace(rest[:idx]), strings.TrimSpace(rest[idx+1:]), true
}

// ValidName reports whether a table name is usable: non-empty, at least two
// characters, not purely numeric.
func ValidName(name string) bool {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return false
	}
	if _, err := strconv.ParseFloat(name, 64); err == nil {
		return false
	}
	return true
}

// ParseFloatList splits a comma- or whitespace-separated list of floats.
func ParseFloatList(value string) ([]float64, error) {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '(' || r == ')'
	})
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return out, fmt.Errorf("invalid float %q: %w", f, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// ParseDifficultyScale parses the five-element per-difficulty arrays used by
// ai.tbl and ai_profiles.tbl. Short lists are padded with the last value and
// recorded as a warning; long lists are truncated.
func ParseDifficultyScale(s *ParseState, key, value string) ([5]float64, bool) {
	var out [5]float64
	values, err := ParseFloatList(value)
	if err != nil || len(values) == 0 {
		s.diag.Warnf(diag.CategoryParsing, "line %d: %s: unparsable difficulty list %q", s.Line(), key, value)
		return out, false
	}
	if len(values) != 5 {
		s.diag.Warnf(diag.CategoryParsing, "line %d: %s: expected 5 difficulty values, got %d", s.Line(), key, len(values))
	}
	for i := 0; i < 5; i++ {
		if i < len(values) {
			out[i] = values[i]
		} else {
			out[i] = values[len(values)-1]
		}
	}
	return out, true
}

// ParseBool interprets the YES/NO/TRUE/FALSE/1/0 forms tables use.
func ParseBool(value string) bool {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "YES", "TRUE", "1", "ON":
		return true
	default:
		return false
	}
}

// ParseQuotedList extracts quoted tokens from a `( "a" "b" )` list.
func ParseQuotedList(value string) []string {
	var out []string
	for {
		start := strings.Index(value, `"`)
		if start < 0 {
			return out
		}
		end := strings.Index(value[start+1:], `"`)
		if end < 0 {
			return out
		}
		out = append(out, value[start+1:start+1+end])
		value = value[start+end+2:]
	}
}

// ParseParenList extracts bare tokens from a `( a b c )` list.
func ParseParenList(value string) []string {
	value = strings.Trim(strings.TrimSpace(value), "()")
	return strings.Fields(value)
}

package godot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, "null"},
		{"string", "Rapier", `"Rapier"`},
		{"string with quotes", `say "hi"`, `"say \"hi\""`},
		{"string with backslash", `a\b`, `"a\\b"`},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"int", 42, "42"},
		{"int32", int32(-7), "-7"},
		{"int64", int64(1 << 40), "1099511627776"},
		{"float64", 1.5, "1.500000"},
		{"float32", float32(0.25), "0.250000"},
		{"rgb triplet becomes Color", [3]int{255, 0, 51}, "Color(1.000000, 0.000000, 0.200000, 1)"},
		{"string slice", []string{"a", "b"}, `["a", "b"]`},
		{"float slice", []float64{1, 0.5}, "[1.000000, 0.500000]"},
		{"difficulty scale", [5]float64{1, 1, 1, 0.5, 0.25}, "[1.000000, 1.000000, 1.000000, 0.500000, 0.250000]"},
		{"mixed slice", []any{"x", 3}, `["x", 3]`},
		{"map sorted by key", map[string]any{"b": 2, "a": 1}, `{"a": 1, "b": 2}`},
		{"color map", map[string][3]int{"hostile": {255, 0, 0}}, `{"hostile": Color(1.000000, 0.000000, 0.000000, 1)}`},
		{"fallback stringifies", uint(9), `"9"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.value))
		})
	}
}

func TestResource_Render(t *testing.T) {
	res := NewResource("ShipClass", "res://scripts/resources/ship_class.gd")
	res.Set("display_name", "GTC Fenris")
	res.Set("max_velocity", 55.0)
	res.Set("display_name", "Fenris") // overwrite keeps position

	text := res.Render()
	assert.Equal(t, "[gd_resource type=\"Resource\" script_class=\"ShipClass\" load_steps=2 format=3]\n\n"+
		"[ext_resource type=\"Script\" path=\"res://scripts/resources/ship_class.gd\" id=\"1\"]\n\n"+
		"[resource]\n"+
		"script = ExtResource(\"1\")\n"+
		"display_name = \"Fenris\"\n"+
		"max_velocity = 55.000000\n", text)
}

func TestResource_SetAllSortsKeys(t *testing.T) {
	res := NewResource("Weapon", "res://scripts/resources/weapon.gd")
	res.SetAll(map[string]any{"velocity": 450.0, "damage": 25.0, "lifetime": 2.0})

	lines := res.Render()
	damage := indexOf(t, lines, "damage = ")
	lifetime := indexOf(t, lines, "lifetime = ")
	velocity := indexOf(t, lines, "velocity = ")
	assert.Less(t, damage, lifetime)
	assert.Less(t, lifetime, velocity)
}

func indexOf(t *testing.T, text, sub string) int {
	t.Helper()
	idx := strings.Index(text, sub)
	require.GreaterOrEqual(t, idx, 0, "expected %q in rendered resource", sub)
	return idx
}

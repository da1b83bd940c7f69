// Package godot emits Godot text resources (.tres) and scene skeletons
// (.tscn) from parsed table entries.
package godot

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// FormatValue renders a value in Godot text-resource literal syntax.
// [3]int values are treated as 0-255 RGB triplets and become Color
// constructors.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return quoteString(val)
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(val)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case float32:
		return fmt.Sprintf("%f", val)
	case float64:
		return fmt.Sprintf("%f", val)
	case [3]int:
		return fmt.Sprintf("Color(%f, %f, %f, 1)", float64(val[0])/255, float64(val[1])/255, float64(val[2])/255)
	case []string:
		parts := make([]string, len(val))
		for i, s := range val {
			parts[i] = quoteString(s)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case []float64:
		parts := make([]string, len(val))
		for i, f := range val {
			parts[i] = fmt.Sprintf("%f", f)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case [5]float64:
		parts := make([]string, len(val))
		for i, f := range val {
			parts[i] = fmt.Sprintf("%f", f)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case []any:
		parts := make([]string, len(val))
		for i, e := range val {
			parts[i] = FormatValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = quoteString(k) + ": " + FormatValue(val[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case map[string][3]int:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = quoteString(k) + ": " + FormatValue(val[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return quoteString(fmt.Sprint(val))
	}
}

func quoteString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// Resource accumulates the properties of one .tres file.
type Resource struct {
	ScriptClass string
	ScriptPath  string
	keys        []string
	values      map[string]any
}

// NewResource starts a resource bound to a script class.
func NewResource(scriptClass, scriptPath string) *Resource {
	return &Resource{
		ScriptClass: scriptClass,
		ScriptPath:  scriptPath,
		values:      make(map[string]any),
	}
}

// Set stores a property, preserving insertion order.
func (r *Resource) Set(key string, value any) {
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// SetAll copies properties from a map in sorted key order.
func (r *Resource) SetAll(props map[string]any) {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		r.Set(k, props[k])
	}
}

// Render produces the .tres file text.
func (r *Resource) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[gd_resource type=\"Resource\" script_class=%s load_steps=2 format=3]\n\n", quoteString(r.ScriptClass))
	fmt.Fprintf(&b, "[ext_resource type=\"Script\" path=%s id=\"1\"]\n\n", quoteString(r.ScriptPath))
	b.WriteString("[resource]\n")
	b.WriteString("script = ExtResource(\"1\")\n")
	for _, key := range r.keys {
		fmt.Fprintf(&b, "%s = %s\n", key, FormatValue(r.values[key]))
	}
	return b.String()
}

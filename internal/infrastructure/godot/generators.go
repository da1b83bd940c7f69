package godot

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wcsaga/forge/internal/domain/entities"
	"github.com/wcsaga/forge/internal/domain/services"
)

// Script paths of the downstream Godot project, one per resource family.
const (
	scriptShipClass  = "res://scripts/resources/ship_class.gd"
	scriptWeapon     = "res://scripts/resources/weapon.gd"
	scriptAIBehavior = "res://scripts/resources/ai_behavior.gd"
	scriptAIProfile  = "res://scripts/resources/ai_profile.gd"
	scriptSpecies    = "res://scripts/resources/species.gd"
	scriptIFF        = "res://scripts/resources/iff.gd"
)

// Generator renders table entries into .tres files under the output root.
type Generator struct {
	outputRoot string
	classifier *services.Classifier
	resolver   *services.PathResolver
}

// NewGenerator creates a generator writing under outputRoot.
func NewGenerator(outputRoot string, classifier *services.Classifier, resolver *services.PathResolver) *Generator {
	return &Generator{outputRoot: outputRoot, classifier: classifier, resolver: resolver}
}

// writeResource renders the resource to the project-relative path and
// returns the absolute path written.
func (g *Generator) writeResource(relPath string, res *Resource) (string, error) {
	full := filepath.Join(g.outputRoot, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("creating resource directory: %w", err)
	}
	if err := os.WriteFile(full, []byte(res.Render()), 0o644); err != nil {
		return "", fmt.Errorf("writing resource %s: %w", relPath, err)
	}
	return full, nil
}

// GenerateShipResource emits one ship class .tres.
func (g *Generator) GenerateShipResource(entry entities.TableEntry) (string, error) {
	res := NewResource("ShipClass", scriptShipClass)
	res.Set("display_name", entry.Name)
	if pof, ok := entry.Properties["pof_file"].(string); ok {
		res.Set("source_model", pof)
		res.Set("model_scene", "res://"+g.resolver.ResolveModelPath(entry.Name, entities.TypeShip))
	}
	res.SetAll(filterProperties(entry.Properties, "pof_file", "texture_replace"))
	return g.writeResource(g.resolver.ResolveDataPath("ships", entry.Name), res)
}

// GenerateWeaponResource emits one weapon .tres.
func (g *Generator) GenerateWeaponResource(entry entities.TableEntry) (string, error) {
	res := NewResource("Weapon", scriptWeapon)
	res.Set("display_name", entry.Name)
	// Weapons defined in ships.tbl carry the ship property names.
	if model, ok := entry.Properties["model_file"].(string); ok {
		res.Set("source_model", model)
	} else if pof, ok := entry.Properties["pof_file"].(string); ok {
		res.Set("source_model", pof)
	}
	if snd, ok := entry.Properties["launch_sound"].(string); ok {
		res.Set("fire_sound", "res://"+g.resolver.ResolveSharedAudioPath(snd))
	}
	res.SetAll(filterProperties(entry.Properties, "model_file", "launch_sound", "launch_sound_id", "pof_file", "texture_replace"))
	return g.writeResource(g.resolver.ResolveDataPath("weapons", entry.Name), res)
}

// GenerateAIBehaviorResource emits one AI class behavior .tres.
func (g *Generator) GenerateAIBehaviorResource(entry entities.TableEntry) (string, error) {
	res := NewResource("AIBehavior", scriptAIBehavior)
	res.Set("class_name", entry.Name)
	res.SetAll(entry.Properties)
	return g.writeResource(g.resolver.ResolveDataPath("ai", entry.Name), res)
}

// GenerateAIProfileResource emits one AI profile .tres.
func (g *Generator) GenerateAIProfileResource(entry entities.TableEntry) (string, error) {
	res := NewResource("AIProfile", scriptAIProfile)
	res.Set("profile_name", entry.Name)
	res.SetAll(entry.Properties)
	return g.writeResource(g.resolver.ResolveDataPath("ai_profiles", entry.Name), res)
}

// GenerateSpeciesResource emits one species .tres.
func (g *Generator) GenerateSpeciesResource(entry entities.TableEntry) (string, error) {
	res := NewResource("Species", scriptSpecies)
	res.Set("species_name", entry.Name)
	res.SetAll(entry.Properties)
	return g.writeResource(g.resolver.ResolveDataPath("species", entry.Name), res)
}

// GenerateIFFResource emits one IFF .tres. Color triplets render as Godot
// Color constructors.
func (g *Generator) GenerateIFFResource(entry entities.TableEntry) (string, error) {
	res := NewResource("IFF", scriptIFF)
	res.Set("iff_name", entry.Name)
	res.SetAll(entry.Properties)
	return g.writeResource(g.resolver.ResolveDataPath("iff", entry.Name), res)
}

// GenerateResources batch-renders a whole table result and writes the
// family registry. Entries that fail keep the batch going; the first error
// is returned after the registry is written. ships.tbl entries the
// classifier recognizes as weapons are routed to the weapon generator; the
// ships registry lists only true ships.
func (g *Generator) GenerateResources(result *entities.TableResult) ([]string, error) {
	if g.generatorFor(result.Kind) == nil {
		return nil, fmt.Errorf("no resource generator for table kind %s", result.Kind)
	}

	var written []string
	var firstErr error
	produced := make(map[string]string, len(result.Entries))
	for _, entry := range result.Entries {
		generate := g.generatorFor(result.Kind)
		registryFamily := familyFor(result.Kind)
		if result.Kind == entities.TableShips &&
			g.classifier.Classify(entry.Name, result.Kind, "") == entities.TypeWeapon {
			generate = g.GenerateWeaponResource
			registryFamily = ""
		}
		p, err := generate(entry)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		written = append(written, p)
		if registryFamily != "" {
			rel := g.resolver.ResolveDataPath(registryFamily, entry.Name)
			produced[entry.Name] = "res://" + rel
		}
	}

	if len(produced) > 0 {
		if p, err := g.writeRegistry(familyFor(result.Kind), produced); err != nil {
			if firstErr == nil {
				firstErr = err
			}
		} else {
			written = append(written, p)
		}
	}
	return written, firstErr
}

func (g *Generator) generatorFor(kind entities.TableKind) func(entities.TableEntry) (string, error) {
	switch kind {
	case entities.TableShips:
		return g.GenerateShipResource
	case entities.TableWeapons:
		return g.GenerateWeaponResource
	case entities.TableAI:
		return g.GenerateAIBehaviorResource
	case entities.TableAIProfiles:
		return g.GenerateAIProfileResource
	case entities.TableSpecies:
		return g.GenerateSpeciesResource
	case entities.TableIFF:
		return g.GenerateIFFResource
	default:
		return nil
	}
}

func familyFor(kind entities.TableKind) string {
	switch kind {
	case entities.TableAI:
		return "ai"
	case entities.TableAIProfiles:
		return "ai_profiles"
	default:
		return string(kind)
	}
}

// writeRegistry emits the per-family registry.tres indexing every produced
// resource by entity name.
func (g *Generator) writeRegistry(family string, produced map[string]string) (string, error) {
	res := NewResource("ResourceRegistry", "res://scripts/resources/resource_registry.gd")
	res.Set("family", family)
	res.Set("count", len(produced))

	entries := make(map[string]any, len(produced))
	for name, p := range produced {
		entries[name] = p
	}
	res.Set("resources", entries)

	dir := filepath.Dir(filepath.FromSlash(g.resolver.ResolveDataPath(family, "placeholder")))
	return g.writeResource(filepath.ToSlash(filepath.Join(dir, "registry.tres")), res)
}

// ValidateResource re-reads a written .tres and checks the gd_resource
// header and the [resource] section are present.
func ValidateResource(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	text := string(data)
	return strings.HasPrefix(text, "[gd_resource ") && strings.Contains(text, "\n[resource]\n")
}

// RegistryNames returns the sorted entity names of a produced registry map.
func RegistryNames(produced map[string]string) []string {
	names := make([]string, 0, len(produced))
	for name := range produced {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// filterProperties copies a property map without the listed keys.
func filterProperties(props map[string]any, drop ...string) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		skip := false
		for _, d := range drop {
			if k == d {
				skip = true
				break
			}
		}
		if !skip {
			out[k] = v
		}
	}
	return out
}

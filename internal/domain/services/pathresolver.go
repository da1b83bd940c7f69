package services

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/wcsaga/forge/internal/domain/entities"
)

var (
	// reNonCleanChars matches characters that aren't alphanumeric, underscore
	// or hyphen.
	reNonCleanChars = regexp.MustCompile(`[^a-z0-9_-]`)
	// reMultipleUnderscores matches consecutive underscores.
	reMultipleUnderscores = regexp.MustCompile(`_+`)
)

// CleanName converts an entity or file name into its directory-safe form:
// lowercase, everything outside [a-z0-9_-] replaced by underscore,
// consecutive underscores collapsed, leading/trailing underscores stripped.
func CleanName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = reNonCleanChars.ReplaceAllString(name, "_")
	name = reMultipleUnderscores.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")
	if name == "" {
		return "unnamed"
	}
	return name
}

// formatConversions maps source extensions to target extensions.
var formatConversions = map[string]string{
	".dds": ".png",
	".pcx": ".png",
	".tga": ".png",
	".tbl": ".tres",
	".fs2": ".tres",
	".fc2": ".tres",
	".tbm": ".tres",
	".txt": ".tres",
	".vf":  ".tres",
	".frc": ".tres",
	".hcf": ".tres",
	".pof": ".glb",
	".eff": ".tscn",
	".wav": ".ogg",
	".ogg": ".ogg",
}

// ConvertExtension maps a source filename to its target-format filename.
// The .ani spritesheet rule changes the stem as well as the extension.
func ConvertExtension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if ext == ".ani" {
		return stem + "_spritesheet.png"
	}
	if target, ok := formatConversions[ext]; ok {
		return stem + target
	}
	return filepath.Base(filename)
}

// MaterialType identifies a texture's role in a material set.
type MaterialType string

// Material types detected from filename suffixes.
const (
	MaterialDiffuse  MaterialType = "diffuse"
	MaterialNormal   MaterialType = "normal"
	MaterialSpecular MaterialType = "specular"
	MaterialEmission MaterialType = "emission"
	MaterialBump     MaterialType = "bump"
)

// DetectMaterialType inspects a texture filename's suffix. Bump is checked
// before normal because `_bump` appears in both suffix sets.
func DetectMaterialType(filename string) MaterialType {
	stem := strings.ToLower(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	switch {
	case strings.HasSuffix(stem, "_bump"):
		return MaterialBump
	case strings.HasSuffix(stem, "_normal") || strings.HasSuffix(stem, "_nrm"):
		return MaterialNormal
	case strings.HasSuffix(stem, "_spec") || strings.HasSuffix(stem, "_shine"):
		return MaterialSpecular
	case strings.HasSuffix(stem, "_glow") || strings.HasSuffix(stem, "_emit") || strings.HasSuffix(stem, "_emissive"):
		return MaterialEmission
	default:
		return MaterialDiffuse
	}
}

// PathResolver maps source paths and entity metadata into the Godot project
// layout. The layout is a contract with the downstream Godot tooling.
type PathResolver struct {
	classifier *Classifier
	campaign   string
}

// NewPathResolver creates a resolver. campaign names the campaign audio
// subtree (the shipped data uses "hermes").
func NewPathResolver(classifier *Classifier, campaign string) *PathResolver {
	if campaign == "" {
		campaign = "hermes"
	}
	return &PathResolver{classifier: classifier, campaign: campaign}
}

// entityRoot returns the directory that holds all files of one entity.
func (r *PathResolver) entityRoot(name string, entityType entities.EntityType) string {
	clean := CleanName(name)
	faction := r.classifier.DetectFaction(name)
	if faction == entities.FactionUnknown {
		faction = entities.FactionMisc
	}

	switch entityType {
	case entities.TypeShip:
		sub := r.classifier.ClassifySubcategory(name, faction)
		return path.Join("entities", "ships", string(faction), string(sub), clean)
	case entities.TypeWeapon:
		return path.Join("entities", "weapons", string(faction), clean)
	case entities.TypeEffect, entities.TypeFireball:
		return path.Join("entities", "effects", clean)
	case entities.TypeInstallation:
		return path.Join("entities", "installations", clean)
	case entities.TypeAsteroid:
		return path.Join("entities", "environment", "asteroids", clean)
	case entities.TypeDebris:
		return path.Join("entities", "environment", "debris", clean)
	default:
		return path.Join("entities", "misc", clean)
	}
}

// ResolveScenePath returns the target .tscn path for an entity's complete
// scene.
func (r *PathResolver) ResolveScenePath(name string, entityType entities.EntityType) string {
	return path.Join(r.entityRoot(name, entityType), CleanName(name)+".tscn")
}

// ResolveModelPath returns the target .glb path for an entity's primary
// model.
func (r *PathResolver) ResolveModelPath(name string, entityType entities.EntityType) string {
	return path.Join(r.entityRoot(name, entityType), CleanName(name)+".glb")
}

// ResolveSemanticFactionPath places one related asset inside the entity's
// feature directory, dispatching on asset type and relationship.
func (r *PathResolver) ResolveSemanticFactionPath(name string, entityType entities.EntityType, assetType entities.AssetType, sourcePath string, relType entities.RelationshipType) string {
	root := r.entityRoot(name, entityType)
	converted := ConvertExtension(sourcePath)

	switch assetType {
	case entities.AssetModel:
		if relType == entities.RelPrimaryModel {
			return path.Join(root, CleanName(name)+".glb")
		}
		return path.Join(root, converted)
	case entities.AssetTexture, entities.AssetEffectFrame:
		material := DetectMaterialType(sourcePath)
		return path.Join(root, "textures", string(material)+"_"+converted)
	case entities.AssetAudio:
		return r.resolveAudioPath(root, sourcePath, converted)
	case entities.AssetEffect, entities.AssetAnimation:
		return path.Join(root, "effects", converted)
	case entities.AssetScene:
		return path.Join(root, CleanName(name)+".tscn")
	default:
		return path.Join(root, converted)
	}
}

// resolveAudioPath gives campaign voice audio its mission/location
// destination and keeps entity audio under the entity directory.
func (r *PathResolver) resolveAudioPath(entityRoot, sourcePath, converted string) string {
	cls := ClassifyAudio(sourcePath)
	switch cls.Category {
	case AudioPilotVoice:
		return path.Join("campaigns", r.campaign, "audio", "voice", "mission_"+cls.Mission, converted)
	case AudioControlTower:
		return path.Join("campaigns", r.campaign, "audio", "voice", "control", cls.Location, converted)
	case AudioEngine, AudioWeapon, AudioShield:
		return path.Join(entityRoot, "audio", converted)
	default:
		return path.Join("audio", string(cls.Category), converted)
	}
}

// ResolveSharedAudioPath places non-entity-specific audio under the shared
// audio tree.
func (r *PathResolver) ResolveSharedAudioPath(sourcePath string) string {
	return r.resolveAudioPath("", sourcePath, ConvertExtension(sourcePath))
}

// ResolveDataPath returns the target .tres path for a generated data
// resource family (ships, weapons, ai, species, iff).
func (r *PathResolver) ResolveDataPath(family, name string) string {
	clean := CleanName(name)
	switch family {
	case "ai":
		return path.Join("data", "ai", clean+"_behavior.tres")
	case "ai_profiles":
		return path.Join("data", "ai", "profiles", clean+".tres")
	default:
		return path.Join("data", family, clean+".tres")
	}
}

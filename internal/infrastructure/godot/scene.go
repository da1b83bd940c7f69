package godot

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wcsaga/forge/internal/domain/entities"
)

// GenerateSceneSkeleton writes the .tscn scaffold for an entity's complete
// scene: a Node3D root, the model instance when a model target path is
// known, and a placeholder node per audio attachment.
func (g *Generator) GenerateSceneSkeleton(mapping entities.AssetMapping) (string, error) {
	relPath := g.resolver.ResolveScenePath(mapping.EntityName, mapping.EntityType)

	var ext []string
	if mapping.PrimaryAsset != nil && mapping.PrimaryAsset.TargetPath != "" {
		ext = append(ext, fmt.Sprintf("[ext_resource type=\"PackedScene\" path=%s id=\"1\"]", quoteString("res://"+mapping.PrimaryAsset.TargetPath)))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[gd_scene load_steps=%d format=3]\n", len(ext)+1)
	for _, line := range ext {
		b.WriteString("\n" + line + "\n")
	}

	fmt.Fprintf(&b, "\n[node name=%s type=\"Node3D\"]\n", quoteString(sceneNodeName(mapping.EntityName)))
	if len(ext) > 0 {
		fmt.Fprintf(&b, "\n[node name=\"Model\" parent=\".\" instance=ExtResource(\"1\")]\n")
	}
	for _, rel := range mapping.RelatedAssets {
		if rel.Type != entities.RelSoundEffect && rel.Type != entities.RelFireSound {
			continue
		}
		fmt.Fprintf(&b, "\n[node name=%s type=\"AudioStreamPlayer3D\" parent=\".\"]\n", quoteString(sceneNodeName(filepath.Base(rel.TargetAsset))))
	}

	full := filepath.Join(g.outputRoot, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("creating scene directory: %w", err)
	}
	if err := os.WriteFile(full, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("writing scene %s: %w", relPath, err)
	}
	return full, nil
}

// sceneNodeName turns an entity or file name into a legal Godot node name.
func sceneNodeName(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, strings.TrimSuffix(name, filepath.Ext(name)))
	clean = strings.Trim(clean, "_")
	if clean == "" {
		return "Node"
	}
	return clean
}

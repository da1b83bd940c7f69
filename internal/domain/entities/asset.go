package entities

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// AssetType categorizes a file discovered on disk.
type AssetType string

// Asset types known to the pipeline.
const (
	AssetModel       AssetType = "model"
	AssetTexture     AssetType = "texture"
	AssetAudio       AssetType = "audio"
	AssetAnimation   AssetType = "animation"
	AssetEffect      AssetType = "effect"
	AssetEffectFrame AssetType = "effect_frame"
	AssetMission     AssetType = "mission"
	AssetTable       AssetType = "table"
	AssetFont        AssetType = "font"
	AssetVideo       AssetType = "video"
	AssetScene       AssetType = "scene"
	AssetResource    AssetType = "resource"
	AssetOther       AssetType = "other"
)

// AssetTypeForPath categorizes a file by extension.
func AssetTypeForPath(path string) AssetType {
	dot := strings.LastIndexByte(path, '.')
	if dot < 0 {
		return AssetOther
	}
	switch strings.ToLower(path[dot:]) {
	case ".pof":
		return AssetModel
	case ".dds", ".pcx", ".tga", ".png", ".jpg", ".bmp":
		return AssetTexture
	case ".wav", ".ogg":
		return AssetAudio
	case ".ani":
		return AssetAnimation
	case ".eff":
		return AssetEffect
	case ".fs2", ".fc2":
		return AssetMission
	case ".tbl", ".tbm":
		return AssetTable
	case ".vf", ".ttf":
		return AssetFont
	case ".mve", ".ogv", ".mp4":
		return AssetVideo
	case ".tscn":
		return AssetScene
	case ".tres":
		return AssetResource
	default:
		return AssetOther
	}
}

// Asset is a file on disk, tracked by the catalog and the dependency graph.
// AssetID and ContentHash are immutable once assigned.
type Asset struct {
	AssetID      string         `json:"asset_id"`
	Name         string         `json:"name"`
	FilePath     string         `json:"file_path"`
	Type         AssetType      `json:"asset_type"`
	Category     string         `json:"category,omitempty"`
	Subcategory  string         `json:"subcategory,omitempty"`
	FeatureGroup string         `json:"feature_group,omitempty"`
	TargetPath   string         `json:"target_path,omitempty"`
	FileSize     int64          `json:"file_size"`
	ContentHash  string         `json:"content_hash,omitempty"`
	SourceFile   string         `json:"wcs_source_file,omitempty"`
	SourceFormat string         `json:"wcs_format,omitempty"`
	Properties   map[string]any `json:"properties,omitempty"`
	Tags         []string       `json:"tags,omitempty"`
	Dependencies []string       `json:"dependencies,omitempty"`
	Dependents   []string       `json:"dependents,omitempty"`
	CreatedAt    time.Time      `json:"creation_date"`
	ModifiedAt   time.Time      `json:"modification_date"`
}

// AssetIDForPath derives the deterministic asset id for a source path.
// The id is the first 16 hex characters of the SHA-256 of the normalized path.
func AssetIDForPath(path string) string {
	sum := sha256.Sum256([]byte(NormalizeName(path)))
	return hex.EncodeToString(sum[:])[:16]
}

// HasTag reports whether the asset carries the given tag.
func (a *Asset) HasTag(tag string) bool {
	for _, t := range a.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AddTag appends a tag if not already present.
func (a *Asset) AddTag(tag string) {
	if !a.HasTag(tag) {
		a.Tags = append(a.Tags, tag)
	}
}

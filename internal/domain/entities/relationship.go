package entities

import "time"

// RelationshipType names the typed edge between two assets.
type RelationshipType string

// Relationship types produced by discovery and the relationship builder.
const (
	RelPrimaryModel       RelationshipType = "primary_model"
	RelTextureReplacement RelationshipType = "texture_replacement"
	RelDiffuse            RelationshipType = "diffuse"
	RelNormal             RelationshipType = "normal"
	RelSpecular           RelationshipType = "specular"
	RelGlow               RelationshipType = "glow"
	RelBump               RelationshipType = "bump"
	RelFireSound          RelationshipType = "fire_sound"
	RelSoundEffect        RelationshipType = "sound_effect"
	RelEffectDefinition   RelationshipType = "effect_definition"
	RelFrameTexture       RelationshipType = "frame_texture"
	RelMissionReference   RelationshipType = "mission_reference"
	RelCompleteScene      RelationshipType = "complete_scene"
	RelEscort             RelationshipType = "escort"
	RelDependsOn          RelationshipType = "depends_on"
)

// AssetRelationship is a typed directed edge from a source asset to a target
// asset. Strength is in [0,1].
type AssetRelationship struct {
	SourceAsset string           `json:"source_asset"`
	TargetAsset string           `json:"target_asset"`
	Type        RelationshipType `json:"relationship_type"`
	Strength    float64          `json:"strength"`
	Required    bool             `json:"required,omitempty"`
	TargetPath  string           `json:"target_path,omitempty"`
	Metadata    map[string]any   `json:"metadata,omitempty"`
	CreatedAt   time.Time        `json:"created_date,omitempty"`
}

// AssetMapping is the per-entity aggregate produced by the relationship
// builder: the primary asset (usually the main model) plus every related
// asset discovered for the entity.
type AssetMapping struct {
	EntityName    string              `json:"entity_name"`
	EntityType    EntityType          `json:"entity_type"`
	PrimaryAsset  *AssetRelationship  `json:"primary_asset,omitempty"`
	RelatedAssets []AssetRelationship `json:"related_assets"`
	Metadata      map[string]any      `json:"metadata,omitempty"`
}

// AssetGroup is a named set of asset ids.
type AssetGroup struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	AssetIDs    []string  `json:"asset_ids"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_date"`
}

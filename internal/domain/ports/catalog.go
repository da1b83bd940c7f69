package ports

import (
	"context"
	"io/fs"

	"github.com/wcsaga/forge/internal/domain/entities"
)

// AssetSearch holds the filters for a catalog search. Filters combine with
// AND semantics; tags within the list combine with OR.
type AssetSearch struct {
	Query        string
	AssetType    entities.AssetType
	Category     string
	FeatureGroup string
	Tags         []string
	Limit        int
}

// AssetStatistics summarizes the catalog contents.
type AssetStatistics struct {
	TotalAssets    int            `json:"total_assets"`
	TotalSize      int64          `json:"total_size"`
	ByType         map[string]int `json:"by_type"`
	ByCategory     map[string]int `json:"by_category"`
	ByFeatureGroup map[string]int `json:"by_feature_group"`
	Relationships  int            `json:"relationships"`
	Groups         int            `json:"groups"`
	Tags           int            `json:"tags"`
}

// Catalog is the persistent metadata store for discovered assets.
type Catalog interface {
	// EnsureSchema creates the backing schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Close releases the backing store.
	Close() error

	// RegisterAsset saves or replaces an asset; idempotent on AssetID.
	RegisterAsset(ctx context.Context, asset *entities.Asset) error

	// GetAsset fetches an asset by id; nil if absent.
	GetAsset(ctx context.Context, assetID string) (*entities.Asset, error)

	// AddRelationship records a typed edge between two registered assets.
	AddRelationship(ctx context.Context, rel *entities.AssetRelationship) error

	// Relationships returns all stored relationships.
	Relationships(ctx context.Context) ([]entities.AssetRelationship, error)

	// CreateGroup creates a named asset group.
	CreateGroup(ctx context.Context, group *entities.AssetGroup) error

	// AddToGroup adds an asset to a group.
	AddToGroup(ctx context.Context, groupName, assetID string) error

	// Groups returns all groups with their memberships.
	Groups(ctx context.Context) ([]entities.AssetGroup, error)

	// SearchAssets runs a filtered search.
	SearchAssets(ctx context.Context, search AssetSearch) ([]*entities.Asset, error)

	// AssetsByFeatureGroup returns the assets of one feature group.
	AssetsByFeatureGroup(ctx context.Context, featureGroup string) ([]*entities.Asset, error)

	// FeatureGroups lists all distinct feature groups.
	FeatureGroups(ctx context.Context) ([]string, error)

	// ValidateAssets checks cataloged assets against the source tree and
	// records one issue per finding. source may be nil to skip existence
	// checks.
	ValidateAssets(ctx context.Context, source fs.FS) ([]entities.ValidationIssue, error)

	// RecordIssue stores a validation issue.
	RecordIssue(ctx context.Context, issue *entities.ValidationIssue) error

	// Issues returns all stored validation issues.
	Issues(ctx context.Context) ([]entities.ValidationIssue, error)

	// Statistics summarizes the catalog.
	Statistics(ctx context.Context) (*AssetStatistics, error)

	// SaveCatalog flushes pending state and writes the manifest sibling.
	SaveCatalog(ctx context.Context) error

	// LoadCatalog reconstructs in-memory state from the backing store.
	LoadCatalog(ctx context.Context) error
}

// HashIndex maps content hashes to assigned target paths, backing the
// content-addressed deduplication pass.
type HashIndex interface {
	// Get returns the target path for a content hash, or "" if unseen.
	Get(hash string) (string, error)

	// Put records the target path chosen for a content hash.
	Put(hash, targetPath string) error

	// Close releases the index.
	Close() error
}

package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/wcsaga/forge/internal/domain/entities"
	"github.com/wcsaga/forge/internal/domain/ports"
)

// manifest is the JSON sibling written next to the database on save. It
// mirrors the asset projection so tooling can read the catalog without a
// SQLite driver.
type manifest struct {
	Version       int                    `json:"version"`
	SavedAt       time.Time              `json:"saved_at"`
	Statistics    *ports.AssetStatistics `json:"statistics"`
	FeatureGroups []string               `json:"feature_groups"`
	Assets        []*entities.Asset      `json:"assets"`
}

const manifestVersion = 1

// ManifestPath returns the manifest sibling path for the database file.
// Downstream tooling expects `<catalog>.manifest.json`.
func (r *Repository) ManifestPath() string {
	base := strings.TrimSuffix(r.path, filepath.Ext(r.path))
	return base + ".manifest.json"
}

// SaveCatalog flushes the in-memory projection and writes the manifest JSON
// sibling.
func (r *Repository) SaveCatalog(ctx context.Context) error {
	r.mu.RLock()
	assets := make([]*entities.Asset, 0, len(r.assets))
	for _, asset := range r.assets {
		assets = append(assets, asset)
	}
	r.mu.RUnlock()
	sort.Slice(assets, func(i, j int) bool { return assets[i].AssetID < assets[j].AssetID })

	for _, asset := range assets {
		if err := r.RegisterAsset(ctx, asset); err != nil {
			return err
		}
	}

	stats, err := r.Statistics(ctx)
	if err != nil {
		return err
	}
	groups, err := r.FeatureGroups(ctx)
	if err != nil {
		return err
	}

	m := manifest{
		Version:       manifestVersion,
		SavedAt:       timeNow().UTC(),
		Statistics:    stats,
		FeatureGroups: groups,
		Assets:        assets,
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(r.ManifestPath(), data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

package sqlite

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	"github.com/wcsaga/forge/internal/domain/entities"
	"github.com/wcsaga/forge/internal/domain/ports"
)

// maxTextureDimension is the largest texture edge Godot imports without
// downscaling on mobile targets.
const maxTextureDimension = 4096

// ValidateAssets checks every cataloged asset against the source tree and
// records one ValidationIssue per finding. source may be nil to skip the
// file-existence check.
func (r *Repository) ValidateAssets(ctx context.Context, source fs.FS) ([]entities.ValidationIssue, error) {
	assets, err := r.SearchAssets(ctx, ports.AssetSearch{})
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(assets))
	for _, asset := range assets {
		known[asset.AssetID] = true
	}

	var issues []entities.ValidationIssue
	record := func(issue entities.ValidationIssue) error {
		if err := r.RecordIssue(ctx, &issue); err != nil {
			return err
		}
		issues = append(issues, issue)
		return nil
	}

	for _, asset := range assets {
		// Entity assets are synthesized from table entries; their
		// "entity/<name>" path never exists on disk.
		if source != nil && !strings.HasPrefix(asset.FilePath, "entity/") {
			if _, err := fs.Stat(source, asset.FilePath); err != nil {
				if err := record(entities.ValidationIssue{
					AssetID:        asset.AssetID,
					IssueType:      "missing_file",
					Severity:       entities.IssueError,
					Message:        fmt.Sprintf("source file %s does not exist", asset.FilePath),
					Recommendation: "remove the asset or restore the source file",
				}); err != nil {
					return nil, err
				}
			}
		}

		r.mu.RLock()
		deps := append([]string(nil), asset.Dependencies...)
		if cached, ok := r.assets[asset.AssetID]; ok {
			deps = append([]string(nil), cached.Dependencies...)
		}
		r.mu.RUnlock()
		for _, dep := range deps {
			if !known[dep] {
				if err := record(entities.ValidationIssue{
					AssetID:        asset.AssetID,
					IssueType:      "missing_dependency",
					Severity:       entities.IssueWarning,
					Message:        fmt.Sprintf("dependency %s is not cataloged", dep),
					Recommendation: "re-run discovery for this asset",
				}); err != nil {
					return nil, err
				}
			}
		}

		if asset.Type == entities.AssetTexture {
			width, _ := asIntProperty(asset.Properties["width"])
			height, _ := asIntProperty(asset.Properties["height"])
			if width > maxTextureDimension || height > maxTextureDimension {
				if err := record(entities.ValidationIssue{
					AssetID:        asset.AssetID,
					IssueType:      "oversized_texture",
					Severity:       entities.IssueWarning,
					Message:        fmt.Sprintf("texture is %dx%d, larger than %d", width, height, maxTextureDimension),
					Recommendation: "downscale before conversion",
				}); err != nil {
					return nil, err
				}
			}
		}
	}
	return issues, nil
}

// asIntProperty reads a numeric metadata value that may have round-tripped
// through JSON as float64.
func asIntProperty(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// Package sqlite provides the SQLite implementation of the asset catalog.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/wcsaga/forge/internal/domain/entities"
	"github.com/wcsaga/forge/internal/domain/ports"
)

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Repository implements ports.Catalog: an in-memory projection of assets and
// relationships backed by a SQLite database, plus a manifest JSON sibling
// written on save.
type Repository struct {
	db   *sql.DB
	path string

	mu     sync.RWMutex
	assets map[string]*entities.Asset
}

// NewRepository opens (or creates) the catalog database at path.
func NewRepository(path string) (*Repository, error) {
	if path == "" {
		return nil, errors.New("catalog path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog database: %w", err)
	}

	// Enable foreign keys for referential integrity
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:     db,
		path:   path,
		assets: make(map[string]*entities.Asset),
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Assets (files discovered or referenced by the pipeline)
	CREATE TABLE IF NOT EXISTS assets (
		asset_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		file_path TEXT NOT NULL,
		asset_type TEXT NOT NULL,
		category TEXT,
		subcategory TEXT,
		feature_group TEXT,
		target_path TEXT,
		file_size INTEGER NOT NULL DEFAULT 0,
		file_hash TEXT,
		creation_date TIMESTAMP,
		modification_date TIMESTAMP,
		wcs_source_file TEXT,
		wcs_format TEXT,
		metadata_json TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_assets_type ON assets(asset_type);
	CREATE INDEX IF NOT EXISTS idx_assets_category ON assets(category);
	CREATE INDEX IF NOT EXISTS idx_assets_feature_group ON assets(feature_group);

	-- Typed directed edges between assets
	CREATE TABLE IF NOT EXISTS relationships (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source_asset TEXT NOT NULL REFERENCES assets(asset_id),
		target_asset TEXT NOT NULL REFERENCES assets(asset_id),
		relationship_type TEXT NOT NULL,
		strength REAL NOT NULL DEFAULT 0,
		metadata_json TEXT,
		created_date TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_relationships_source ON relationships(source_asset);
	CREATE INDEX IF NOT EXISTS idx_relationships_target ON relationships(target_asset);

	-- Named asset groups
	CREATE TABLE IF NOT EXISTS asset_groups (
		name TEXT PRIMARY KEY,
		description TEXT,
		tags_json TEXT,
		created_date TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS group_memberships (
		group_name TEXT NOT NULL REFERENCES asset_groups(name),
		asset_id TEXT NOT NULL REFERENCES assets(asset_id),
		PRIMARY KEY (group_name, asset_id)
	);
	CREATE INDEX IF NOT EXISTS idx_memberships_group ON group_memberships(group_name);

	-- Free-form asset tags
	CREATE TABLE IF NOT EXISTS asset_tags (
		asset_id TEXT NOT NULL REFERENCES assets(asset_id),
		tag TEXT NOT NULL,
		PRIMARY KEY (asset_id, tag)
	);
	CREATE INDEX IF NOT EXISTS idx_tags_tag ON asset_tags(tag);

	-- Validation findings
	CREATE TABLE IF NOT EXISTS validation_issues (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		asset_id TEXT REFERENCES assets(asset_id),
		issue_type TEXT NOT NULL,
		severity TEXT NOT NULL,
		message TEXT NOT NULL,
		recommendation TEXT,
		created_date TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_issues_asset ON validation_issues(asset_id);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating catalog schema: %w", err)
	}
	return nil
}

// RegisterAsset saves or replaces an asset. Registration is idempotent on
// asset_id.
func (r *Repository) RegisterAsset(ctx context.Context, asset *entities.Asset) error {
	if asset.AssetID == "" {
		asset.AssetID = entities.AssetIDForPath(asset.FilePath)
	}
	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = timeNow().UTC()
	}
	asset.ModifiedAt = timeNow().UTC()

	metadata, err := json.Marshal(asset.Properties)
	if err != nil {
		return fmt.Errorf("encoding asset metadata: %w", err)
	}

	query := `
		INSERT OR REPLACE INTO assets (
			asset_id, name, file_path, asset_type, category, subcategory,
			feature_group, target_path, file_size, file_hash,
			creation_date, modification_date, wcs_source_file, wcs_format,
			metadata_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		asset.AssetID,
		asset.Name,
		asset.FilePath,
		string(asset.Type),
		asset.Category,
		asset.Subcategory,
		asset.FeatureGroup,
		asset.TargetPath,
		asset.FileSize,
		asset.ContentHash,
		asset.CreatedAt,
		asset.ModifiedAt,
		asset.SourceFile,
		asset.SourceFormat,
		string(metadata),
	)
	if err != nil {
		return fmt.Errorf("registering asset %s: %w", asset.AssetID, err)
	}

	for _, tag := range asset.Tags {
		if _, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO asset_tags (asset_id, tag) VALUES (?, ?)`,
			asset.AssetID, tag,
		); err != nil {
			return fmt.Errorf("tagging asset %s: %w", asset.AssetID, err)
		}
	}

	r.mu.Lock()
	r.assets[asset.AssetID] = asset
	r.mu.Unlock()
	return nil
}

// GetAsset fetches an asset by id, preferring the in-memory projection.
func (r *Repository) GetAsset(ctx context.Context, assetID string) (*entities.Asset, error) {
	r.mu.RLock()
	if asset, ok := r.assets[assetID]; ok {
		r.mu.RUnlock()
		return asset, nil
	}
	r.mu.RUnlock()

	query := `
		SELECT asset_id, name, file_path, asset_type, category, subcategory,
			feature_group, target_path, file_size, file_hash,
			creation_date, modification_date, wcs_source_file, wcs_format,
			metadata_json
		FROM assets WHERE asset_id = ?
	`
	asset, err := scanAsset(r.db.QueryRowContext(ctx, query, assetID))
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, nil
	}
	if err := r.loadTags(ctx, asset); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.assets[assetID] = asset
	r.mu.Unlock()
	return asset, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (*entities.Asset, error) {
	var asset entities.Asset
	var assetType, metadataJSON string
	var category, subcategory, featureGroup, targetPath, fileHash, sourceFile, sourceFormat sql.NullString
	err := row.Scan(
		&asset.AssetID,
		&asset.Name,
		&asset.FilePath,
		&assetType,
		&category,
		&subcategory,
		&featureGroup,
		&targetPath,
		&asset.FileSize,
		&fileHash,
		&asset.CreatedAt,
		&asset.ModifiedAt,
		&sourceFile,
		&sourceFormat,
		&metadataJSON,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning asset: %w", err)
	}
	asset.Type = entities.AssetType(assetType)
	asset.Category = category.String
	asset.Subcategory = subcategory.String
	asset.FeatureGroup = featureGroup.String
	asset.TargetPath = targetPath.String
	asset.ContentHash = fileHash.String
	asset.SourceFile = sourceFile.String
	asset.SourceFormat = sourceFormat.String
	if metadataJSON != "" && metadataJSON != "null" {
		if err := json.Unmarshal([]byte(metadataJSON), &asset.Properties); err != nil {
			return nil, fmt.Errorf("decoding asset metadata: %w", err)
		}
	}
	return &asset, nil
}

func (r *Repository) loadTags(ctx context.Context, asset *entities.Asset) error {
	rows, err := r.db.QueryContext(ctx, `SELECT tag FROM asset_tags WHERE asset_id = ? ORDER BY tag`, asset.AssetID)
	if err != nil {
		return fmt.Errorf("loading tags: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return fmt.Errorf("scanning tag: %w", err)
		}
		asset.Tags = append(asset.Tags, tag)
	}
	return rows.Err()
}

// AddRelationship records a typed edge and updates both assets' in-memory
// dependency lists.
func (r *Repository) AddRelationship(ctx context.Context, rel *entities.AssetRelationship) error {
	if rel.CreatedAt.IsZero() {
		rel.CreatedAt = timeNow().UTC()
	}
	metadata, err := json.Marshal(rel.Metadata)
	if err != nil {
		return fmt.Errorf("encoding relationship metadata: %w", err)
	}

	query := `
		INSERT INTO relationships (source_asset, target_asset, relationship_type, strength, metadata_json, created_date)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		rel.SourceAsset,
		rel.TargetAsset,
		string(rel.Type),
		rel.Strength,
		string(metadata),
		rel.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("adding relationship %s -> %s: %w", rel.SourceAsset, rel.TargetAsset, err)
	}

	r.mu.Lock()
	if src, ok := r.assets[rel.SourceAsset]; ok {
		src.Dependencies = appendUnique(src.Dependencies, rel.TargetAsset)
	}
	if dst, ok := r.assets[rel.TargetAsset]; ok {
		dst.Dependents = appendUnique(dst.Dependents, rel.SourceAsset)
	}
	r.mu.Unlock()
	return nil
}

func appendUnique(list []string, v string) []string {
	for _, e := range list {
		if e == v {
			return list
		}
	}
	return append(list, v)
}

// Relationships returns all stored relationships.
func (r *Repository) Relationships(ctx context.Context) ([]entities.AssetRelationship, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT source_asset, target_asset, relationship_type, strength, metadata_json, created_date
		FROM relationships ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing relationships: %w", err)
	}
	defer rows.Close()

	var out []entities.AssetRelationship
	for rows.Next() {
		var rel entities.AssetRelationship
		var relType string
		var metadataJSON sql.NullString
		if err := rows.Scan(&rel.SourceAsset, &rel.TargetAsset, &relType, &rel.Strength, &metadataJSON, &rel.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning relationship: %w", err)
		}
		rel.Type = entities.RelationshipType(relType)
		if metadataJSON.Valid && metadataJSON.String != "" && metadataJSON.String != "null" {
			if err := json.Unmarshal([]byte(metadataJSON.String), &rel.Metadata); err != nil {
				return nil, fmt.Errorf("decoding relationship metadata: %w", err)
			}
		}
		out = append(out, rel)
	}
	return out, rows.Err()
}

// CreateGroup creates a named asset group.
func (r *Repository) CreateGroup(ctx context.Context, group *entities.AssetGroup) error {
	if group.CreatedAt.IsZero() {
		group.CreatedAt = timeNow().UTC()
	}
	tags, err := json.Marshal(group.Tags)
	if err != nil {
		return fmt.Errorf("encoding group tags: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO asset_groups (name, description, tags_json, created_date)
		VALUES (?, ?, ?, ?)
	`, group.Name, group.Description, string(tags), group.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating group %s: %w", group.Name, err)
	}
	for _, assetID := range group.AssetIDs {
		if err := r.AddToGroup(ctx, group.Name, assetID); err != nil {
			return err
		}
	}
	return nil
}

// AddToGroup adds an asset to a group.
func (r *Repository) AddToGroup(ctx context.Context, groupName, assetID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO group_memberships (group_name, asset_id) VALUES (?, ?)
	`, groupName, assetID)
	if err != nil {
		return fmt.Errorf("adding %s to group %s: %w", assetID, groupName, err)
	}
	return nil
}

// Groups returns all groups with their memberships.
func (r *Repository) Groups(ctx context.Context) ([]entities.AssetGroup, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, description, tags_json, created_date FROM asset_groups ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}
	defer rows.Close()

	var groups []entities.AssetGroup
	for rows.Next() {
		var g entities.AssetGroup
		var description, tagsJSON sql.NullString
		if err := rows.Scan(&g.Name, &description, &tagsJSON, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning group: %w", err)
		}
		g.Description = description.String
		if tagsJSON.Valid && tagsJSON.String != "" && tagsJSON.String != "null" {
			if err := json.Unmarshal([]byte(tagsJSON.String), &g.Tags); err != nil {
				return nil, fmt.Errorf("decoding group tags: %w", err)
			}
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range groups {
		memberRows, err := r.db.QueryContext(ctx, `
			SELECT asset_id FROM group_memberships WHERE group_name = ? ORDER BY asset_id
		`, groups[i].Name)
		if err != nil {
			return nil, fmt.Errorf("listing group members: %w", err)
		}
		for memberRows.Next() {
			var id string
			if err := memberRows.Scan(&id); err != nil {
				memberRows.Close()
				return nil, fmt.Errorf("scanning group member: %w", err)
			}
			groups[i].AssetIDs = append(groups[i].AssetIDs, id)
		}
		if err := memberRows.Err(); err != nil {
			memberRows.Close()
			return nil, err
		}
		memberRows.Close()
	}
	return groups, nil
}

// SearchAssets runs a filtered search. Filters combine with AND; tags within
// the tag list combine with OR; the free-text query substring-matches name,
// category, subcategory, feature group and metadata.
func (r *Repository) SearchAssets(ctx context.Context, search ports.AssetSearch) ([]*entities.Asset, error) {
	var conds []string
	var args []any

	if search.AssetType != "" {
		conds = append(conds, "asset_type = ?")
		args = append(args, string(search.AssetType))
	}
	if search.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, search.Category)
	}
	if search.FeatureGroup != "" {
		conds = append(conds, "feature_group = ?")
		args = append(args, search.FeatureGroup)
	}
	if search.Query != "" {
		conds = append(conds, "(name LIKE ? OR category LIKE ? OR subcategory LIKE ? OR feature_group LIKE ? OR metadata_json LIKE ?)")
		like := "%" + search.Query + "%"
		args = append(args, like, like, like, like, like)
	}
	if len(search.Tags) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(search.Tags)), ",")
		conds = append(conds, "asset_id IN (SELECT asset_id FROM asset_tags WHERE tag IN ("+placeholders+"))")
		for _, tag := range search.Tags {
			args = append(args, tag)
		}
	}

	query := `
		SELECT asset_id, name, file_path, asset_type, category, subcategory,
			feature_group, target_path, file_size, file_hash,
			creation_date, modification_date, wcs_source_file, wcs_format,
			metadata_json
		FROM assets
	`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY name"
	if search.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, search.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching assets: %w", err)
	}
	defer rows.Close()

	var out []*entities.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, asset)
	}
	return out, rows.Err()
}

// AssetsByFeatureGroup returns the assets of one feature group.
func (r *Repository) AssetsByFeatureGroup(ctx context.Context, featureGroup string) ([]*entities.Asset, error) {
	return r.SearchAssets(ctx, ports.AssetSearch{FeatureGroup: featureGroup})
}

// FeatureGroups lists all distinct feature groups.
func (r *Repository) FeatureGroups(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT feature_group FROM assets
		WHERE feature_group IS NOT NULL AND feature_group != ''
		ORDER BY feature_group
	`)
	if err != nil {
		return nil, fmt.Errorf("listing feature groups: %w", err)
	}
	defer rows.Close()

	var groups []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, fmt.Errorf("scanning feature group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// RecordIssue stores a validation issue.
func (r *Repository) RecordIssue(ctx context.Context, issue *entities.ValidationIssue) error {
	if issue.CreatedAt.IsZero() {
		issue.CreatedAt = timeNow().UTC()
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO validation_issues (asset_id, issue_type, severity, message, recommendation, created_date)
		VALUES (?, ?, ?, ?, ?, ?)
	`, issue.AssetID, issue.IssueType, string(issue.Severity), issue.Message, issue.Recommendation, issue.CreatedAt)
	if err != nil {
		return fmt.Errorf("recording issue: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		issue.ID = id
	}
	return nil
}

// Issues returns all stored validation issues.
func (r *Repository) Issues(ctx context.Context) ([]entities.ValidationIssue, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, asset_id, issue_type, severity, message, recommendation, created_date
		FROM validation_issues ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing issues: %w", err)
	}
	defer rows.Close()

	var out []entities.ValidationIssue
	for rows.Next() {
		var issue entities.ValidationIssue
		var assetID, recommendation sql.NullString
		var severity string
		if err := rows.Scan(&issue.ID, &assetID, &issue.IssueType, &severity, &issue.Message, &recommendation, &issue.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning issue: %w", err)
		}
		issue.AssetID = assetID.String
		issue.Severity = entities.IssueSeverity(severity)
		issue.Recommendation = recommendation.String
		out = append(out, issue)
	}
	return out, rows.Err()
}

// Statistics summarizes the catalog.
func (r *Repository) Statistics(ctx context.Context) (*ports.AssetStatistics, error) {
	stats := &ports.AssetStatistics{
		ByType:         make(map[string]int),
		ByCategory:     make(map[string]int),
		ByFeatureGroup: make(map[string]int),
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT asset_type, COALESCE(category, ''), COALESCE(feature_group, ''), file_size FROM assets
	`)
	if err != nil {
		return nil, fmt.Errorf("reading asset statistics: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var assetType, category, featureGroup string
		var size int64
		if err := rows.Scan(&assetType, &category, &featureGroup, &size); err != nil {
			return nil, fmt.Errorf("scanning asset statistics: %w", err)
		}
		stats.TotalAssets++
		stats.TotalSize += size
		stats.ByType[assetType]++
		if category != "" {
			stats.ByCategory[category]++
		}
		if featureGroup != "" {
			stats.ByFeatureGroup[featureGroup]++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	counts := []struct {
		query string
		dst   *int
	}{
		{"SELECT COUNT(*) FROM relationships", &stats.Relationships},
		{"SELECT COUNT(*) FROM asset_groups", &stats.Groups},
		{"SELECT COUNT(DISTINCT tag) FROM asset_tags", &stats.Tags},
	}
	for _, c := range counts {
		if err := r.db.QueryRowContext(ctx, c.query).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("counting catalog rows: %w", err)
		}
	}
	return stats, nil
}

// LoadCatalog reconstructs the in-memory asset projection from SQLite.
func (r *Repository) LoadCatalog(ctx context.Context) error {
	assets, err := r.SearchAssets(ctx, ports.AssetSearch{})
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	for _, asset := range assets {
		if err := r.loadTags(ctx, asset); err != nil {
			return err
		}
	}

	rels, err := r.Relationships(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.assets = make(map[string]*entities.Asset, len(assets))
	for _, asset := range assets {
		r.assets[asset.AssetID] = asset
	}
	for _, rel := range rels {
		if src, ok := r.assets[rel.SourceAsset]; ok {
			src.Dependencies = appendUnique(src.Dependencies, rel.TargetAsset)
		}
		if dst, ok := r.assets[rel.TargetAsset]; ok {
			dst.Dependents = appendUnique(dst.Dependents, rel.SourceAsset)
		}
	}
	r.mu.Unlock()
	return nil
}

package handlers

import (
	"context"
	"io/fs"

	"github.com/wcsaga/forge/internal/domain/entities"
	"github.com/wcsaga/forge/internal/domain/ports"
)

// CatalogHandler exposes catalog queries at the application layer.
type CatalogHandler struct {
	catalog ports.Catalog
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(catalog ports.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// HandleSearch runs a filtered asset search.
func (h *CatalogHandler) HandleSearch(ctx context.Context, search ports.AssetSearch) ([]*entities.Asset, error) {
	return h.catalog.SearchAssets(ctx, search)
}

// HandleValidate runs the validation pass against the source tree.
func (h *CatalogHandler) HandleValidate(ctx context.Context, source fs.FS) ([]entities.ValidationIssue, error) {
	return h.catalog.ValidateAssets(ctx, source)
}

// HandleStatistics summarises the catalog.
func (h *CatalogHandler) HandleStatistics(ctx context.Context) (*ports.AssetStatistics, error) {
	return h.catalog.Statistics(ctx)
}

// HandleFeatureGroups lists the distinct feature groups.
func (h *CatalogHandler) HandleFeatureGroups(ctx context.Context) ([]string, error) {
	return h.catalog.FeatureGroups(ctx)
}

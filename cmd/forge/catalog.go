package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/wcsaga/forge/internal/application/handlers"
	"github.com/wcsaga/forge/internal/domain/entities"
	"github.com/wcsaga/forge/internal/domain/ports"
)

func newCatalogCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Query an asset catalog database",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "catalog.db", "Catalog SQLite file")

	cmd.AddCommand(
		newCatalogSearchCmd(&dbPath),
		newCatalogValidateCmd(&dbPath),
		newCatalogStatsCmd(&dbPath),
	)
	return cmd
}

func newCatalogSearchCmd(dbPath *string) *cobra.Command {
	var (
		assetType    string
		category     string
		featureGroup string
		tags         []string
		limit        int
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search cataloged assets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			return withCatalog(cmd.Context(), *dbPath, func(h *handlers.CatalogHandler) error {
				assets, err := h.HandleSearch(cmd.Context(), ports.AssetSearch{
					Query:        query,
					AssetType:    entities.AssetType(assetType),
					Category:     category,
					FeatureGroup: featureGroup,
					Tags:         tags,
					Limit:        limit,
				})
				if err != nil {
					return fmt.Errorf("searching catalog: %w", err)
				}
				if len(assets) == 0 {
					fmt.Println("No assets found.")
					return nil
				}
				for _, asset := range assets {
					fmt.Printf("%-16s %-10s %-40s -> %s\n", asset.AssetID, asset.Type, asset.FilePath, asset.TargetPath)
				}
				fmt.Printf("%d asset(s)\n", len(assets))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&assetType, "type", "t", "", "Filter by asset type")
	cmd.Flags().StringVar(&category, "category", "", "Filter by category")
	cmd.Flags().StringVar(&featureGroup, "feature-group", "", "Filter by feature group")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Filter by tag (repeatable, OR semantics)")
	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultSearchLimit, "Maximum number of results")

	return cmd
}

func newCatalogValidateCmd(dbPath *string) *cobra.Command {
	var sourceDir string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run the catalog validation pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(cmd.Context(), *dbPath, func(h *handlers.CatalogHandler) error {
				var source fs.FS
				if sourceDir != "" {
					source = os.DirFS(sourceDir)
				}
				issues, err := h.HandleValidate(cmd.Context(), source)
				if err != nil {
					return fmt.Errorf("validating catalog: %w", err)
				}
				if len(issues) == 0 {
					fmt.Println("No issues.")
					return nil
				}
				errorCount := 0
				for _, issue := range issues {
					fmt.Printf("[%s] %s %s: %s\n", issue.Severity, issue.IssueType, issue.AssetID, issue.Message)
					if issue.Severity != entities.IssueWarning {
						errorCount++
					}
				}
				if errorCount > 0 {
					return errors.New("validation found errors")
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&sourceDir, "source", "s", "", "Source directory for file-existence checks")
	return cmd
}

func newCatalogStatsCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(cmd.Context(), *dbPath, func(h *handlers.CatalogHandler) error {
				stats, err := h.HandleStatistics(cmd.Context())
				if err != nil {
					return fmt.Errorf("reading statistics: %w", err)
				}
				fmt.Printf("Assets:        %d\n", stats.TotalAssets)
				fmt.Printf("Total size:    %d bytes\n", stats.TotalSize)
				fmt.Printf("Relationships: %d\n", stats.Relationships)
				fmt.Printf("Groups:        %d\n", stats.Groups)
				fmt.Printf("Tags:          %d\n", stats.Tags)
				for t, n := range stats.ByType {
					fmt.Printf("  type %-16s %d\n", t, n)
				}
				for g, n := range stats.ByFeatureGroup {
					fmt.Printf("  group %-24s %d\n", g, n)
				}
				return nil
			})
		},
	}
}

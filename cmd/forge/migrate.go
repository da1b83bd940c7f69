package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	var (
		sourceDir string
		outputDir string
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run the full asset migration pipeline",
		Long:  "Parses tables, discovers assets, builds the dependency graph, fills the catalog and emits Godot resources.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if sourceDir == "" || outputDir == "" {
				return errors.New("--source and --output are required")
			}
			return runMigrate(cmd, sourceDir, outputDir)
		},
	}

	cmd.Flags().StringVarP(&sourceDir, "source", "s", "", "Campaign source directory")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Godot project output directory")

	return cmd
}

func runMigrate(cmd *cobra.Command, sourceDir, outputDir string) error {
	ctx := cmd.Context()

	return withPipelineDeps(sourceDir, outputDir, func(d *pipelineDeps) error {
		mappingOut := filepath.Join(outputDir, "asset_mapping.json")
		result, err := d.Migrate.HandleMigrate(ctx, sourceDir, d.Config.Source.Dirs.Core, mappingOut)
		if err != nil {
			return err
		}

		fmt.Printf("Entities mapped:     %d\n", result.Mapping.EntityCount)
		fmt.Printf("Assets registered:   %d\n", result.AssetsRegistered)
		fmt.Printf("Edges recorded:      %d\n", result.EdgesRecorded)
		fmt.Printf("Resources written:   %d\n", result.ResourcesWritten)
		fmt.Printf("Scenes written:      %d\n", result.ScenesWritten)
		fmt.Printf("Duplicates found:    %d\n", result.Mapping.DuplicatesFound)
		fmt.Printf("Warnings:            %d\n", result.Mapping.Warnings)
		fmt.Printf("Errors:              %d\n", result.Mapping.Errors)
		for _, line := range d.Diags.Summary() {
			fmt.Printf("  %s\n", line)
		}

		if result.Failed {
			return errors.New("migration finished with errors; partial catalog flushed")
		}
		return nil
	})
}

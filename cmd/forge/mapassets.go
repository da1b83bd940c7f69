package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/wcsaga/forge/internal/infrastructure/hashindex"
)

func newMapAssetsCmd() *cobra.Command {
	var (
		sourceDir       string
		outputPath      string
		targetStructure string
		verbose         bool
	)

	cmd := &cobra.Command{
		Use:   "map-assets",
		Short: "Build the per-entity asset mapping document",
		Long:  "Parses tables and missions, discovers related assets and writes the asset mapping JSON.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if sourceDir == "" || outputPath == "" {
				return errors.New("--source and --output are required")
			}
			return runMapAssets(cmd, sourceDir, outputPath, targetStructure, verbose)
		},
	}

	cmd.Flags().StringVarP(&sourceDir, "source", "s", "", "Campaign source directory")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Mapping JSON output path")
	cmd.Flags().StringVar(&targetStructure, "target-structure", "", "Config file overriding the target layout")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print every mapped entity")

	return cmd
}

func runMapAssets(cmd *cobra.Command, sourceDir, outputPath, targetStructure string, verbose bool) error {
	ctx := cmd.Context()

	if targetStructure != "" {
		globalConfig = targetStructure
	}

	deps, err := buildDeps(sourceDir, hashindex.NewMemory())
	if err != nil {
		return err
	}

	result, err := deps.Mapping.HandleMapAssets(ctx, sourceDir, deps.Config.Source.Dirs.Core, outputPath)
	if err != nil {
		return err
	}

	if verbose {
		names := make([]string, 0, len(result.Mappings))
		for name := range result.Mappings {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			m := result.Mappings[name]
			primary := "-"
			if m.PrimaryAsset != nil {
				primary = m.PrimaryAsset.TargetAsset
			}
			fmt.Printf("%-12s %-40s primary=%s related=%d\n", m.EntityType, name, primary, len(m.RelatedAssets))
		}
	}

	fmt.Printf("Entities:     %d\n", result.EntityCount)
	fmt.Printf("Edges:        %d\n", result.EdgeCount)
	fmt.Printf("Duplicates:   %d\n", result.DuplicatesFound)
	fmt.Printf("Warnings:     %d\n", result.Warnings)
	fmt.Printf("Errors:       %d\n", result.Errors)
	fmt.Printf("Mapping written to %s\n", outputPath)

	if result.Errors > 0 {
		return errors.New("mapping finished with errors")
	}
	return nil
}

// Package main provides the entry point for the forge CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version      = "0.1.0-dev"
	globalConfig string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:     "forge",
		Short:   "Converts Wing Commander Saga game data into a Godot project",
		Version: version,
	}

	rootCmd.PersistentFlags().StringVarP(&globalConfig, "config", "c", "forge.yaml", "Config file path")

	rootCmd.AddCommand(
		newMigrateCmd(),
		newMapAssetsCmd(),
		newPofCmd(),
		newGraphCmd(),
		newCatalogCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}

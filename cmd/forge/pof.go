package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wcsaga/forge/internal/application/handlers"
	"github.com/wcsaga/forge/internal/infrastructure/pof"
)

func newPofCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pof",
		Short: "Inspect POF model files",
	}
	cmd.AddCommand(newPofInfoCmd(), newPofAnalyzeCmd())
	return cmd
}

func newPofInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file.pof>",
		Short: "Parse a model and print its structural summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handler := handlers.NewInspectHandler(pof.NewParser(), pof.NewAnalyzer())
			info, err := handler.HandleInfo(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("parsing model: %w", err)
			}

			fmt.Printf("File:           %s\n", info.Filename)
			fmt.Printf("Version:        %d\n", info.Version)
			fmt.Printf("Size:           %d bytes\n", info.FileSize)
			fmt.Printf("Chunks:         %d\n", info.ChunkCount)
			fmt.Printf("Subobjects:     %d\n", info.SubObjects)
			fmt.Printf("Max radius:     %.2f\n", info.MaxRadius)
			fmt.Printf("Textures:       %d\n", len(info.Textures))
			for _, tex := range info.Textures {
				fmt.Printf("  %s\n", tex)
			}
			fmt.Printf("Weapon banks:   %d\n", info.WeaponBanks)
			fmt.Printf("Dock points:    %d\n", info.DockPoints)
			fmt.Printf("Thrusters:      %d\n", info.Thrusters)
			fmt.Printf("Shield faces:   %d\n", info.ShieldFaces)
			fmt.Printf("Special points: %d\n", info.SpecialPoints)
			if len(info.Warnings) > 0 {
				fmt.Printf("Warnings:\n")
				for _, w := range info.Warnings {
					fmt.Printf("  %s\n", w)
				}
			}
			return nil
		},
	}
}

func newPofAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <file.pof>",
		Short: "Scan a model's chunk structure without decoding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handler := handlers.NewInspectHandler(pof.NewParser(), pof.NewAnalyzer())
			analysis, err := handler.HandleAnalyze(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("analyzing model: %w", err)
			}

			fmt.Printf("File:    %s\n", analysis.Filename)
			fmt.Printf("Version: %d\n", analysis.Version)
			fmt.Printf("Size:    %d bytes\n", analysis.FileSize)
			fmt.Printf("Chunks:\n")
			for _, chunk := range analysis.Chunks {
				status := "ok"
				if !chunk.Success {
					status = "BAD: " + chunk.Error
				}
				fmt.Printf("  %-4s offset=%-8d length=%-8d %s\n", chunk.ID, chunk.Offset, chunk.Length, status)
			}
			for _, w := range analysis.Warnings {
				fmt.Printf("warning: %s\n", w)
			}
			for _, issue := range analysis.Issues {
				fmt.Printf("issue: %s\n", issue)
			}
			if !analysis.Valid {
				return errors.New("model failed validation")
			}
			fmt.Println("Model is structurally valid.")
			return nil
		},
	}
}

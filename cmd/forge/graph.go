package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wcsaga/forge/internal/domain/graph"
)

func newGraphCmd() *cobra.Command {
	var graphPath string

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Inspect a persisted dependency graph",
	}
	cmd.PersistentFlags().StringVarP(&graphPath, "graph", "g", "dependency_graph.json", "Graph JSON file")

	cmd.AddCommand(
		newGraphStatsCmd(&graphPath),
		newGraphCyclesCmd(&graphPath),
		newGraphOrderCmd(&graphPath),
	)
	return cmd
}

func loadGraph(path string) (*graph.Graph, error) {
	g := graph.New("", false)
	if err := g.Load(path); err != nil {
		return nil, err
	}
	return g, nil
}

func newGraphStatsCmd(graphPath *string) *cobra.Command {
	var paths int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(*graphPath)
			if err != nil {
				return err
			}
			stats := g.Statistics()
			fmt.Printf("Nodes:     %d\n", stats.NodeCount)
			fmt.Printf("Edges:     %d\n", stats.EdgeCount)
			fmt.Printf("Roots:     %d\n", stats.RootCount)
			fmt.Printf("Leaves:    %d\n", stats.LeafCount)
			fmt.Printf("Orphaned:  %d\n", stats.OrphanedCount)
			fmt.Printf("Cycles:    %d\n", stats.CycleCount)
			fmt.Printf("Max depth: %d\n", stats.MaxDepth)
			for t, n := range stats.NodesByType {
				fmt.Printf("  node type %-16s %d\n", t, n)
			}
			for t, n := range stats.EdgesByType {
				fmt.Printf("  edge type %-16s %d\n", t, n)
			}
			if paths > 0 {
				fmt.Println("Critical paths:")
				for _, chain := range g.CriticalPaths(paths) {
					fmt.Printf("  %s\n", strings.Join(chain, " -> "))
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&paths, "critical-paths", 0, "Also print the N longest dependency chains")
	return cmd
}

func newGraphCyclesCmd(graphPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "cycles",
		Short: "List dependency cycles",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(*graphPath)
			if err != nil {
				return err
			}
			cycles := g.FindCycles()
			if len(cycles) == 0 {
				fmt.Println("No cycles.")
				return nil
			}
			for _, cycle := range cycles {
				fmt.Printf("%s -> %s\n", strings.Join(cycle, " -> "), cycle[0])
			}
			return fmt.Errorf("%d cycle(s) found", len(cycles))
		},
	}
}

func newGraphOrderCmd(graphPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "order",
		Short: "Print the asset order (referencing assets first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(*graphPath)
			if err != nil {
				return err
			}
			order, ok := g.TopologicalOrder()
			if !ok {
				fmt.Println("warning: graph has cycles; remaining nodes appended in insertion order")
			}
			for _, id := range order {
				if node, found := g.Node(id); found && node.Path != "" {
					fmt.Printf("%s\t%s\n", id, node.Path)
				} else {
					fmt.Println(id)
				}
			}
			return nil
		},
	}
}

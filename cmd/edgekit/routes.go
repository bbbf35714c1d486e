package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edgekit-dev/edgekit/internal/config"
	"github.com/edgekit-dev/edgekit/pkg/manifest"
)

func routesCmd() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the routes in a distribution's manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(".")
			if err != nil {
				return err
			}
			if root != "" {
				cfg.Root = root
			}

			m, err := manifest.Load(cfg.Root)
			if err != nil {
				return fmt.Errorf("load manifest from %s: %w", cfg.Root, err)
			}

			printCategory("HTML", m.HTML)
			printCategory("API", m.API)
			printCategory("Not found", m.NotFound)
			info("%d routes total", m.Len())
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "distribution folder")
	return cmd
}

// printCategory lists one route category in declaration (match-priority)
// order.
func printCategory(name string, routes []*manifest.Route) {
	if len(routes) == 0 {
		return
	}
	fmt.Printf("%s:\n", name)
	for _, route := range routes {
		id := route.ID()
		fmt.Printf("  %-40s %s\n", route.Pattern.String(), id)
	}
}

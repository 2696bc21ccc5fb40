package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/citychase/internal/world"
)

type genOptions struct {
	gen    world.GenConfig
	output string
	name   string
}

func (a *app) newGenCmd() *cobra.Command {
	opts := &genOptions{gen: world.DefaultGenConfig()}

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a city map",
		Long: `Generate a connected city map from simplex terrain noise.

The map is written in the text map format to stdout, to --output, or into
the database under --name.

Examples:
  citychase gen --seed 42 --cities 20 -o valley.map
  citychase gen --db maps.db --name valley`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.generate(opts)
		},
	}

	cmd.Flags().Int64Var(&opts.gen.Seed, "seed", envInt64OrDefault("CITYCHASE_SEED", 0), "Generator seed, 0 = random")
	cmd.Flags().IntVar(&opts.gen.NumCities, "cities", opts.gen.NumCities, "Number of cities")
	cmd.Flags().IntVar(&opts.gen.Radius, "radius", opts.gen.Radius, "Hex grid radius")
	cmd.Flags().IntVar(&opts.gen.Links, "links", opts.gen.Links, "Nearest neighbours joined to each city")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the map to this file")
	cmd.Flags().StringVar(&opts.name, "name", "", "Store the map in the database under this name")

	return cmd
}

func (a *app) generate(opts *genOptions) error {
	m, layout, err := world.Generate(opts.gen)
	if err != nil {
		return err
	}
	slog.Info("map generated",
		"seed", layout.Seed,
		"cities", humanize.Comma(int64(m.NumCities())),
		"roads", humanize.Comma(int64(m.NumRoads())),
	)
	for t, c := range layout.TerrainCounts() {
		slog.Debug("terrain", "type", t, "count", c)
	}

	if opts.name != "" {
		db, err := a.requireDB()
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.SaveMap(opts.name, m); err != nil {
			return fmt.Errorf("failed to store map: %w", err)
		}
		fmt.Fprintf(a.stdout, "Stored %s as %q.\n", m, opts.name)
	}

	switch {
	case opts.output != "":
		f, err := os.Create(opts.output)
		if err != nil {
			return err
		}
		if err := world.WriteMap(f, m); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Wrote %s to %s.\n", m, opts.output)
	case opts.name == "":
		return world.WriteMap(a.stdout, m)
	}
	return nil
}

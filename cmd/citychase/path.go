package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/citychase/internal/agents"
	"github.com/talgya/citychase/internal/config"
	"github.com/talgya/citychase/internal/world"
)

type pathOptions struct {
	from       string
	to         string
	stamina    int
	maxStamina int
	name       string
}

func (a *app) newPathCmd() *cobra.Command {
	opts := &pathOptions{}

	cmd := &cobra.Command{
		Use:   "path [map file]",
		Short: "Print the route with the fewest turns between two cities",
		Long: `Print the route a tipped-off detective would take: the fewest turns,
counting a turn for every rest needed before a road longer than the stamina
left.

Examples:
  citychase path valley.map --from 0 --to Ironford --stamina 6
  citychase path --db maps.db --name valley --from 3 --to 9 --stamina 4 --max-stamina 8`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.path(opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.from, "from", "", "Start city, id or name (required)")
	cmd.Flags().StringVar(&opts.to, "to", "", "Target city, id or name (required)")
	cmd.Flags().IntVar(&opts.stamina, "stamina", 10, "Stamina at the start")
	cmd.Flags().IntVar(&opts.maxStamina, "max-stamina", 0, "Stamina after a rest, defaults to --stamina")
	cmd.Flags().StringVar(&opts.name, "name", "", "Stored map to search instead of a file")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func (a *app) path(opts *pathOptions, args []string) error {
	var (
		m   *world.Map
		err error
	)
	switch {
	case len(args) == 1:
		m, err = readMapFile(args[0])
	case opts.name != "":
		db, dbErr := a.requireDB()
		if dbErr != nil {
			return dbErr
		}
		defer db.Close()
		m, err = db.LoadMap(opts.name)
	default:
		return fmt.Errorf("need a map file or --name")
	}
	if err != nil {
		return err
	}

	from, err := config.ParseCityRef(opts.from).Resolve(m)
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	to, err := config.ParseCityRef(opts.to).Resolve(m)
	if err != nil {
		return fmt.Errorf("--to: %w", err)
	}
	maxStamina := opts.maxStamina
	if maxStamina == 0 {
		maxStamina = opts.stamina
	}

	p, err := agents.LeastTurnsPath(m, from, to, opts.stamina, maxStamina)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "%s -> %s: %s roads, %s turns, %s stamina\n",
		m.Name(from), m.Name(to),
		humanize.Comma(int64(len(p.Moves))), humanize.Comma(int64(p.Turns)), humanize.Comma(int64(p.Cost())))

	stamina := min(opts.stamina, maxStamina)
	at := from
	for _, mv := range p.Moves {
		if mv.StaminaCost > stamina {
			fmt.Fprintf(a.stdout, "  rest at %s\n", m.Name(at))
			stamina = maxStamina
		}
		stamina -= mv.StaminaCost
		fmt.Fprintf(a.stdout, "  %s -> %s (%d, %d left)\n", m.Name(at), m.Name(mv.To), mv.StaminaCost, stamina)
		at = mv.To
	}
	return nil
}

package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type historyOptions struct {
	limit int
	runID string
}

func (a *app) newHistoryCmd() *cobra.Command {
	opts := &historyOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored maps and recent runs",
		Long: `List the maps and runs saved in the database, or the last events of one run.

Examples:
  citychase history --db runs.db
  citychase history --db runs.db --run 4f7c... --limit 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.history(opts)
		},
	}

	cmd.Flags().IntVar(&opts.limit, "limit", 10, "How many runs or events to list")
	cmd.Flags().StringVar(&opts.runID, "run", "", "Show the last events of this run")

	return cmd
}

func (a *app) history(opts *historyOptions) error {
	db, err := a.requireDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if opts.runID != "" {
		id, err := uuid.Parse(opts.runID)
		if err != nil {
			return fmt.Errorf("--run: %w", err)
		}
		events, err := db.RecentEvents(id, opts.limit)
		if err != nil {
			return err
		}
		for _, e := range events {
			fmt.Fprintf(a.stdout, "turn %-5d %-8s %-16s %d -> %d (%d)\n", e.Turn, e.Kind, e.Agent, e.From, e.To, e.Cost)
		}
		return nil
	}

	maps, err := db.ListMaps()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Maps (%s):\n", humanize.Comma(int64(len(maps))))
	for _, m := range maps {
		fmt.Fprintf(a.stdout, "  %-20s %s cities, %s roads, saved %s\n",
			m.Name, humanize.Comma(int64(m.Cities)), humanize.Comma(int64(m.Roads)), humanize.Time(m.CreatedAt))
	}

	runs, err := db.RecentRuns(opts.limit)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Runs (latest %d):\n", opts.limit)
	for _, r := range runs {
		fmt.Fprintf(a.stdout, "  %s  %-12s %-8s %s turns  %s\n",
			r.ID, r.MapName, r.Outcome, humanize.Comma(int64(r.Turns)), humanize.Time(time.Unix(r.Started, 0)))
	}
	return nil
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/citychase/internal/config"
	"github.com/talgya/citychase/internal/engine"
	"github.com/talgya/citychase/internal/entropy"
	"github.com/talgya/citychase/internal/persistence"
	"github.com/talgya/citychase/internal/world"
)

type runOptions struct {
	scenarioPath string
	seed         int64
	maxTurns     uint64
	interval     time.Duration
	jsonOutput   bool
	save         bool
}

func (a *app) newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Play a chase scenario",
		Long: `Play the chase described by a scenario file until the thief is caught,
escapes or the turns run out.

Examples:
  citychase run -f harbour.yaml
  citychase run -f harbour.yaml --seed 7 --verbose
  citychase run -f harbour.yaml --db runs.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runScenario(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.scenarioPath, "file", "f", "", "Scenario file (required)")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "Run seed, overrides CITYCHASE_SEED and the scenario")
	cmd.Flags().Uint64Var(&opts.maxTurns, "max-turns", 0, "Turn limit, overrides the scenario")
	cmd.Flags().DurationVar(&opts.interval, "interval", 0, "Pause between turns")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVar(&opts.save, "save", true, "Save the run log when a database is open")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (a *app) runScenario(ctx context.Context, opts *runOptions) error {
	sc, err := config.LoadFile(opts.scenarioPath)
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}

	seed := opts.seed
	if seed == 0 {
		seed = envInt64OrDefault("CITYCHASE_SEED", sc.Seed)
	}
	seed = entropy.Resolve(seed)
	if opts.maxTurns > 0 {
		sc.MaxTurns = opts.maxTurns
	}

	db, err := a.openDB()
	if err != nil {
		return err
	}
	var store config.MapStore
	if db != nil {
		defer db.Close()
		store = db
	}

	m, layout, err := sc.OpenMap(store, seed)
	if err != nil {
		return fmt.Errorf("failed to open map: %w", err)
	}
	if layout != nil {
		slog.Debug("map generated", "seed", layout.Seed, "sites", len(layout.Sites))
	}

	cfg, err := sc.Chase(m, seed)
	if err != nil {
		return fmt.Errorf("failed to set up chase: %w", err)
	}
	cfg.Interval = opts.interval

	slog.Info("chase starting",
		"scenario", sc.Name,
		"seed", seed,
		"map", m,
		"thief", cfg.Thief,
		"detectives", len(cfg.Detectives),
		"getaway", m.Name(cfg.Getaway),
	)

	chase, err := engine.NewChase(cfg)
	if err != nil {
		return err
	}
	started := time.Now()
	res, err := chase.Run(ctx)
	if err != nil {
		return fmt.Errorf("chase stopped: %w", err)
	}

	if db != nil && opts.save {
		id, err := db.SaveRun(persistence.RunRecord{
			MapName:   mapLabel(sc),
			Seed:      seed,
			Result:    res,
			StartedAt: started,
		})
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		slog.Info("run saved", "id", id, "events", len(res.Events))
	}

	if opts.jsonOutput {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	a.printResult(m, res)
	return nil
}

func (a *app) printResult(m *world.Map, res engine.Result) {
	switch res.Outcome {
	case engine.OutcomeCaught:
		fmt.Fprintf(a.stdout, "%s caught the thief on the %s turn.\n", res.Catcher, humanize.Ordinal(int(res.Turns)))
	case engine.OutcomeEscaped:
		fmt.Fprintf(a.stdout, "The thief escaped on the %s turn.\n", humanize.Ordinal(int(res.Turns)))
	case engine.OutcomeTimeUp:
		fmt.Fprintf(a.stdout, "Time ran out after %s turns.\n", humanize.Comma(int64(res.Turns)))
	default:
		fmt.Fprintf(a.stdout, "Chase ended after %s turns.\n", humanize.Comma(int64(res.Turns)))
	}

	moves := 0
	for _, e := range res.Events {
		if e.Kind == engine.EventMove {
			moves++
		}
	}
	fmt.Fprintf(a.stdout, "%s events, %s road moves on %s.\n",
		humanize.Comma(int64(len(res.Events))), humanize.Comma(int64(moves)), m)
}

// mapLabel names the map a run was played on.
func mapLabel(sc *config.Scenario) string {
	switch {
	case sc.Map.Stored != "":
		return sc.Map.Stored
	case sc.Map.File != "":
		return filepath.Base(sc.Map.File)
	default:
		return "generated"
	}
}

// Command citychase plays thief-and-detectives chases on city road maps.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/talgya/citychase/internal/persistence"
)

func main() {
	if err := newApp().execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app holds the command tree and its output streams.
type app struct {
	root    *cobra.Command
	stdout  io.Writer
	stderr  io.Writer
	verbose bool
	dbPath  string
}

func newApp() *app {
	a := &app{stdout: os.Stdout, stderr: os.Stderr}

	a.root = &cobra.Command{
		Use:   "citychase",
		Short: "Thief and detectives on a map of cities",
		Long: `citychase moves agents around a map of cities joined by roads.

Each agent has a stamina budget and a strategy. Detectives who stop at an
informant's city learn where the thief is and take the route with the fewest
turns towards it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.setupLogging()
		},
	}
	a.root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log every turn")
	a.root.PersistentFlags().StringVar(&a.dbPath, "db", envOrDefault("CITYCHASE_DB", ""), "SQLite database for maps and run logs (env CITYCHASE_DB)")

	a.root.AddCommand(
		a.newRunCmd(),
		a.newGenCmd(),
		a.newShowCmd(),
		a.newPathCmd(),
		a.newHistoryCmd(),
	)
	return a
}

// withOutput redirects command output, for tests.
func (a *app) withOutput(stdout, stderr io.Writer) *app {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

func (a *app) execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return a.root.ExecuteContext(ctx)
}

func (a *app) executeWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.execute(ctx)
}

func (a *app) setupLogging() {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}

// openDB opens the database named by --db, or returns nil when none is set.
func (a *app) openDB() (*persistence.DB, error) {
	if a.dbPath == "" {
		return nil, nil
	}
	db, err := persistence.Open(a.dbPath)
	if err != nil {
		return nil, err
	}
	slog.Debug("database opened", "path", a.dbPath)
	return db, nil
}

func (a *app) requireDB() (*persistence.DB, error) {
	if a.dbPath == "" {
		return nil, fmt.Errorf("--db or CITYCHASE_DB is required")
	}
	return a.openDB()
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt64OrDefault(key string, defaultVal int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
		slog.Warn("ignoring malformed environment value", "key", key, "value", v)
	}
	return defaultVal
}

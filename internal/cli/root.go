// Package cli is the moodlog command line: record moods, browse and search
// the history, print stats, export, or start the local JSON API.
//
// Every subcommand goes through the same MoodService the HTTP API uses.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/sakif/moodlog/internal/config"
	"github.com/sakif/moodlog/internal/repository/sqlite"
	"github.com/sakif/moodlog/internal/service"
)

// app carries what PersistentPreRunE resolved to every subcommand.
type app struct {
	configPath string
	dbPath     string
	timezone   string
	logLevel   string

	cfg    config.Config
	logger *slog.Logger
	loc    *time.Location
	now    func() time.Time
}

// NewRootCmd builds the moodlog command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{now: time.Now})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "moodlog",
		Short: "moodlog, a private mood journal",
		Long: `moodlog records how you feel on a 1-10 scale, with an optional note,
and shows you history, averages, trends and a calendar heatmap.
Everything is stored in a local SQLite file.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML config file (default $"+config.EnvConfigFile+")")
	pf.StringVar(&a.dbPath, "db", "", "SQLite database path, overrides config")
	pf.StringVar(&a.timezone, "tz", "", "IANA time zone for calendar days, overrides config")
	pf.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error, overrides config")

	root.AddCommand(
		a.addCmd(),
		a.listCmd(),
		a.showCmd(),
		a.noteCmd(),
		a.rmCmd(),
		a.statsCmd(),
		a.heatmapCmd(),
		a.exportCmd(),
		a.serveCmd(),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context) int {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

// setup loads the config, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.Database.Path = a.dbPath
	}
	if a.timezone != "" {
		cfg.Timezone = a.timezone
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.loc = loc
	a.logger = cfg.NewLogger(cmd.ErrOrStderr())
	return nil
}

// openService opens the store and returns a service over it. The caller
// must call the returned close func.
func (a *app) openService() (*service.MoodService, func(), error) {
	db, err := sqlite.New(a.cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	svc := service.NewMoodService(db, a.logger,
		service.WithClock(a.now),
		service.WithLocation(a.loc),
	)
	return svc, func() { db.Close() }, nil
}

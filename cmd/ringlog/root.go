package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/sakif/ringlog/internal/config"
	"github.com/sakif/ringlog/internal/logging"
	"github.com/sakif/ringlog/internal/repository"
	"github.com/sakif/ringlog/internal/server"
)

// skipStore marks commands that run without a database.
const skipStore = "skip-store"

// app is the state shared by subcommands once the root pre-run has loaded
// configuration and opened the store. Commands that use the store close it
// themselves, since cobra skips post-run hooks when RunE fails.
type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	store  repository.Store
	logger *slog.Logger
	now    func() time.Time
}

func newRootCmd() *cobra.Command {
	a := &app{now: time.Now}

	root := &cobra.Command{
		Use:   "ringlog",
		Short: "Maintenance tasks for the ringlog API",
		Long: `ringlog manages the data behind the rings training API.

EXAMPLES:

  $ ringlog seed 12 --email me@example.com   # 12 weeks of fake history
  $ ringlog seed delete --email me@example.com
  $ ringlog program 2 --deload                # phase 2 deload sessions
  $ ringlog hash-password                     # reads the password from stdin

The database is configured exactly as for the server: an optional YAML
file (--config), then .env.local/.env, then the environment.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipStore] == "true" {
				return nil
			}
			return a.open(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", os.Getenv("CONFIG_FILE"), "path to a YAML config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug output")

	root.AddCommand(newSeedCmd(a), newProgramCmd(), newHashPasswordCmd())
	return root
}

func (a *app) open(ctx context.Context) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.ValidateStorage(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	a.logger = logging.Discard()
	if a.verbose {
		logger, _, err := logging.New(logging.Options{Level: "debug", Format: cfg.Log.Format})
		if err != nil {
			return err
		}
		a.logger = logger
	}

	if cfg.Database.Driver == config.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0o755); err != nil {
			return fmt.Errorf("creating database directory: %w", err)
		}
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	a.store, err = server.OpenStore(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("opening %s store: %w", cfg.Database.Driver, err)
	}
	return nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := a.store.Close(ctx)
	a.store = nil
	return err
}

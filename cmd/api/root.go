package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yigit/coursescope/internal/bootstrap"
	"github.com/yigit/coursescope/internal/config"
	"github.com/yigit/coursescope/internal/db"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "coursescope",
		Short:        "Course and professor search with grade lookups",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c",
		filepath.Join("configs", "config.yaml"), "path to the YAML config file")

	cmd.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newSeedCmd(opts),
		newReindexCmd(opts),
		newTokenCmd(opts),
	)
	return cmd
}

// load reads configuration and configures the global logger
func (o *rootOptions) load() (*config.Config, zerolog.Logger, error) {
	return bootstrap.LoadConfigAndSetupLogger(o.configPath)
}

// withDatabase runs fn with a migrated database connection, closing it afterwards
func (o *rootOptions) withDatabase(ctx context.Context, fn func(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error) error {
	cfg, lgr, err := o.load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := bootstrap.SetupDatabase(ctx, cfg, lgr)
	if err != nil {
		return fmt.Errorf("failed to setup database: %w", err)
	}
	defer database.Close()

	if err := bootstrap.RunMigrations(ctx, database, lgr); err != nil {
		return err
	}

	return fn(ctx, cfg, database, lgr)
}

package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yigit/coursescope/internal/app/repositories"
	"github.com/yigit/coursescope/internal/bootstrap"
	"github.com/yigit/coursescope/internal/config"
	"github.com/yigit/coursescope/internal/db"
	"github.com/yigit/coursescope/internal/pkg/searchindex"
	"github.com/yigit/coursescope/internal/seed"
	"github.com/yigit/coursescope/internal/server"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	cfg, lgr, err := opts.load()
	if err != nil {
		return err
	}

	srv, err := server.NewServer(ctx, cfg, lgr)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	if err := srv.Run(); err != nil {
		return err
	}

	lgr.Info().Msg("Application finished gracefully.")
	return nil
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withDatabase(cmd.Context(), func(context.Context, *config.Config, *db.PostgresDB, zerolog.Logger) error {
				return nil
			})
		},
	}
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo catalog, grades and users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withDatabase(cmd.Context(), func(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error {
				if err := seed.CreateDefaultData(ctx, database, lgr); err != nil {
					return err
				}

				deps, err := bootstrap.BuildDependencies(ctx, cfg, database, lgr)
				if err != nil {
					return err
				}
				defer deps.Close()

				return deps.RefreshDerivedData(ctx)
			})
		},
	}
}

func newReindexCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the Elasticsearch search index from the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withDatabase(cmd.Context(), func(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error {
				client, err := searchindex.NewElasticClient(cfg)
				if err != nil {
					return err
				}

				repos := repositories.NewRepositories(database.Pool)
				courses, err := repos.CourseRepository.GetAll(ctx)
				if err != nil {
					return err
				}
				professors, err := repos.ProfessorRepository.GetAll(ctx)
				if err != nil {
					return err
				}

				index := searchindex.NewElasticIndex(client, cfg.Elasticsearch.Index, lgr)
				indexed, err := index.Reindex(ctx, courses, professors)
				if err != nil {
					return err
				}

				cmd.Printf("Indexed %d documents into %s\n", indexed, cfg.Elasticsearch.Index)
				return nil
			})
		},
	}
}

func newTokenCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "token <user-id>",
		Short: "Issue an access token for a user (development only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user id %q: %w", args[0], err)
			}

			return opts.withDatabase(cmd.Context(), func(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error {
				if cfg.IsProduction() {
					return fmt.Errorf("token issuing is disabled in production mode")
				}

				user, err := repositories.NewUserRepository(database.Pool).GetUserByID(ctx, userID)
				if err != nil {
					return err
				}

				jwtService, err := bootstrap.NewJWTService(cfg)
				if err != nil {
					return err
				}
				token, err := jwtService.GenerateAccessToken(user.ID, user.Username)
				if err != nil {
					return err
				}

				cmd.Println(token)
				return nil
			})
		},
	}
}

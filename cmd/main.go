package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/golang-cz/devslog"
	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/yatube/internal/auth"
	"github.com/siahsang/yatube/internal/cache"
	"github.com/siahsang/yatube/internal/config"
	"github.com/siahsang/yatube/internal/core"
	"github.com/siahsang/yatube/internal/database"
	"github.com/siahsang/yatube/internal/media"
	"github.com/siahsang/yatube/internal/utils/databaseutils"
	"github.com/spf13/cobra"
)

type application struct {
	config *config.Config
	logger *slog.Logger
	core   *core.Core
	auth   *auth.Auth
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "yatube",
		Short:         "Yatube blogging service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd(), newMigrateCmd(), newGroupCmd(), newCacheCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), func(cfg *config.Config, logger *slog.Logger, db *sql.DB) error {
				pageCache, closeCache, err := openPageCache(cmd.Context(), cfg, logger)
				if err != nil {
					return err
				}
				defer closeCache()

				app := newApplication(cfg, logger, db, pageCache)
				return app.serve()
			})
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), func(_ *config.Config, logger *slog.Logger, db *sql.DB) error {
				return database.Migrate(cmd.Context(), db, logger)
			})
		},
	}
}

func newGroupCmd() *cobra.Command {
	groupCmd := &cobra.Command{
		Use:   "group",
		Short: "Manage groups",
	}

	var form core.GroupForm
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a group",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), func(cfg *config.Config, logger *slog.Logger, db *sql.DB) error {
				app := newApplication(cfg, logger, db, cache.NewMemoryCache())
				group, err := app.core.CreateGroup(cmd.Context(), &form)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created group %q (/group/%s/)\n", group.Title, group.Slug)
				return nil
			})
		},
	}
	createCmd.Flags().StringVar(&form.Title, "title", "", "group title")
	createCmd.Flags().StringVar(&form.Slug, "slug", "", "group slug (derived from the title when empty)")
	createCmd.Flags().StringVar(&form.Description, "description", "", "group description")
	_ = createCmd.MarkFlagRequired("title")

	groupCmd.AddCommand(createCmd)
	return groupCmd
}

func newCacheCmd() *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the page cache",
	}

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Drop every cached page",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), func(cfg *config.Config, logger *slog.Logger, db *sql.DB) error {
				pageCache, closeCache, err := openPageCache(cmd.Context(), cfg, logger)
				if err != nil {
					return err
				}
				defer closeCache()

				app := newApplication(cfg, logger, db, pageCache)
				if err := app.core.ClearPageCache(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "page cache cleared")
				return nil
			})
		},
	})
	return cacheCmd
}

// withDatabase loads the configuration, opens the pool and hands both to fn.
func withDatabase(ctx context.Context, fn func(cfg *config.Config, logger *slog.Logger, db *sql.DB) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	logger := configLogger(cfg)
	logger.Info("Starting application...", "env", cfg.Env, "db_driver", cfg.DBDriver)

	db, err := database.Open(ctx, cfg)
	if err != nil {
		logger.Error("Error opening database connection", "error", xerrors.Sprint(err))
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Error closing database connection", "error", err.Error())
		}
	}()
	logger.Info("Database connection established successfully")

	if err := fn(cfg, logger, db); err != nil {
		logger.Error("Command failed", "error", xerrors.Sprint(err))
		return err
	}
	return nil
}

func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB, pageCache cache.PageCache) *application {
	sqlTemplate := databaseutils.NewSQLTemplate(db, cfg.DBQueryTimeout)
	session := databaseutils.NewSession(db, logger)

	return &application{
		config: cfg,
		logger: logger,
		core:   core.NewCore(logger, sqlTemplate, session, pageCache, cfg.PageCacheTTL, media.NewStore(cfg.MediaRoot)),
		auth:   auth.New(cfg.JWTSecret, cfg.TokenTTL),
	}
}

// openPageCache connects to Redis when REDIS_URL is set and falls back to the in-process cache
// otherwise.
func openPageCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (cache.PageCache, func(), error) {
	if cfg.RedisURL == "" {
		logger.Info("REDIS_URL is empty, using in-memory page cache")
		return cache.NewMemoryCache(), func() {}, nil
	}

	client, err := cache.NewRedisClient(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}

	redisCache := cache.NewRedisCache(client)
	if err := redisCache.Ping(ctx); err != nil {
		_ = redisCache.Close()
		return nil, nil, err
	}
	logger.Info("Redis page cache connected")

	return redisCache, func() {
		if err := redisCache.Close(); err != nil {
			logger.Error("Error closing redis client", "error", err.Error())
		}
	}, nil
}

func configLogger(cfg *config.Config) *slog.Logger {
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	handler := devslog.NewHandler(
		os.Stdout, &devslog.Options{
			HandlerOptions: &slog.HandlerOptions{
				AddSource: true,
				Level:     slog.LevelDebug,
			},
			NewLineAfterLog: false,
		})

	return slog.New(handler)
}

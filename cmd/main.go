package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"boardspace-backend/internal/api"
	"boardspace-backend/internal/api/routes"
	v1 "boardspace-backend/internal/api/routes/v1"
	"boardspace-backend/internal/cache"
	"boardspace-backend/internal/config"
	"boardspace-backend/internal/libraries"
	"boardspace-backend/internal/repo"
	"boardspace-backend/internal/service"
)

var rootCmd = &cobra.Command{
	Use:   "boardspace",
	Short: "Boardspace dashboard backend",
	Long: `Boardspace serves boards and the items placed on them: todos, checklists,
folders, notes, bookmarks and events.`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE:  runMigrate,
}

var skipMigrate bool

func init() {
	serveCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "Do not migrate the schema on startup")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	config.SetupLogger(cfg)

	db, err := config.ConnectDB(cfg.DB)
	if err != nil {
		return err
	}
	defer config.CloseDB(db)

	return config.MigrateAllModels(db)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := config.SetupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := config.ConnectDB(cfg.DB)
	if err != nil {
		return err
	}
	defer config.CloseDB(db)

	// Run migrations
	if !skipMigrate {
		if err := config.MigrateAllModels(db); err != nil {
			return err
		}
	}

	itemCache, rdb, err := connectCache(ctx, cfg.Redis, log)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	thumbs, err := thumbnailStore(ctx, cfg.Storage, log)
	if err != nil {
		return err
	}

	store := repo.NewStore(db)
	deps := v1.Dependencies{
		Store:  store,
		Boards: service.NewBoardService(store, itemCache, thumbs, log),
		Items: service.NewItemService(store, itemCache, service.ItemServiceOptions{
			RejectFolderCycles: cfg.Items.RejectFolderCycles,
			Logger:             log,
		}),
		IdentityHeader: cfg.HTTP.IdentityHeader,
	}

	// Create and configure Fiber app
	app := api.NewServer(cfg.HTTP)
	routes.Register(app, deps)

	errCh := make(chan error, 1)
	go func() {
		errCh <- api.StartServer(app, cfg.HTTP.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}

// connectCache returns a nil cache when REDIS_URL is not set.
func connectCache(ctx context.Context, cfg config.RedisConfig, log *slog.Logger) (*cache.ItemCache, *redis.Client, error) {
	if cfg.URL == "" {
		log.Info("item cache disabled")
		return nil, nil, nil
	}
	rdb, err := cache.Connect(ctx, cfg.URL)
	if err != nil {
		return nil, nil, err
	}
	log.Info("item cache enabled", "ttl", cfg.TTL)
	return cache.NewItemCache(rdb, cfg.TTL), rdb, nil
}

func thumbnailStore(ctx context.Context, cfg config.StorageConfig, log *slog.Logger) (libraries.ThumbnailStore, error) {
	if cfg.Bucket == "" {
		log.Info("storing thumbnails on disk", "dir", cfg.ThumbnailDir)
		return libraries.LocalThumbnailStore{Dir: cfg.ThumbnailDir}, nil
	}
	client, err := libraries.NewGCSClient(ctx, cfg.Credentials)
	if err != nil {
		return nil, err
	}
	log.Info("storing thumbnails in bucket", "bucket", cfg.Bucket)
	return libraries.NewGCSThumbnailStore(client, cfg.Bucket), nil
}

// Command server runs the license scan HTTP service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/JonMunkholm/licscan/internal/config"
	"github.com/JonMunkholm/licscan/internal/core"
	"github.com/JonMunkholm/licscan/internal/database"
	"github.com/JonMunkholm/licscan/internal/logging"
	"github.com/JonMunkholm/licscan/internal/web"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	if err := run(cfg); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	store, err := database.NewStore(pool, cfg.Cache.LicenseCacheSize)
	if err != nil {
		return err
	}

	if cfg.Database.Migrate {
		if err := store.Migrate(ctx); err != nil {
			return err
		}
	}
	err = store.SeedConfig(ctx, map[string]string{
		core.ConfigStripPaths: strconv.FormatBool(cfg.Import.DefaultStripPaths),
	})
	if err != nil {
		return err
	}

	service := core.NewService(store, cfg.Import)
	server := web.NewServer(service, cfg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if status := service.LimiterStatus(); status.Active > 0 {
		slog.Info("waiting for imports to complete", "active", status.Active)
		if err := service.WaitForImports(shutdownCtx); err != nil {
			slog.Warn("imports did not complete in time", "error", err)
		}
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// connect opens and pings the PostgreSQL pool.
func connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	slog.Info("connected to database", "database", poolConfig.ConnConfig.Database)
	return pool, nil
}

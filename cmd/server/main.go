package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/JonMunkholm/likorise/internal/config"
	"github.com/JonMunkholm/likorise/internal/logging"
	"github.com/JonMunkholm/likorise/internal/sheets"
	"github.com/JonMunkholm/likorise/internal/site"
	"github.com/JonMunkholm/likorise/internal/store"
	"github.com/JonMunkholm/likorise/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"live", cfg.Sheets.Live(),
		"load_log", cfg.Database.URL != "",
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	slog.Debug("configuration", "config", cfg.String())

	// Sheets client; without a spreadsheet every section serves fallback content
	var fetcher site.Fetcher
	if cfg.Sheets.Live() {
		client, err := sheets.NewClient(sheets.Config{
			SpreadsheetID: cfg.Sheets.SpreadsheetID,
			BaseURL:       cfg.Sheets.BaseURL,
			Timeout:       cfg.Sheets.FetchTimeout,
			MaxBodyBytes:  cfg.Sheets.MaxBodyBytes,
		}, nil)
		if err != nil {
			slog.Error("failed to create sheets client", "error", err)
			os.Exit(1)
		}
		fetcher = client
		slog.Info("sheets configured",
			"instructors", cfg.Sheets.Instructors,
			"schedule", cfg.Sheets.Schedule,
			"members", cfg.Sheets.Members,
		)
	} else {
		slog.Warn("no spreadsheet configured, serving fallback content only")
	}

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()

	// Optional load log
	var loads store.Log = store.NopLog{}
	if cfg.Database.URL != "" {
		pool, err := connectDB(jobCtx, &cfg.Database)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		pgLog := store.NewPGLog(pool)
		if err := pgLog.EnsureSchema(jobCtx); err != nil {
			slog.Error("failed to prepare load log schema", "error", err)
			os.Exit(1)
		}
		loads = pgLog

		go store.StartRetention(jobCtx, pgLog, store.RetentionConfig{
			Retention: cfg.Database.LoadRetention,
			Interval:  cfg.Database.RetentionInterval,
		})
	}

	service, err := site.NewService(fetcher, site.SheetNames{
		Instructors: cfg.Sheets.Instructors,
		Schedule:    cfg.Sheets.Schedule,
		Members:     cfg.Sheets.Members,
	}, loads)
	if err != nil {
		slog.Error("failed to create site service", "error", err)
		os.Exit(1)
	}

	server := web.NewServer(service, loads, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		// Stop background jobs
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// connectDB opens and verifies the load log pool.
func connectDB(ctx context.Context, cfg *config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}

	// Apply pool configuration from config
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	// Log which database we connected to
	if u, err := url.Parse(cfg.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}
	return pool, nil
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/g66wcyhhgd-glitch/control-hub/internal/audit"
	"github.com/g66wcyhhgd-glitch/control-hub/internal/config"
	"github.com/g66wcyhhgd-glitch/control-hub/internal/directory"
	"github.com/g66wcyhhgd-glitch/control-hub/internal/events"
	"github.com/g66wcyhhgd-glitch/control-hub/internal/handlers"
	"github.com/g66wcyhhgd-glitch/control-hub/internal/logging"
	"github.com/g66wcyhhgd-glitch/control-hub/internal/ratelimit"
	"github.com/g66wcyhhgd-glitch/control-hub/internal/repository"
	"github.com/g66wcyhhgd-glitch/control-hub/internal/server"
	"github.com/g66wcyhhgd-glitch/control-hub/internal/service"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "path to config file")
	useMemory := flag.Bool("memory", false, "use in-memory storage (development only)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize structured logging
	logger := logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	).With(logging.Service("webhookd"))
	logging.SetDefault(logger)

	slog.Info("Starting webhook ingestion service",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Logging.Level),
		slog.String("log_format", cfg.Logging.Format),
	)
	if *configPath != "" {
		slog.Info("Loaded configuration", slog.String("config_path", *configPath))
	}

	// Initialize repository
	var repo repository.Repository
	if *useMemory {
		slog.Warn("Using in-memory repository (development only)")
		repo = repository.NewInMemoryRepository()
	} else {
		slog.Info("Connecting to PostgreSQL")

		pgRepo, err := repository.NewPostgresRepository(context.Background(), cfg.Database.URL)
		if err != nil {
			slog.Error("Failed to connect to PostgreSQL", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pgRepo.Close()
		repo = pgRepo
		slog.Info("Connected to PostgreSQL")

		// Run database migrations
		slog.Info("Running database migrations")
		m, err := migrate.New(
			"file://"+cfg.Database.MigrationsDir,
			cfg.Database.URL,
		)
		if err != nil {
			slog.Error("Failed to initialize migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}

		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			slog.Error("Failed to run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}

		version, dirty, err := m.Version()
		if err != nil {
			slog.Warn("Could not get migration version", slog.String("error", err.Error()))
		} else {
			slog.Info("Database migration complete",
				slog.Uint64("version", uint64(version)),
				slog.Bool("dirty", dirty),
			)
		}
	}

	// Optional Redis-backed directory cache and rate limiter
	dirOpts := []directory.Option{directory.WithLogger(logger.Logger)}
	var limiter ratelimit.RateLimiter = &ratelimit.NoOpRateLimiter{}
	if cfg.Redis.URL != "" {
		cache, err := directory.NewCache(cfg.Redis.URL, cfg.Redis.CacheTTL)
		if err != nil {
			slog.Error("Failed to connect to Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		dirOpts = append(dirOpts, directory.WithCache(cache))
		slog.Info("Directory cache enabled", slog.Duration("ttl", cfg.Redis.CacheTTL))

		if cfg.Ingestion.RateLimitEnabled {
			limiter, err = ratelimit.NewRedisRateLimiter(
				cfg.Redis.URL,
				cfg.Ingestion.RateLimitRequests,
				cfg.Ingestion.RateLimitWindow,
			)
			if err != nil {
				slog.Error("Failed to initialize rate limiter", slog.String("error", err.Error()))
				os.Exit(1)
			}
			defer limiter.Close()
			slog.Info("Rate limiting enabled",
				slog.Int("requests", cfg.Ingestion.RateLimitRequests),
				slog.Duration("window", cfg.Ingestion.RateLimitWindow),
			)
		}
	} else if cfg.Ingestion.RateLimitEnabled {
		slog.Warn("Rate limiting requested but Redis is not configured; disabled")
	}

	// Optional NATS publisher for accepted events
	var publisher events.Publisher = events.NoOpPublisher{}
	if cfg.NATS.URL != "" {
		natsPub, err := events.NewNATSPublisher(events.Config{
			URL:  cfg.NATS.URL,
			Name: "control-hub-webhookd",
		}, logger.Logger)
		if err != nil {
			slog.Error("Failed to connect to NATS", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer natsPub.Close()
		publisher = natsPub
		slog.Info("Event publishing enabled", slog.String("nats_url", cfg.NATS.URL))
	}

	// Audit sink, signed when a secret is configured
	var signer *audit.Signer
	if cfg.Audit.SigningSecret != "" {
		signer = audit.NewSigner(cfg.Audit.SigningSecret)
	} else {
		slog.Warn("Audit signing disabled: no signing secret configured")
	}
	sink := audit.NewSink(repo, signer, logger.Logger)

	// Wire the ingestion pipeline
	dir := directory.New(repo, dirOpts...)
	ingestService := service.NewIngestService(dir, repo, sink, publisher, logger.Logger)

	// Initialize HTTP handlers
	webhookHandler := handlers.NewWebhookHandler(ingestService, limiter, logger.Logger)
	healthHandler := handlers.NewHealthHandler(repo)
	router := server.NewRouter(webhookHandler, healthHandler)

	// Create server with config values
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		slog.Info("Webhook ingestion service listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("Server stopped gracefully")
}

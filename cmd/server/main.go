package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/data-analyzer-api/internal/api"
	"github.com/data-analyzer-api/internal/config"
	"github.com/data-analyzer-api/internal/database"
	"github.com/data-analyzer-api/internal/mirror"
	"github.com/data-analyzer-api/internal/repository"
	"github.com/data-analyzer-api/internal/service"
	"github.com/data-analyzer-api/internal/session"
	"github.com/data-analyzer-api/internal/workspace"
	"github.com/data-analyzer-api/pkg/logger"
)

func main() {
	// Initialize logger
	log := logger.New()
	log.Info().Msg("Starting Data Analyzer API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.EnsureDataDir(); err != nil {
		log.Fatal().Err(err).Msg("Failed to create data directory")
	}

	// Open the embedded database
	db, err := database.New(cfg.Storage.DatabasePath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	// Canonical schema, then introspection-driven repair of legacy shapes
	if err := db.RunMigrations(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}
	if err := db.Repair(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to repair database schema")
	}

	// Initialize repositories
	repos := repository.New(db)

	// Mirror sink for the best-effort CSV audit logs
	sink := mirror.NewCSVSink(mirror.Config{
		UsersExportLog: cfg.Storage.UsersExportLog,
		FeedbackLog:    cfg.Storage.FeedbackLog,
		ActivityLog:    cfg.Storage.ActivityLog,
	}, log)

	// Session-scoped dataset workspace
	ws := workspace.New()

	// Initialize services
	services := service.NewServices(repos, ws, sink, cfg, log)

	// One-time legacy feedback migration, best-effort
	if migrated, err := services.Feedback.ImportLegacy(context.Background(), cfg.Storage.LegacyUsersCSV); err != nil {
		log.Warn().Err(err).Msg("Legacy feedback migration failed")
	} else if migrated > 0 {
		log.Info().Int("migrated", migrated).Msg("Legacy feedback migrated")
	}

	// File-backed session marker
	sessions := session.NewManager(cfg.Storage.SessionFile, repos.User, log)

	// Initialize router
	router := api.NewRouter(services, sessions, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}

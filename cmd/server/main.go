package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ajaypar09/Projects/internal/api"
	"github.com/ajaypar09/Projects/internal/config"
	"github.com/ajaypar09/Projects/internal/database"
	"github.com/ajaypar09/Projects/internal/logging"
	"github.com/ajaypar09/Projects/internal/metrics"
	"github.com/ajaypar09/Projects/internal/services"
)

func main() {
	cfg, err := config.Load(os.Getenv("CARDPRICES_CONFIG"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Configure(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if cfg.ConfigFile != "" {
		log.Info().Str("file", cfg.ConfigFile).Msg("Loaded config file")
	}

	// Initialize database
	db, err := database.Open(database.Options{Path: cfg.DBPath, LogLevel: cfg.DBLogLevel})
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("Failed to initialize database")
	}
	store := database.NewStore(db)

	if count, err := store.CountCards(context.Background()); err == nil {
		metrics.CardDatabaseSize.Set(float64(count))
	}

	// Initialize services
	providers := services.NewProviders(cfg.ProviderSettings())
	for _, p := range providers {
		if !p.IsConfigured() {
			log.Warn().Str("provider", p.Name()).Msg("Price provider not configured, live prices from it are disabled")
		}
	}

	resolver := services.NewResolver(store, cfg.ResolverPoolLimit)
	router := api.SetupRouter(api.Services{
		Store:     store,
		Cards:     services.NewCardService(store, resolver),
		Refresh:   services.NewRefreshService(store, providers...),
		Estimator: services.NewEstimator(providers...),
	}, cfg.CORSAllowedOrigins)

	// Create HTTP server for graceful shutdown
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Str("db", cfg.DBPath).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	// Give outstanding requests a deadline to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("Server exited")
}

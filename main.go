package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"shortly-analytics/internal/bus"
	"shortly-analytics/internal/config"
	"shortly-analytics/internal/database"
	"shortly-analytics/internal/listener"
	"shortly-analytics/internal/logging"
	"shortly-analytics/internal/repository"
	"shortly-analytics/internal/server"
	"shortly-analytics/internal/service"
	"shortly-analytics/internal/upstream"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Run database migrations
	if err := database.RunMigrations(ctx, db); err != nil {
		logging.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Initialize repositories and upstream clients
	analyticsRepo := repository.NewAnalyticsRepository(db)
	shortener := upstream.NewShortenerClient(cfg.ShortenerURL, cfg.ShortenerTimeout)
	metadata := upstream.NewMetadataClient(cfg.MetadataURL, cfg.MetadataTimeout)

	// Initialize services
	eventService := service.NewEventService(analyticsRepo)
	creationService := service.NewCreationService(analyticsRepo, shortener, metadata)
	statsService := service.NewStatsService(analyticsRepo)

	// Subscribe to the click feed (optional - continue if the bus is unavailable)
	var listenerDone <-chan struct{}
	subscriber, err := bus.Connect(ctx, cfg.BusURL)
	if err != nil {
		logging.Warn().Err(err).Str("bus_url", cfg.BusURL).Msg("Failed to connect to message bus. Will use HTTP endpoint only")
	} else {
		defer subscriber.Close()
		listenerDone = listener.New(subscriber, eventService, cfg.BusTopic).Start(ctx)
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.NewRouter(cfg, server.Services{
		Events:   eventService,
		Creation: creationService,
		Stats:    statsService,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info().Str("port", cfg.Port).Msg("Analytics dashboard starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	}

	// The database and bus are closed by the deferred calls; let the listener finish first
	if listenerDone != nil {
		select {
		case <-listenerDone:
		case <-shutdownCtx.Done():
			logging.Warn().Msg("Click feed listener did not stop in time")
		}
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/planner-be/internal/api"
	"github.com/isdelr/planner-be/internal/auth"
	"github.com/isdelr/planner-be/internal/config"
	"github.com/isdelr/planner-be/internal/database"
	"github.com/isdelr/planner-be/internal/logger"
	"github.com/isdelr/planner-be/internal/monitoring"
	"github.com/isdelr/planner-be/internal/services"
	"github.com/isdelr/planner-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// statInterval is how often resource row counts are refreshed.
const statInterval = time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel, !cfg.IsProduction())

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	accountService, err := services.NewAccountService(db, cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize account service")
	}
	todoService := services.NewTodoService(db, hub)
	issuer := auth.NewIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL)

	// Set up and run the background stats updater
	statUpdater := monitoring.NewStatUpdater(db, statInterval)
	go statUpdater.Run()

	// Set up and run the todo rotation
	loc, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load rotation timezone")
	}
	scheduler, err := monitoring.NewScheduler(todoService, cfg.RotationSchedule, loc)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create rotation scheduler")
	}
	scheduler.Run()
	log.Info().Time("next_rotation", scheduler.Next()).Msg("Todo rotation scheduled")

	// Set up router
	router, err := api.NewRouter(api.RouterConfig{
		DB:     db,
		Hub:    hub,
		Issuer: issuer,
		Services: api.Services{
			Accounts:  accountService,
			Memos:     services.NewMemoService(db, hub),
			Tasks:     services.NewTaskService(db, hub),
			Documents: services.NewDocumentService(db, hub),
			Events:    services.NewEventService(db, hub),
			Todos:     todoService,
		},
		AllowedOrigins: cfg.AllowedOrigins,
		AuthRateLimit:  cfg.AuthRateLimit,
		TrustProxy:     cfg.TrustProxy,
		Log:            log.Logger,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build router")
	}

	// Set up server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	scheduler.Stop()   // Wait for a running rotation
	statUpdater.Stop() // Stop the monitoring service

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	hub.Stop()

	log.Info().Msg("Server exiting")
}

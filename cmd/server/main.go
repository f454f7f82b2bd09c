package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/learnhub/lms-backend/internal/auth"
	"github.com/learnhub/lms-backend/internal/calendar"
	"github.com/learnhub/lms-backend/internal/config"
	"github.com/learnhub/lms-backend/internal/database"
	"github.com/learnhub/lms-backend/internal/handler"
	"github.com/learnhub/lms-backend/internal/logger"
	"github.com/learnhub/lms-backend/internal/repository"
	"github.com/learnhub/lms-backend/internal/router"
	"github.com/learnhub/lms-backend/internal/service"
	"github.com/learnhub/lms-backend/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting LMS Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Class Catalog ─────────────────────────────────────────────────
	classRepo := repository.NewClassRepository(pool)
	classService := service.NewClassService(classRepo, log)

	// ─── Shared Calendar ───────────────────────────────────────────────
	// The server relays change notifications between browsing contexts;
	// the blob itself lives in Redis so every process sees one calendar.
	calendarStore := calendar.NewEventStore(calendar.NewRedisStore(rdb, log), log)

	// ─── Authorization ─────────────────────────────────────────────────
	// The header gate is the documented contract: the role is asserted,
	// not verified. Swap in auth.NewJWTAuthorizer(cfg.JWTSecret) for a
	// verifying deployment; nothing else changes.
	authorizer := auth.HeaderAuthorizer{}

	// ─── Initialize Handlers ───────────────────────────────────────────
	handlers := &router.Handlers{
		Class:      handler.NewClassHandler(classService),
		CalendarWS: handler.NewCalendarWSHandler(calendarStore, log, cfg.AllowedOrigins),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authorizer, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}

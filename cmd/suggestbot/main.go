// Command suggestbot runs the suggestion relay service: a webhook HTTP server
// that feeds inbound bot API updates through the moderation engine, plus the
// ops read-model API and Prometheus metrics.
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
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/suggestbot/go-suggest-backend/internal/archive"
	"github.com/suggestbot/go-suggest-backend/internal/chart"
	"github.com/suggestbot/go-suggest-backend/internal/config"
	"github.com/suggestbot/go-suggest-backend/internal/engine"
	httpapi "github.com/suggestbot/go-suggest-backend/internal/http"
	"github.com/suggestbot/go-suggest-backend/internal/observability"
	"github.com/suggestbot/go-suggest-backend/internal/repo"
	"github.com/suggestbot/go-suggest-backend/internal/sysutil"
	"github.com/suggestbot/go-suggest-backend/internal/transport"
)

// version is stamped by the build (-ldflags "-X main.version=...").
var version = "dev"

func main() {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	lg := log.With().Str("service", cfg.OTEL.ServiceName).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing (no-op unless enabled).
	otelShutdown, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to set up tracing")
	}
	defer func() {
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shCtx); err != nil {
			lg.Warn().Err(err).Msg("tracing shutdown failed")
		}
	}()

	// Durable archive store.
	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		lg.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open archive store")
	}
	if err := repo.AutoMigrate(db); err != nil {
		lg.Fatal().Err(err).Msg("failed to migrate archive store")
	}

	// Bot API client.
	sender := transport.NewBotClient(cfg.BotAPIURL, cfg.BotToken)

	initialMode, err := engine.ParseMode(cfg.DefaultMode)
	if err != nil {
		lg.Fatal().Str("mode", cfg.DefaultMode).Msg("invalid default mode")
	}

	eng := engine.New(
		cfg.AdminID,
		cfg.Cooldown,
		initialMode,
		sender,
		archive.NewLog(cfg.LogFile),
		db,
		&chart.PNGRenderer{Title: "Suggestions per day"},
		lg,
	)
	// Operator /shutdown triggers the same graceful path as SIGTERM.
	eng.Stop = stop

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, eng, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info().Str("addr", srv.Addr).Str("mode", initialMode.String()).Str("version", version).Msg("server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		lg.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal().Err(err).Msg("server failed")
		}
	}

	shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		lg.Error().Err(err).Msg("graceful shutdown failed")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	lg.Info().Msg("server stopped")
}

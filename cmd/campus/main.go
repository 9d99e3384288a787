package main

import (
	"context"
	"fmt"
	"io/fs"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/opencampus/campus/internal/auth"
	"github.com/opencampus/campus/internal/billing"
	"github.com/opencampus/campus/internal/config"
	"github.com/opencampus/campus/internal/dashboard"
	"github.com/opencampus/campus/internal/docqa"
	"github.com/opencampus/campus/internal/server"
	"github.com/opencampus/campus/internal/store/postgres"
	redisstore "github.com/opencampus/campus/internal/store/redis"
	"github.com/opencampus/campus/internal/usage"
	"github.com/opencampus/campus/web"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// Initialize structured logging from environment.
	logLevel := os.Getenv("CAMPUS_LOG_LEVEL")
	level, parseErr := zerolog.ParseLevel(logLevel)
	if parseErr != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logFormat := os.Getenv("CAMPUS_LOG_FORMAT")
	if logFormat == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	ctx := context.Background()

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.Database.MaxConns < 0 || cfg.Database.MaxConns > math.MaxInt32 {
		return fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
	}

	// Connect to PostgreSQL.
	store, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
	if err != nil {
		return err
	}
	defer store.Close()

	// Connect to Redis.
	pubsub, err := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return err
	}
	defer pubsub.Close()

	// Create auth service with Redis-backed token revocation.
	revocations := redisstore.NewRevocationStore(pubsub.Client())
	authSvc := auth.NewService(store.Users(), revocations, cfg.JWT.Secret, cfg.JWT.TokenTTL)

	// Google sign-in is optional; an empty client ID disables it.
	var oauth *auth.GoogleProvider
	if cfg.Google.ClientID != "" {
		oauth = auth.NewGoogleProvider(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURL)
		log.Info().Msg("google sign-in enabled")
	}

	// External collaborators.
	billingClient := billing.NewClient(cfg.Billing.BaseURL, cfg.Billing.Timeout)
	qaSvc := docqa.NewService(
		store.DocumentQA(),
		store.Materials(),
		docqa.NewHTTPAnswerer(cfg.DocQA.BaseURL, cfg.DocQA.Timeout),
	)

	// Dashboard aggregation and API usage metering.
	loader := dashboard.New(store.Usage(), billingClient, cfg.Usage.WindowDays)
	meter := usage.NewAggregator(store.Usage(), cfg.Usage.FlushInterval)
	meter.Start()
	defer meter.Stop()

	// Prepare embedded SvelteKit assets (strip "build/" prefix from fs paths).
	webAssets, err := fs.Sub(web.Assets, "build")
	if err != nil {
		return fmt.Errorf("web assets: %w", err)
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Create HTTP server with all routes wired.
	srv := server.New(cfg, server.Deps{
		Store:    store,
		PubSub:   pubsub,
		Auth:     authSvc,
		OAuth:    oauth,
		Loader:   loader,
		QA:       qaSvc,
		Usage:    meter,
		WebFiles: webAssets,
	})

	// Start server in background goroutine.
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
		}
	}()

	// Block until shutdown signal.
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}

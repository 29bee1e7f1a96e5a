package main

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	slacklib "github.com/slack-go/slack"

	"github.com/oakline/boardvault/internal/auth"
	"github.com/oakline/boardvault/internal/config"
	"github.com/oakline/boardvault/internal/notify"
	"github.com/oakline/boardvault/internal/seal"
	"github.com/oakline/boardvault/internal/server"
	"github.com/oakline/boardvault/internal/storage"
	"github.com/oakline/boardvault/internal/store/postgres"
	redisstore "github.com/oakline/boardvault/internal/store/redis"
	"github.com/oakline/boardvault/internal/tsa"
	"github.com/oakline/boardvault/internal/vault"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// Initialize structured logging from environment.
	logLevel := os.Getenv("BV_LOG_LEVEL")
	level, parseErr := zerolog.ParseLevel(logLevel)
	if parseErr != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logFormat := os.Getenv("BV_LOG_FORMAT")
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

	// Connect to Redis for the org change feed.
	pubsub, err := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return err
	}
	defer pubsub.Close()

	// Connect to object storage for document blobs.
	blobs, err := storage.New(ctx, cfg.Storage.Endpoint, cfg.Storage.AccessKey, cfg.Storage.SecretKey, cfg.Storage.Bucket, cfg.Storage.UseSSL)
	if err != nil {
		return err
	}

	// Create auth service.
	authSvc := auth.NewService(store.Users(), cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	// Assemble the seal engine with its optional collaborators.
	engineOpts := []seal.Option{
		seal.WithChangePublisher(pubsub),
	}

	if cfg.Vault.Key != "" {
		v, vaultErr := vault.New([]byte(cfg.Vault.Key))
		if vaultErr != nil {
			return fmt.Errorf("vault: %w", vaultErr)
		}
		engineOpts = append(engineOpts, seal.WithCipher(v))
	}

	if cfg.TSA.URL != "" {
		engineOpts = append(engineOpts, seal.WithTimestamper(tsa.New(cfg.TSA.URL, &http.Client{Timeout: cfg.TSA.Timeout})))
		log.Info().Str("url", cfg.TSA.URL).Msg("trust timestamping enabled")
	}

	registry := notify.NewRegistry()
	if cfg.Slack.BotToken != "" && cfg.Slack.ChannelID != "" {
		registry.Register("slack", notify.NewSlackChannel(slacklib.New(cfg.Slack.BotToken), cfg.Slack.ChannelID))
		log.Info().Msg("Slack notifications enabled")
	}
	engineOpts = append(engineOpts, seal.WithNotifier(notify.New(registry)))

	engine := seal.New(store, engineOpts...)

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Create HTTP server with all routes wired.
	srv := server.New(ctx, cfg, store, pubsub, authSvc, engine, blobs)

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

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/melodia/music-catalog-api/internal/api"
	"github.com/melodia/music-catalog-api/internal/infrastructure/config"
	mongodb "github.com/melodia/music-catalog-api/internal/infrastructure/db/mongo"
	redisdb "github.com/melodia/music-catalog-api/internal/infrastructure/db/redis"
	"github.com/melodia/music-catalog-api/internal/infrastructure/queue"
	"github.com/melodia/music-catalog-api/internal/infrastructure/storage"
	"github.com/melodia/music-catalog-api/internal/infrastructure/token"
	"github.com/melodia/music-catalog-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Bootstrap logger for the config phase only; zerolog takes over once
	// the log level is known.
	cfg := config.Load(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Token codec ---
	codec, err := token.Load(cfg.Token.PrivateKeyPath, cfg.Token.PublicKeyPath, cfg.Token.TTL)
	if err != nil {
		log.Fatal().Err(err).Msg("token keypair load failed")
	}

	// --- Asset storage ---
	assets, err := storage.New(ctx, storage.Config{
		Bucket:         cfg.S3.Bucket,
		Region:         cfg.S3.Region,
		AccessKeyID:    cfg.S3.AccessKeyID,
		SecretKey:      cfg.S3.SecretKey,
		Endpoint:       cfg.S3.Endpoint,
		BaseURL:        cfg.S3.BaseURL,
		ForcePathStyle: cfg.S3.ForcePathStyle,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("asset storage init failed")
	}

	// --- Asset cleanup workers ---
	cleanup := queue.NewCleanupDispatcher(0, assets, log)
	cleanup.Start(ctx)

	// --- HTTP server ---
	e := api.NewRouter(api.Deps{
		Mongo:    db,
		Redis:    rdb,
		Codec:    codec,
		Assets:   assets,
		Cleanup:  cleanup,
		TokenTTL: cfg.Token.TTL,
		Logger:   log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

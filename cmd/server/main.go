// Command server runs the matrimony API: profile browsing, credit-based
// unlocks, memberships, and shortlists over MongoDB and Redis.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/biyeshadi/matrimony-system/internal/api"
	"github.com/biyeshadi/matrimony-system/internal/core/service"
	"github.com/biyeshadi/matrimony-system/internal/infrastructure/config"
	mongodb "github.com/biyeshadi/matrimony-system/internal/infrastructure/db/mongo"
	redisdb "github.com/biyeshadi/matrimony-system/internal/infrastructure/db/redis"
	"github.com/biyeshadi/matrimony-system/internal/infrastructure/queue"
	"github.com/biyeshadi/matrimony-system/pkg/logger"
)

func main() {
	// Local development convenience; in deployment the environment is real.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(shutdownCtx)
	}()

	if err := mongodb.EnsureAllIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// View-stats pipeline: profile views fan out to sharded workers that
	// bump daily counters in Redis.
	viewCounter := redisdb.NewViewCounter(rdb)
	viewStats := service.NewViewStatsService(viewCounter, log)
	dispatcher := queue.NewDispatcher(cfg.ViewWorkers, viewStats, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(db, rdb, cfg, dispatcher, log)

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

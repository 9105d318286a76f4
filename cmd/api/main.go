package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/memberbase/membership-api/internal/api"
	"github.com/memberbase/membership-api/internal/infrastructure/config"
	mongostore "github.com/memberbase/membership-api/internal/infrastructure/db/mongo"
	redisstore "github.com/memberbase/membership-api/internal/infrastructure/db/redis"
	"github.com/memberbase/membership-api/internal/infrastructure/queue"
	"github.com/memberbase/membership-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title           Membership Platform API
// @version         1.0
// @description     Membership, shared resources, Q&A and events for the community.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.Production(),
	})

	client, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	userRepo := mongostore.NewUserRepository(db)
	postRepo := mongostore.NewPostRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user indexes failed")
	}
	if err := postRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("post indexes failed")
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	reconciler := queue.NewReconciler(0, postRepo, log)
	reconciler.Start(ctx)

	e := api.NewRouter(api.RouterConfig{
		DB:            db,
		Redis:         rdb,
		JWTSecret:     cfg.JWTSecret,
		SecureCookies: cfg.Production(),
		Reconciler:    reconciler,
		Logger:        log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("membership api listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/pyxolotl/marketplace-api/internal/api"
	"github.com/pyxolotl/marketplace-api/internal/api/handler"
	"github.com/pyxolotl/marketplace-api/internal/core/ports"
	"github.com/pyxolotl/marketplace-api/internal/core/service"
	"github.com/pyxolotl/marketplace-api/internal/infrastructure/config"
	"github.com/pyxolotl/marketplace-api/internal/infrastructure/db/mongo"
	"github.com/pyxolotl/marketplace-api/internal/infrastructure/db/redis"
	"github.com/pyxolotl/marketplace-api/internal/infrastructure/notify"
	"github.com/pyxolotl/marketplace-api/internal/infrastructure/payments"
	"github.com/pyxolotl/marketplace-api/internal/infrastructure/storage"
	"github.com/pyxolotl/marketplace-api/pkg/logger"
)

const (
	jwtTokenTTL     = 24 * time.Hour
	shutdownTimeout = 10 * time.Second
)

// @title Pyxolotl Marketplace API
// @version 1.0
// @description Indie game marketplace: accounts, catalog, checkout, library and reviews.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "marketplace-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Datastores ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongodb index creation failed")
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// --- Repositories ---
	users := mongo.NewAuthRepository(db)
	tokens := mongo.NewTokenRepository(db)
	games := mongo.NewGameRepository(db)
	commerce := mongo.NewCommerceRepository(db)
	reviews := mongo.NewReviewRepository(db)
	audit := mongo.NewAuditRepository(db)
	admin := mongo.NewAdminRepository(db)

	// --- Outbound infrastructure ---
	var mailer ports.Mailer
	if cfg.Mailer.ProviderURL == "" {
		mailer = notify.NewLogMailer(log)
	} else {
		mailer = notify.NewHTTPMailer(cfg.Mailer.ProviderURL, cfg.Mailer.APIKey, cfg.Mailer.From)
	}
	dispatcher := notify.NewDispatcher(cfg.Notify.Workers, cfg.Notify.QueueSize, mailer, cfg.BaseURL, log)
	dispatcher.Start(ctx)

	downloadLinks := redis.NewDownloadTokenStore(rdb)
	assets := storage.NewSigner(cfg.Assets.BaseURL, cfg.Assets.SigningSecret)
	gateway := payments.NewSimulator(log)

	// --- Services ---
	authService := service.NewAuthService(users, tokens, dispatcher, cfg.JWTSecret, jwtTokenTTL, log)
	gameService := service.NewGameService(games, reviews, users, audit, dispatcher, log)
	commerceService := service.NewCommerceService(commerce, games, users, gateway, downloadLinks, assets, cfg.Assets.LinkTTL, dispatcher, log)
	reviewService := service.NewReviewService(reviews, commerce, games, log)
	adminService := service.NewAdminService(admin, audit, log)

	health := handler.NewHealthHandler(db, rdb)

	e := api.NewRouter(api.Deps{
		Auth:      authService,
		Games:     gameService,
		Commerce:  commerceService,
		Reviews:   reviewService,
		Admin:     adminService,
		JWTSecret: cfg.JWTSecret,
		Log:       log,
		Liveness:  health.Liveness,
		Readiness: health.Readiness,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("marketplace api listening")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// @title           Artisan Marketplace API
// @version         1.0
// @description     Connects clients with local artisans: profiles, bookings and reviews.
// @BasePath        /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/fissaa/marketplace-api/docs"
	"github.com/fissaa/marketplace-api/internal/api"
	"github.com/fissaa/marketplace-api/internal/api/handler"
	"github.com/fissaa/marketplace-api/internal/core/service"
	"github.com/fissaa/marketplace-api/internal/infrastructure/config"
	mongostore "github.com/fissaa/marketplace-api/internal/infrastructure/db/mongo"
	"github.com/fissaa/marketplace-api/internal/infrastructure/db/postgres"
	redisstore "github.com/fissaa/marketplace-api/internal/infrastructure/db/redis"
	"github.com/fissaa/marketplace-api/internal/infrastructure/http/handlers"
	"github.com/fissaa/marketplace-api/internal/infrastructure/queue"
	"github.com/fissaa/marketplace-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log := logger.Init(logger.Options{Level: "error"})
		log.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "marketplace-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Stores ---
	pool, err := postgres.Connect(ctx, postgres.Config{
		URL:      cfg.Postgres.URL,
		MaxConns: cfg.Postgres.MaxConns,
		MinConns: cfg.Postgres.MinConns,
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		return err
	}

	mongoClient, mongoDB, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(dctx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	eventStore := mongostore.NewBookingEventRepository(mongoDB)
	if err := eventStore.EnsureIndexes(ctx); err != nil {
		return err
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	log.Info().Msg("postgres, mongodb and redis connected")

	// --- Audit trail ---
	audit := queue.NewAuditDispatcher(cfg.Audit.Workers, eventStore, log)
	audit.Start()

	// --- Services ---
	tokens := service.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	users := postgres.NewUserRepository(pool)
	artisans := postgres.NewArtisanRepository(pool)
	bookings := postgres.NewBookingRepository(pool)
	reviews := postgres.NewReviewRepository(pool)

	authService := service.NewAuthService(users, tokens, log)
	artisanService := service.NewArtisanService(artisans, log)
	bookingService := service.NewBookingService(bookings, artisans, audit, redisstore.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL), log)
	reviewService := service.NewReviewService(reviews, bookings, log)

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		Log:         log,
		Tokens:      tokens,
		FrontendURL: cfg.FrontendURL,
		Auth:        handler.NewAuthHandler(authService),
		Artisans:    handler.NewArtisanHandler(artisanService),
		Bookings:    handler.NewBookingHandler(bookingService),
		Reviews:     handler.NewReviewHandler(reviewService),
		Health: handlers.NewHealthHandler(map[string]handlers.Check{
			"postgres": handlers.PostgresCheck(pool),
			"mongodb":  handlers.MongoCheck(mongoDB),
			"redis":    handlers.RedisCheck(rdb),
		}),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down gracefully")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	// Requests are done; flush audit events still queued.
	if err := audit.Stop(sctx); err != nil {
		log.Error().Err(err).Msg("audit dispatcher did not drain")
	}

	log.Info().Msg("server stopped")
	return nil
}

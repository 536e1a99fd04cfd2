// @title           Storefront API
// @version         1.0
// @description     Catalog, cart, checkout and order history for the storefront.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	_ "github.com/threadline/storefront/docs"
	"github.com/threadline/storefront/internal/api"
	"github.com/threadline/storefront/internal/core/service"
	"github.com/threadline/storefront/internal/infrastructure/config"
	"github.com/threadline/storefront/internal/infrastructure/db/mongo"
	"github.com/threadline/storefront/internal/infrastructure/db/redis"
	"github.com/threadline/storefront/internal/infrastructure/http/handlers"
	"github.com/threadline/storefront/internal/infrastructure/queue"
	"github.com/threadline/storefront/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is not configured yet.
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Development(),
		Service: "storefront",
	})

	// Initialize MongoDB
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect mongodb")
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	users := mongo.NewUserRepository(db)
	products := mongo.NewProductRepository(db)
	orders := mongo.NewOrderRepository(db)
	if err := ensureIndexes(ctx, users, products, orders); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	// Initialize Redis; rate limiting falls back to process memory without it.
	checks := map[string]handlers.Check{"mongodb": handlers.MongoCheck(db)}
	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, using in-memory rate limits")
	} else {
		log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
		checks["redis"] = handlers.RedisCheck(rdb)
	}
	globalLimiter, authLimiter := limiterStores(cfg.RateLimit, rdb)

	// Start the order event workers
	dispatcher := queue.NewDispatcher(0, mongo.NewEventRepository(db), logger.Component("dispatcher"))
	dispatcher.Start(ctx)

	// Initialize services
	tokens, err := service.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise token service")
	}
	tx := mongo.NewTransactor(mongoClient, cfg.Mongo.Transactions)
	if !tx.Atomic() {
		log.Warn().Msg("mongo transactions disabled; checkout runs its steps without a transaction")
	}

	e := api.NewRouter(api.Dependencies{
		Auth:          service.NewAuthService(users, tokens, logger.Component("auth")),
		Catalog:       service.NewCatalogService(products, logger.Component("catalog")),
		Carts:         service.NewCartService(users, products, logger.Component("cart")),
		Checkout:      service.NewCheckoutService(users, orders, products, tx, dispatcher, logger.Component("checkout")),
		Orders:        service.NewOrderService(orders, users, products, dispatcher, logger.Component("orders")),
		Tokens:        tokens,
		GlobalLimiter: globalLimiter,
		AuthLimiter:   authLimiter,
		HealthChecks:  checks,
		FrontendURL:   cfg.FrontendURL,
		Development:   cfg.Development(),
		Logger:        logger.Component("http"),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
	log.Info().Msg("http server stopped")

	dispatcher.Close()
	log.Info().Msg("workers stopped")

	if rdb != nil {
		_ = rdb.Close()
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongodb disconnect")
	}
	log.Info().Msg("connections closed")
}

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

func ensureIndexes(ctx context.Context, repos ...indexer) error {
	for _, r := range repos {
		if err := r.EnsureIndexes(ctx); err != nil {
			return err
		}
	}
	return nil
}

// limiterStores returns the global and auth rate limit stores. Redis counters
// are shared by every replica; the memory fallback is per process.
func limiterStores(cfg config.RateLimitConfig, rdb *goredis.Client) (global, auth echomiddleware.RateLimiterStore) {
	if rdb != nil {
		return redis.NewRateLimitStore(rdb, "global", cfg.MaxRequests, cfg.Window),
			redis.NewRateLimitStore(rdb, "auth", cfg.AuthMax, cfg.Window)
	}
	return memoryStore(cfg.MaxRequests, cfg.Window), memoryStore(cfg.AuthMax, cfg.Window)
}

func memoryStore(limit int, window time.Duration) echomiddleware.RateLimiterStore {
	return echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(limit) / window.Seconds()),
		Burst:     limit,
		ExpiresIn: window,
	})
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/pointswallet/internal/adapter/http"
	"github.com/iho/pointswallet/internal/adapter/http/handler"
	"github.com/iho/pointswallet/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/pointswallet/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/pointswallet/internal/adapter/repository/redis"
	"github.com/iho/pointswallet/internal/infrastructure/auth"
	"github.com/iho/pointswallet/internal/infrastructure/config"
	"github.com/iho/pointswallet/internal/infrastructure/logger"
	"github.com/iho/pointswallet/internal/infrastructure/metrics"
	"github.com/iho/pointswallet/internal/infrastructure/postgres"
	"github.com/iho/pointswallet/internal/infrastructure/redis"
	"github.com/iho/pointswallet/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	log.Logger = appLogger

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Metrics
	appMetrics := metrics.New(prometheus.DefaultRegisterer)

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	walletRepo := postgresRepo.NewWalletRepository(pool)
	transactionRepo := postgresRepo.NewTransactionRepository(pool)
	retrier := postgresRepo.NewRetrier()
	idGen := postgresRepo.NewULIDGenerator()
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Initialize use cases
	userUC := usecase.NewUserUseCase(accountRepo, idGen)
	walletUC := usecase.NewWalletUseCase(txManager, walletRepo, transactionRepo, idGen, cache, retrier)
	transferUC := usecase.NewTransferUseCase(txManager, accountRepo, walletRepo, transactionRepo, idGen, cache, retrier)
	historyUC := usecase.NewHistoryUseCase(transactionRepo)

	// Sessions
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userUC, jwtManager, appMetrics)
	walletHandler := handler.NewWalletHandler(walletUC, appMetrics)
	transferHandler := handler.NewTransferHandler(transferUC, walletUC, appMetrics)
	transactionHandler := handler.NewTransactionHandler(historyUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Rate limiter
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, appMetrics.RateLimitHits)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:        authHandler,
		WalletHandler:      walletHandler,
		TransferHandler:    transferHandler,
		TransactionHandler: transactionHandler,
		HealthHandler:      healthHandler,
		JWTManager:         jwtManager,
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		Metrics:            appMetrics,
		MetricsGatherer:    prometheus.DefaultGatherer,
		RateLimiter:        rateLimiter,
		Logger:             &appLogger,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/walletd/internal/adapter/http"
	"github.com/iho/walletd/internal/adapter/http/handler"
	"github.com/iho/walletd/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/walletd/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/walletd/internal/adapter/repository/redis"
	"github.com/iho/walletd/internal/infrastructure/config"
	"github.com/iho/walletd/internal/infrastructure/logger"
	"github.com/iho/walletd/internal/infrastructure/metrics"
	"github.com/iho/walletd/internal/infrastructure/postgres"
	"github.com/iho/walletd/internal/infrastructure/redis"
	"github.com/iho/walletd/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log.Logger = logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	zerolog.DefaultContextLogger = &log.Logger

	ctx := context.Background()
	m := metrics.New()

	var (
		accounts  usecase.AccountStore
		txLog     usecase.TransactionLog
		txManager usecase.TransactionManager
		retrier   usecase.Retrier
	)

	var pool *pgxpool.Pool

	if cfg.MemoryBackend() {
		log.Info().Msg("using in-memory storage backend")

		store := memory.NewStore()
		accounts, txLog, txManager = store, store, store
	} else {
		pool, err = postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to postgres")
		}
		defer pool.Close()
		log.Info().Msg("connected to postgres")

		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}

		accounts = postgresRepo.NewAccountStore(pool)
		txLog = postgresRepo.NewTransactionLog(pool)
		txManager = postgresRepo.NewTxManager(pool)
		retrier = postgresRepo.NewRetrier(log.Logger)
	}

	var (
		idempotencyStore usecase.IdempotencyStore
		redisClient      *goredis.Client
	)

	if cfg.IdempotencyEnabled() {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")

		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
	}

	healthHandler := handler.NewHealthHandler(pool, redisClient)

	idGen := postgresRepo.NewULIDGenerator()

	accountUC := usecase.NewAccountUseCase(accounts, idGen)
	transferUC := usecase.NewTransferUseCase(txManager, accounts, txLog, idGen, retrier)
	historyUC := usecase.NewHistoryUseCase(accounts, txLog)
	ledgerUC := usecase.NewLedgerUseCase(accounts, txLog)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:   handler.NewAccountHandler(accountUC, m),
		TransferHandler:  handler.NewTransferHandler(transferUC, historyUC, m),
		HistoryHandler:   handler.NewHistoryHandler(historyUC),
		LedgerHandler:    handler.NewLedgerHandler(ledgerUC, m),
		HealthHandler:    healthHandler,
		Logger:           log.Logger,
		Metrics:          m,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/exchangeledger/internal/adapter/http"
	"github.com/iho/exchangeledger/internal/adapter/http/handler"
	"github.com/iho/exchangeledger/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/exchangeledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/exchangeledger/internal/adapter/repository/redis"
	"github.com/iho/exchangeledger/internal/infrastructure/config"
	"github.com/iho/exchangeledger/internal/infrastructure/eventpublisher"
	"github.com/iho/exchangeledger/internal/infrastructure/logger"
	"github.com/iho/exchangeledger/internal/infrastructure/metrics"
	"github.com/iho/exchangeledger/internal/infrastructure/postgres"
	"github.com/iho/exchangeledger/internal/infrastructure/redis"
	"github.com/iho/exchangeledger/internal/usecase"
)

const limiterIdle = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("server exited")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New()

	st := stores{
		txManager:    postgresRepo.NewTxManager(pool),
		snapshots:    postgresRepo.NewTxManager(pool).WithIsolation(pgx.RepeatableRead).ReadOnly(),
		transactions: postgresRepo.NewTransactionRepository(pool),
		earnings:     postgresRepo.NewEarningRepository(pool),
		outbox:       postgresRepo.NewOutboxRepository(pool),
		currencies:   postgresRepo.NewCurrencyRepository(pool),
		customers:    postgresRepo.NewCustomerRepository(pool),
		idGen:        postgresRepo.NewULIDGenerator(),
		cache:        redisRepo.NewCache(redisClient),
		retrier: postgresRepo.NewRetrier().
			WithMaxRetries(int(cfg.RetryAttempts)).
			WithLogger(log).
			OnRetry(func(code string) { m.StoreRetries.WithLabelValues(code).Inc() }),
	}
	st.balances = postgresRepo.NewBalanceRepository(pool, st.idGen)

	svc := newServices(cfg, st, m, log)

	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: st.outbox,
		Publisher:  newPublisher(cfg, redisClient, log),
		Logger:     log,
		Metrics:    m,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
		Retention:  cfg.OutboxRetention,
	})
	go func() {
		if err := publisher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	limiter := newRateLimiter(cfg, m)
	if limiter != nil {
		go sweepLimiters(ctx, limiter, limiterIdle, log)
	}

	health := handler.NewHealthHandler(pool, handler.PingFunc(func(ctx context.Context) error {
		return redis.Ping(ctx, redisClient)
	}))

	routerCfg := newRouterConfig(svc, health, log)
	routerCfg.IdempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
	routerCfg.IdempotencyTTL = cfg.IdempotencyTTL
	routerCfg.RateLimiter = limiter
	routerCfg.Metrics = m
	routerCfg.MetricsHandler = promhttp.Handler()

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      httpAdapter.NewRouter(routerCfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return serve(ctx, server, cfg.HTTPShutdownTimeout, log)
}

// serve runs server until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, server *http.Server, shutdownTimeout time.Duration, log zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

type stores struct {
	txManager    usecase.TransactionManager
	snapshots    usecase.TransactionManager
	transactions usecase.TransactionRepository
	balances     usecase.BalanceRepository
	earnings     usecase.EarningRepository
	outbox       usecase.OutboxRepository
	currencies   usecase.CurrencyRepository
	customers    usecase.CustomerRepository
	idGen        usecase.IDGenerator
	retrier      usecase.Retrier
	cache        usecase.Cache
}

type services struct {
	transactions   *usecase.TransactionUseCase
	adjustments    *usecase.AdjustmentUseCase
	balances       *usecase.BalanceUseCase
	earnings       *usecase.EarningUseCase
	reconciliation *usecase.ReconciliationUseCase
	currencies     *usecase.CurrencyUseCase
	customers      *usecase.CustomerUseCase
}

func newServices(cfg *config.Config, st stores, m *metrics.Metrics, log zerolog.Logger) services {
	transactions := usecase.NewTransactionUseCase(st.txManager, st.transactions, st.balances, st.earnings, st.outbox, st.idGen).
		WithMetrics(m).
		WithLogger(log).
		WithPolicy(cfg.BalancePolicy())
	adjustments := usecase.NewAdjustmentUseCase(st.txManager, st.transactions, st.balances, st.outbox, st.idGen).
		WithMetrics(m).
		WithLogger(log)
	if st.retrier != nil {
		transactions.WithRetrier(st.retrier)
		adjustments.WithRetrier(st.retrier)
	}

	earnings := usecase.NewEarningUseCase(st.txManager, st.earnings, st.outbox, st.idGen).WithLogger(log)
	if st.cache != nil {
		earnings.WithCache(st.cache, cfg.ReportCacheTTL)
	}

	return services{
		transactions:   transactions,
		adjustments:    adjustments,
		balances:       usecase.NewBalanceUseCase(st.txManager, st.balances).WithLogger(log),
		earnings:       earnings,
		reconciliation: usecase.NewReconciliationUseCase(st.snapshots, st.transactions, st.balances),
		currencies:     usecase.NewCurrencyUseCase(st.currencies, st.idGen),
		customers:      usecase.NewCustomerUseCase(st.customers, st.idGen),
	}
}

func newRouterConfig(svc services, health *handler.HealthHandler, log zerolog.Logger) httpAdapter.RouterConfig {
	return httpAdapter.RouterConfig{
		TransactionHandler: handler.NewTransactionHandler(svc.transactions),
		BalanceHandler:     handler.NewBalanceHandler(svc.balances, svc.adjustments),
		EarningHandler:     handler.NewEarningHandler(svc.earnings),
		RegistryHandler:    handler.NewRegistryHandler(svc.currencies, svc.customers),
		LedgerHandler:      handler.NewLedgerHandler(svc.reconciliation),
		HealthHandler:      health,
		Logger:             log,
	}
}

// newPublisher picks the outbox sink configured by EVENTS_PUBLISHER.
func newPublisher(cfg *config.Config, client *goredis.Client, log zerolog.Logger) eventpublisher.Publisher {
	if cfg.EventsPublisher == config.PublisherRedis && client != nil {
		return redisRepo.NewStreamPublisher(client, cfg.EventsStream, cfg.EventsStreamMax)
	}
	return eventpublisher.NewLogPublisher(log)
}

func newRateLimiter(cfg *config.Config, m *metrics.Metrics) *middleware.RateLimiter {
	if cfg.RateLimitRPS <= 0 {
		return nil
	}
	return middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).WithMetrics(m)
}

func sweepLimiters(ctx context.Context, rl *middleware.RateLimiter, idle time.Duration, log zerolog.Logger) {
	ticker := time.NewTicker(idle)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rl.CleanupLimiters(idle); n > 0 {
				log.Debug().Int("removed", n).Msg("rate limiters cleaned up")
			}
		}
	}
}

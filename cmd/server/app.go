package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/paytransfer/internal/adapter/http"
	"github.com/iho/paytransfer/internal/adapter/http/handler"
	"github.com/iho/paytransfer/internal/adapter/http/middleware"
	memoryRepo "github.com/iho/paytransfer/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/paytransfer/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/paytransfer/internal/adapter/repository/redis"
	"github.com/iho/paytransfer/internal/infrastructure/config"
	"github.com/iho/paytransfer/internal/infrastructure/eventpublisher"
	"github.com/iho/paytransfer/internal/infrastructure/metrics"
	"github.com/iho/paytransfer/internal/infrastructure/postgres"
	"github.com/iho/paytransfer/internal/infrastructure/redis"
	"github.com/iho/paytransfer/internal/usecase"
)

const rateLimitCleanupInterval = 10 * time.Minute

// app is the fully wired service.
type app struct {
	handler    http.Handler
	background []func(ctx context.Context)
	closers    []func()
}

// stores groups the storage ports chosen by STORE_BACKEND.
type stores struct {
	txManager usecase.TransactionManager
	accounts  usecase.AccountStore
	log       usecase.TransactionLog
	retrier   usecase.Retrier
	checks    []handler.HealthCheck
}

func newMemoryStores() stores {
	locker := memoryRepo.NewKeyLocker()

	return stores{
		txManager: memoryRepo.NewTxManager(locker),
		accounts:  memoryRepo.NewAccountStore(locker),
		log:       memoryRepo.NewTransactionLog(locker),
	}
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// newApp wires configuration into storage, use cases and the HTTP router.
func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger, reg *prometheus.Registry) (*app, error) {
	a := &app{}

	m := metrics.NewWithRegisterer(reg)

	var st stores
	if cfg.UsePostgres() {
		if cfg.RunMigrations {
			if err := postgres.RunMigrations(cfg.DatabaseURL, logger); err != nil {
				return nil, fmt.Errorf("migrations: %w", err)
			}
		}

		pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
			DatabaseURL:    cfg.DatabaseURL,
			MaxConns:       cfg.DatabaseMaxConns,
			MinConns:       cfg.DatabaseMinConns,
			ConnectTimeout: cfg.DatabaseTimeout,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)
		logger.Info().Msg("connected to postgres")

		st = stores{
			txManager: postgresRepo.NewTxManager(pool, cfg.DatabaseLockTimeout),
			accounts:  postgresRepo.NewAccountRepository(pool),
			log:       postgresRepo.NewTransferRepository(pool),
			retrier:   postgresRepo.NewRetrier(logger),
			checks: []handler.HealthCheck{
				{Name: "postgres", Check: pool.Ping},
			},
		}
	} else {
		st = newMemoryStores()
	}

	var redisClient *goredis.Client
	if cfg.RedisEnabled {
		client, err := redis.NewClient(ctx, redis.Config{URL: cfg.RedisURL, PoolSize: cfg.RedisPoolSize})
		if err != nil {
			a.close()
			return nil, err
		}
		redisClient = client
		a.closers = append(a.closers, func() { client.Close() })
		st.checks = append(st.checks, handler.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return client.Ping(ctx).Err() },
		})
		logger.Info().Msg("connected to redis")
	}

	events, closeEvents := newEventPublisher(cfg, logger, m)
	a.closers = append(a.closers, closeEvents)
	a.background = append(a.background, func(ctx context.Context) { events.Start(ctx) })

	observer := usecase.MultiObserver{m, events}

	opts := []usecase.TransferOption{
		usecase.WithObserver(observer),
		usecase.WithLogger(logger),
		usecase.WithLockWaitTimeout(cfg.LockWaitTimeout),
	}
	if st.retrier != nil {
		opts = append(opts, usecase.WithRetrier(st.retrier))
	}
	if redisClient != nil {
		opts = append(opts, usecase.WithTransferCache(redisRepo.NewTransferCache(redisClient, cfg.TransferCacheTTL)))
	}

	accountUC := usecase.NewAccountUseCase(st.accounts, observer, logger)
	transferUC := usecase.NewTransferUseCase(st.txManager, st.accounts, st.log, opts...)

	routerCfg := httpAdapter.RouterConfig{
		AccountHandler:  handler.NewAccountHandler(accountUC, logger),
		TransferHandler: handler.NewTransferHandler(transferUC, logger),
		HealthHandler:   handler.NewHealthHandler(st.checks...),
		MetricsHandler:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		Metrics:         m,
		Logger:          logger,
	}

	if redisClient != nil {
		routerCfg.IdempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		routerCfg.IdempotencyTTL = cfg.IdempotencyTTL
	}

	if cfg.RateLimitRPS > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).WithMetrics(m)
		routerCfg.RateLimiter = limiter
		a.background = append(a.background, func(ctx context.Context) {
			limiter.StartCleanup(ctx, rateLimitCleanupInterval)
		})
	}

	a.handler = httpAdapter.NewRouter(routerCfg)

	return a, nil
}

// newEventPublisher publishes to Kafka when brokers are configured and to the
// log otherwise. The returned func closes the underlying publisher.
func newEventPublisher(cfg *config.Config, logger zerolog.Logger, m *metrics.Metrics) (*eventpublisher.EventPublisher, func()) {
	var publisher eventpublisher.Publisher = eventpublisher.NewLogPublisher(logger)
	closeFn := func() {}

	if len(cfg.KafkaBrokers) > 0 {
		kafka := eventpublisher.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		publisher = kafka
		closeFn = func() {
			if err := kafka.Close(); err != nil {
				logger.Error().Err(err).Msg("failed to close kafka publisher")
			}
		}
	}

	return eventpublisher.NewEventPublisher(eventpublisher.Config{
		Publisher:  publisher,
		Logger:     logger,
		Metrics:    m,
		BufferSize: cfg.EventBufferSize,
	}), closeFn
}

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

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/gotransfer/internal/adapter/http"
	"github.com/iho/gotransfer/internal/adapter/http/handler"
	"github.com/iho/gotransfer/internal/adapter/http/middleware"
	"github.com/iho/gotransfer/internal/adapter/idgen"
	"github.com/iho/gotransfer/internal/adapter/notifier"
	"github.com/iho/gotransfer/internal/adapter/repository/memory"
	redisRepo "github.com/iho/gotransfer/internal/adapter/repository/redis"
	"github.com/iho/gotransfer/internal/infrastructure/config"
	"github.com/iho/gotransfer/internal/infrastructure/logger"
	"github.com/iho/gotransfer/internal/infrastructure/messaging"
	"github.com/iho/gotransfer/internal/infrastructure/metrics"
	"github.com/iho/gotransfer/internal/infrastructure/redis"
	"github.com/iho/gotransfer/internal/infrastructure/tracing"
	"github.com/iho/gotransfer/internal/usecase"
)

const (
	redisConnectRetries = 5
	limiterIdleTimeout  = time.Hour
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: cfg.ServiceName,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// Tracing
	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.OTLPEndpoint,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("failed to flush traces")
		}
	}()

	// Connect to Redis when configured
	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL, redisConnectRetries)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")
	}

	// Connect to NATS when it carries notifications
	var natsConn *nats.Conn
	if cfg.Notifier == config.NotifierNATS {
		natsConn, err = messaging.Connect(cfg.NATSURL, cfg.ServiceName, log)
		if err != nil {
			return err
		}
		defer messaging.Close(natsConn)
		log.Info().Str("url", cfg.NATSURL).Msg("connected to nats")
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.New(registry)

	accountNotifier, err := newNotifier(cfg, redisClient, natsConn, log)
	if err != nil {
		return err
	}

	// Initialize repositories
	accountRepo := memory.NewAccountRepository()
	idGen := idgen.NewULIDGenerator()

	// Initialize use cases
	transferUC := usecase.NewTransferUseCase(accountRepo, accountNotifier, idGen, appMetrics, log)
	accountUC := usecase.NewAccountUseCase(accountRepo, transferUC.Locker(), appMetrics, log)
	ledgerUC := usecase.NewLedgerUseCase(transferUC)

	// Initialize handlers
	routerCfg := httpAdapter.RouterConfig{
		AccountHandler:  handler.NewAccountHandler(accountUC),
		TransferHandler: handler.NewTransferHandler(transferUC),
		LedgerHandler:   handler.NewLedgerHandler(ledgerUC),
		HealthHandler:   handler.NewHealthHandler(nil),
		Logger:          log,
		Metrics:         appMetrics,
		MetricsHandler:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		IdempotencyTTL:  cfg.IdempotencyTTL,
	}

	if redisClient != nil {
		routerCfg.HealthHandler = handler.NewHealthHandler(redisClient)
		routerCfg.IdempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
	}

	if cfg.RateLimitRPS > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, appMetrics)
		routerCfg.RateLimiter = limiter
		go cleanupLimiters(ctx, limiter)
	}

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      httpAdapter.NewRouter(routerCfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.HTTPPort).
			Str("notifier", cfg.Notifier).
			Bool("redis", redisClient != nil).
			Msg("starting server")
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

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

// newNotifier builds the notifier chain selected by cfg.Notifier. Every
// notification is logged; redis and nats additionally publish with retries.
func newNotifier(cfg *config.Config, redisClient *goredis.Client, natsConn *nats.Conn, log zerolog.Logger) (usecase.Notifier, error) {
	logNotifier := notifier.NewLogNotifier(log)

	var external usecase.Notifier
	switch cfg.Notifier {
	case config.NotifierLog, "":
		return logNotifier, nil
	case config.NotifierRedis:
		if redisClient == nil {
			return nil, errors.New("NOTIFIER=redis requires REDIS_URL")
		}
		external = notifier.NewRedisNotifier(redisClient, cfg.NotifyChannel)
	case config.NotifierNATS:
		if natsConn == nil {
			return nil, errors.New("NOTIFIER=nats requires a nats connection")
		}
		external = notifier.NewNATSNotifier(natsConn, cfg.NotifyChannel)
	default:
		return nil, fmt.Errorf("unknown notifier %q", cfg.Notifier)
	}

	retryCfg := notifier.DefaultRetryConfig()
	retryCfg.MaxRetries = cfg.NotifyMaxRetries
	if cfg.NotifyRetryWindow > 0 {
		retryCfg.MaxElapsedTime = cfg.NotifyRetryWindow
	}

	return notifier.NewMultiNotifier(
		logNotifier,
		notifier.NewRetryingNotifier(external, retryCfg, log),
	), nil
}

func cleanupLimiters(ctx context.Context, limiter *middleware.RateLimiter) {
	ticker := time.NewTicker(limiterIdleTimeout)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.CleanupLimiters(limiterIdleTimeout)
		}
	}
}

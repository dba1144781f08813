package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Notifier kinds accepted by NOTIFIER.
const (
	NotifierLog   = "log"
	NotifierRedis = "redis"
	NotifierNATS  = "nats"
)

// Config holds all application configuration.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"gotransfer"`

	// Redis (optional - leave empty to disable)
	RedisURL string `env:"REDIS_URL" envDefault:""`

	// HTTP Server
	HTTPPort            string        `env:"HTTP_PORT"             envDefault:"8080"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"30s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"`
	HTTPIdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"     envDefault:"60s"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Notifications. An empty NOTIFY_CHANNEL uses the notifier's own default
	// channel or subject.
	Notifier          string        `env:"NOTIFIER"            envDefault:"log"`
	NotifyChannel     string        `env:"NOTIFY_CHANNEL"      envDefault:""`
	NATSURL           string        `env:"NATS_URL"            envDefault:"nats://localhost:4222"`
	NotifyMaxRetries  uint64        `env:"NOTIFY_MAX_RETRIES"  envDefault:"3"`
	NotifyRetryWindow time.Duration `env:"NOTIFY_RETRY_WINDOW" envDefault:"250ms"`

	// Idempotency
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`

	// Rate limiting (0 disables)
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"0"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"20"`

	// Tracing (optional - leave empty to disable export)
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

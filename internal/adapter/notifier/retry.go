package notifier

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/iho/gotransfer/internal/domain"
	"github.com/iho/gotransfer/internal/usecase"
)

// RetryConfig bounds how hard RetryingNotifier tries.
type RetryConfig struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// MaxRetryWindow caps RetryConfig.MaxElapsedTime. Notifications are sent
// while the transfer lock is held, so every retry delays all other transfers.
const MaxRetryWindow = 500 * time.Millisecond

// DefaultRetryConfig returns the settings used by the server.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      3,
		InitialInterval: 25 * time.Millisecond,
		MaxInterval:     100 * time.Millisecond,
		MaxElapsedTime:  250 * time.Millisecond,
	}
}

// RetryingNotifier retries a failed delivery with exponential backoff.
type RetryingNotifier struct {
	next   usecase.Notifier
	cfg    RetryConfig
	logger zerolog.Logger
}

// NewRetryingNotifier wraps next. A MaxElapsedTime that is unset or above
// MaxRetryWindow is clamped to MaxRetryWindow.
func NewRetryingNotifier(next usecase.Notifier, cfg RetryConfig, logger zerolog.Logger) *RetryingNotifier {
	if cfg.MaxElapsedTime <= 0 || cfg.MaxElapsedTime > MaxRetryWindow {
		cfg.MaxElapsedTime = MaxRetryWindow
	}
	if cfg.MaxInterval > cfg.MaxElapsedTime {
		cfg.MaxInterval = cfg.MaxElapsedTime
	}
	return &RetryingNotifier{
		next:   next,
		cfg:    cfg,
		logger: logger,
	}
}

// Notify delivers through the wrapped notifier, retrying on error. The last
// error is returned once the retry budget is spent or ctx is done.
func (n *RetryingNotifier) Notify(ctx context.Context, account *domain.Account, message string) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = n.cfg.InitialInterval
	b.MaxInterval = n.cfg.MaxInterval
	b.MaxElapsedTime = n.cfg.MaxElapsedTime

	attempt := 0

	return backoff.Retry(func() error {
		attempt++
		err := n.next.Notify(ctx, account, message)
		if err == nil {
			return nil
		}

		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}

		n.logger.Warn().
			Err(err).
			Str("account_id", account.ID).
			Int("attempt", attempt).
			Msg("notification failed, retrying")

		return err
	}, backoff.WithContext(backoff.WithMaxRetries(b, n.cfg.MaxRetries), ctx))
}

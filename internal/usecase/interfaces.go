package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gotransfer/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	Update(ctx context.Context, account *domain.Account) error
	List(ctx context.Context) ([]*domain.Account, error)
	Clear(ctx context.Context) error
}

// Notifier informs an account holder about a transfer.
type Notifier interface {
	Notify(ctx context.Context, account *domain.Account, message string) error
}

// AccountSnapshotter returns a consistent view of all accounts.
type AccountSnapshotter interface {
	Snapshot(ctx context.Context) ([]*domain.Account, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Metrics records business metrics for accounts and transfers.
type Metrics interface {
	AccountCreated()
	TransferSucceeded(amount decimal.Decimal, duration time.Duration)
	TransferFailed(reason string)
	NotificationFailed()
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request did not succeed so it can be retried.
	Release(ctx context.Context, key string) error
}

// NopMetrics discards all measurements.
type NopMetrics struct{}

func (NopMetrics) AccountCreated() {}

func (NopMetrics) TransferSucceeded(decimal.Decimal, time.Duration) {}

func (NopMetrics) TransferFailed(string) {}

func (NopMetrics) NotificationFailed() {}

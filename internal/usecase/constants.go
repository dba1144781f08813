package usecase

import "time"

const (
	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// IdempotencyPending is stored under a key while its first request runs.
	IdempotencyPending = "processing"

	// TracerName identifies spans emitted by the use cases.
	TracerName = "github.com/iho/gotransfer/internal/usecase"
)

// Transfer failure reasons reported to Metrics.
const (
	FailureAccountNotFound   = "account_not_found"
	FailureInvalidAmount     = "invalid_amount"
	FailureInsufficientFunds = "insufficient_funds"
	FailureInternal          = "internal"
)

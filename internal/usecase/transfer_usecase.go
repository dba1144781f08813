package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/iho/gotransfer/internal/domain"
)

// TransferUseCase moves money between accounts.
//
// Every transfer runs under a single engine-wide lock, from the first read
// until both notifications have been handed to the notifier. All transfers are
// therefore serialized.
type TransferUseCase struct {
	mu sync.Mutex

	accountRepo AccountRepository
	notifier    Notifier
	idGen       IDGenerator
	metrics     Metrics
	logger      zerolog.Logger
	tracer      trace.Tracer
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	accountRepo AccountRepository,
	notifier Notifier,
	idGen IDGenerator,
	metrics Metrics,
	logger zerolog.Logger,
) *TransferUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &TransferUseCase{
		accountRepo: accountRepo,
		notifier:    notifier,
		idGen:       idGen,
		metrics:     metrics,
		logger:      logger,
		tracer:      otel.Tracer(TracerName),
	}
}

// Transfer executes a single transfer request.
func (uc *TransferUseCase) Transfer(ctx context.Context, req domain.TransferRequest) (*domain.Transfer, error) {
	ctx, span := uc.tracer.Start(ctx, "transfer.execute", trace.WithAttributes(
		attribute.String("transfer.from_account_id", req.FromAccountID),
		attribute.String("transfer.to_account_id", req.ToAccountID),
		attribute.String("transfer.amount", req.Amount.String()),
	))
	defer span.End()

	start := time.Now()

	uc.mu.Lock()
	defer uc.mu.Unlock()

	transfer, err := uc.execute(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		uc.metrics.TransferFailed(failureReason(err))
		uc.logger.Warn().
			Err(err).
			Str("from_account_id", req.FromAccountID).
			Str("to_account_id", req.ToAccountID).
			Stringer("amount", req.Amount).
			Msg("transfer rejected")

		return nil, err
	}

	span.SetAttributes(attribute.String("transfer.id", transfer.ID))
	uc.metrics.TransferSucceeded(transfer.Amount, time.Since(start))

	return transfer, nil
}

// execute must be called with uc.mu held.
func (uc *TransferUseCase) execute(ctx context.Context, req domain.TransferRequest) (*domain.Transfer, error) {
	// 1. Load source
	fromAccount, err := uc.getAccount(ctx, req.FromAccountID)
	if err != nil {
		return nil, err
	}

	// 2. Load destination
	toAccount, err := uc.getAccount(ctx, req.ToAccountID)
	if err != nil {
		return nil, err
	}

	// A self-transfer must mutate one value so the credit and debit cancel out.
	if req.FromAccountID == req.ToAccountID {
		toAccount = fromAccount
	}

	// 3. Validate amount
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 4. Validate funds
	if err := fromAccount.ValidateDebit(req.Amount); err != nil {
		return nil, err
	}

	// 5. Apply in memory
	now := time.Now().UTC()

	toAccount.Balance = toAccount.ApplyCredit(req.Amount)
	toAccount.UpdatedAt = now
	fromAccount.Balance = fromAccount.ApplyDebit(req.Amount)
	fromAccount.UpdatedAt = now

	// 6. Persist, destination first
	if err := uc.accountRepo.Update(ctx, toAccount); err != nil {
		return nil, fmt.Errorf("failed to persist account %s: %w", toAccount.ID, err)
	}

	if err := uc.accountRepo.Update(ctx, fromAccount); err != nil {
		return nil, fmt.Errorf("failed to persist account %s: %w", fromAccount.ID, err)
	}

	transfer := &domain.Transfer{
		ID:            uc.idGen.Generate(),
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
		CreatedAt:     now,
	}

	uc.logger.Info().
		Str("transfer_id", transfer.ID).
		Str("from_account_id", transfer.FromAccountID).
		Str("to_account_id", transfer.ToAccountID).
		Stringer("amount", transfer.Amount).
		Msg("transfer committed")

	// 7. Notify, destination first
	uc.notify(ctx, transfer, toAccount, transfer.ReceivedMessage())
	uc.notify(ctx, transfer, fromAccount, transfer.SentMessage())

	return transfer, nil
}

func (uc *TransferUseCase) getAccount(ctx context.Context, id string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, &domain.AccountNotFoundError{ID: id}
		}
		return nil, fmt.Errorf("failed to load account %s: %w", id, err)
	}

	if account == nil {
		return nil, &domain.AccountNotFoundError{ID: id}
	}

	return account, nil
}

// notify delivers a notification on a best-effort basis: funds have already
// moved, so a failure is logged and counted but never returned.
func (uc *TransferUseCase) notify(ctx context.Context, transfer *domain.Transfer, account *domain.Account, message string) {
	if uc.notifier == nil {
		return
	}

	if err := uc.notifier.Notify(ctx, account, message); err != nil {
		uc.metrics.NotificationFailed()
		uc.logger.Error().
			Err(err).
			Str("transfer_id", transfer.ID).
			Str("account_id", account.ID).
			Msg("failed to notify account holder")
	}
}

// Snapshot returns every account. It takes the transfer lock so the result
// never observes a transfer halfway through its writes.
func (uc *TransferUseCase) Snapshot(ctx context.Context) ([]*domain.Account, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	return uc.accountRepo.List(ctx)
}

// Locker returns the lock every transfer holds. Operations that rewrite the
// store wholesale must hold it too.
func (uc *TransferUseCase) Locker() sync.Locker {
	return &uc.mu
}

// TotalBalance sums every account balance from a consistent snapshot.
func (uc *TransferUseCase) TotalBalance(ctx context.Context) (decimal.Decimal, error) {
	accounts, err := uc.Snapshot(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}

	return total, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return FailureAccountNotFound
	case errors.Is(err, domain.ErrInvalidAmount):
		return FailureInvalidAmount
	case errors.Is(err, domain.ErrInsufficientFunds):
		return FailureInsufficientFunds
	default:
		return FailureInternal
	}
}

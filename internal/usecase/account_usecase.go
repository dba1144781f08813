package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gotransfer/internal/domain"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	accountRepo AccountRepository
	ledgerLock  sync.Locker
	metrics     Metrics
	logger      zerolog.Logger
}

// NewAccountUseCase creates a new AccountUseCase. ledgerLock must be the lock
// transfers run under (see TransferUseCase.Locker) so that clearing the store
// never interleaves with a transfer's writes. A nil lock is only safe when no
// TransferUseCase shares the repository.
func NewAccountUseCase(accountRepo AccountRepository, ledgerLock sync.Locker, metrics Metrics, logger zerolog.Logger) *AccountUseCase {
	if ledgerLock == nil {
		ledgerLock = &sync.Mutex{}
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &AccountUseCase{
		accountRepo: accountRepo,
		ledgerLock:  ledgerLock,
		metrics:     metrics,
		logger:      logger,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	ID      string
	Balance decimal.Decimal
}

// CreateAccount creates a new account with an opening balance.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateAccountID(input.ID); err != nil {
		return nil, err
	}

	if err := domain.ValidateInitialBalance(input.Balance); err != nil {
		return nil, err
	}

	account := domain.NewAccount(input.ID, input.Balance, time.Now().UTC())

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	uc.metrics.AccountCreated()
	uc.logger.Info().
		Str("account_id", account.ID).
		Stringer("balance", account.Balance).
		Msg("account created")

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ClearAccounts removes every account. Administrative and test use only.
func (uc *AccountUseCase) ClearAccounts(ctx context.Context) error {
	uc.ledgerLock.Lock()
	defer uc.ledgerLock.Unlock()

	if err := uc.accountRepo.Clear(ctx); err != nil {
		return err
	}

	uc.logger.Warn().Msg("all accounts cleared")
	return nil
}

package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/iho/gotransfer/internal/domain"
)

// AccountRepository implements usecase.AccountRepository on top of a map
// guarded by a single store-wide lock. Accounts are copied on the way in and
// on the way out, so callers can never observe or cause a partial update.
type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
}

// NewAccountRepository creates an empty AccountRepository.
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

// Create inserts a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[account.ID]; exists {
		return &domain.DuplicateAccountError{ID: account.ID}
	}

	r.accounts[account.ID] = account.Clone()
	return nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, &domain.AccountNotFoundError{ID: id}
	}

	return account.Clone(), nil
}

// Update replaces the stored state of an account. The caller guarantees the
// account exists.
func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.accounts[account.ID] = account.Clone()
	return nil
}

// List returns a snapshot of all accounts ordered by ID.
func (r *AccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	accounts := make([]*domain.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		accounts = append(accounts, a.Clone())
	}

	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].ID < accounts[j].ID
	})

	return accounts, nil
}

// Clear removes every account.
func (r *AccountRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.accounts = make(map[string]*domain.Account)
	return nil
}

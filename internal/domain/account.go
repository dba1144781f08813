package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents an identified store of monetary balance.
type Account struct {
	ID        string
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAccount creates an account with the given opening balance.
func NewAccount(id string, balance decimal.Decimal, now time.Time) *Account {
	return &Account{
		ID:        id,
		Balance:   balance,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ValidateDebit checks if account can be debited by amount without going negative.
func (a *Account) ValidateDebit(amount decimal.Decimal) error {
	if a.ApplyDebit(amount).IsNegative() {
		return &InsufficientFundsError{ID: a.ID}
	}
	return nil
}

// ApplyDebit returns new balance after debit.
func (a *Account) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Sub(amount)
}

// ApplyCredit returns new balance after credit.
func (a *Account) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(amount)
}

// Clone returns a copy that shares no state with a.
func (a *Account) Clone() *Account {
	c := *a
	return &c
}

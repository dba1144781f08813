package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferRequest asks to move Amount from one account to another.
type TransferRequest struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
}

// Validate checks the amount is strictly positive.
// Self-transfers are allowed.
func (r TransferRequest) Validate() error {
	if !r.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// Transfer is the receipt of a committed money movement between two accounts.
type Transfer struct {
	ID            string
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	CreatedAt     time.Time
}

// ReceivedMessage is the notification text sent to the credited account.
func (t *Transfer) ReceivedMessage() string {
	return "You received " + t.Amount.String() + " in your account"
}

// SentMessage is the notification text sent to the debited account.
func (t *Transfer) SentMessage() string {
	return "You transferred " + t.Amount.String() + " from your account to the account " + t.ToAccountID
}

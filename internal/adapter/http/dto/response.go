package dto

import (
	"encoding/json"
	"time"

	"github.com/iho/gotransfer/internal/domain"
	"github.com/iho/gotransfer/internal/usecase"
)

// AccountResponse represents an account in API responses. Balances are
// rendered as JSON numbers with their exact decimal digits.
type AccountResponse struct {
	AccountID string      `json:"accountId"`
	Balance   json.Number `json:"balance"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		AccountID: a.ID,
		Balance:   json.Number(a.Balance.String()),
	}
}

// TransferResponse is the receipt of an accepted transfer.
type TransferResponse struct {
	TransferID  string      `json:"transferId"`
	AccountFrom string      `json:"accountFrom"`
	AccountTo   string      `json:"accountTo"`
	Value       json.Number `json:"value"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// TransferFromDomain converts domain transfer to response.
func TransferFromDomain(t *domain.Transfer) *TransferResponse {
	return &TransferResponse{
		TransferID:  t.ID,
		AccountFrom: t.FromAccountID,
		AccountTo:   t.ToAccountID,
		Value:       json.Number(t.Amount.String()),
		CreatedAt:   t.CreatedAt,
	}
}

// LedgerConsistencyResponse reports the ledger-wide consistency check.
type LedgerConsistencyResponse struct {
	Consistent       bool        `json:"consistent"`
	Accounts         int         `json:"accounts"`
	TotalBalance     json.Number `json:"totalBalance"`
	NegativeAccounts []string    `json:"negativeAccounts,omitempty"`
}

// LedgerConsistencyFromSummary converts a ledger summary to response.
func LedgerConsistencyFromSummary(s *usecase.LedgerSummary) *LedgerConsistencyResponse {
	return &LedgerConsistencyResponse{
		Consistent:       len(s.NegativeAccounts) == 0,
		Accounts:         s.Accounts,
		TotalBalance:     json.Number(s.TotalBalance.String()),
		NegativeAccounts: s.NegativeAccounts,
	}
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

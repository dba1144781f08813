package dto

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/gotransfer/internal/domain"
	"github.com/iho/gotransfer/internal/usecase"
)

// ErrMissingField is returned when a required request field is absent.
var ErrMissingField = errors.New("missing required field")

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	AccountID string              `json:"accountId"`
	Balance   decimal.NullDecimal `json:"balance"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() (usecase.CreateAccountInput, error) {
	if !r.Balance.Valid {
		return usecase.CreateAccountInput{}, fmt.Errorf("%w: balance", ErrMissingField)
	}

	return usecase.CreateAccountInput{
		ID:      r.AccountID,
		Balance: r.Balance.Decimal,
	}, nil
}

// TransferRequest represents a request to move money between two accounts.
type TransferRequest struct {
	AccountFrom string              `json:"accountFrom"`
	AccountTo   string              `json:"accountTo"`
	Value       decimal.NullDecimal `json:"value"`
}

// ToDomain converts to a domain transfer request. Only presence is checked
// here; the amount itself is validated by the transfer engine.
func (r *TransferRequest) ToDomain() (domain.TransferRequest, error) {
	switch {
	case r.AccountFrom == "":
		return domain.TransferRequest{}, fmt.Errorf("%w: accountFrom", ErrMissingField)
	case r.AccountTo == "":
		return domain.TransferRequest{}, fmt.Errorf("%w: accountTo", ErrMissingField)
	case !r.Value.Valid:
		return domain.TransferRequest{}, fmt.Errorf("%w: value", ErrMissingField)
	}

	return domain.TransferRequest{
		FromAccountID: r.AccountFrom,
		ToAccountID:   r.AccountTo,
		Amount:        r.Value.Decimal,
	}, nil
}

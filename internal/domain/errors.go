package domain

import (
	"errors"
	"fmt"
)

var (
	// Account errors
	ErrAccountNotFound  = errors.New("account not found")
	ErrDuplicateAccount = errors.New("account already exists")
	ErrInvalidAccountID = errors.New("invalid account id")
	ErrNegativeBalance  = errors.New("balance must not be negative")

	// Transfer errors
	ErrInvalidAmount     = errors.New("The informed value is invalid. The operation will not be performed.")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// DuplicateAccountError is returned when an account id is already taken.
type DuplicateAccountError struct {
	ID string
}

func (e *DuplicateAccountError) Error() string {
	return fmt.Sprintf("Account id %s already exists!", e.ID)
}

func (e *DuplicateAccountError) Is(target error) bool {
	return target == ErrDuplicateAccount
}

// AccountNotFoundError is returned when a referenced account does not exist.
type AccountNotFoundError struct {
	ID string
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("The account %s does not exist", e.ID)
}

func (e *AccountNotFoundError) Is(target error) bool {
	return target == ErrAccountNotFound
}

// InsufficientFundsError is returned when a debit would leave the account negative.
type InsufficientFundsError struct {
	ID string
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("The account %s has insufficient funds. The operation will not be performed.", e.ID)
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

package usecase

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrInconsistentLedger is returned when an account balance is negative.
	ErrInconsistentLedger = errors.New("ledger is inconsistent: negative account balance")
)

// LedgerUseCase handles ledger-wide operations.
type LedgerUseCase struct {
	snapshotter AccountSnapshotter
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(snapshotter AccountSnapshotter) *LedgerUseCase {
	return &LedgerUseCase{
		snapshotter: snapshotter,
	}
}

// LedgerSummary describes the whole account set at one point in time.
type LedgerSummary struct {
	Accounts         int
	TotalBalance     decimal.Decimal
	NegativeAccounts []string
}

// CheckConsistency sums all balances and verifies none is negative.
// The summary is returned even when the check fails.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*LedgerSummary, error) {
	accounts, err := uc.snapshotter.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	summary := &LedgerSummary{
		Accounts:     len(accounts),
		TotalBalance: decimal.Zero,
	}

	for _, a := range accounts {
		summary.TotalBalance = summary.TotalBalance.Add(a.Balance)
		if a.Balance.IsNegative() {
			summary.NegativeAccounts = append(summary.NegativeAccounts, a.ID)
		}
	}

	if len(summary.NegativeAccounts) > 0 {
		return summary, ErrInconsistentLedger
	}

	return summary, nil
}

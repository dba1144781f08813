package notifier

import (
	"context"
	"errors"

	"github.com/iho/gotransfer/internal/domain"
	"github.com/iho/gotransfer/internal/usecase"
)

// MultiNotifier fans each notification out to several notifiers.
type MultiNotifier struct {
	notifiers []usecase.Notifier
}

// NewMultiNotifier creates a new MultiNotifier.
func NewMultiNotifier(notifiers ...usecase.Notifier) *MultiNotifier {
	return &MultiNotifier{notifiers: notifiers}
}

// Notify calls every notifier, even after one fails, and joins the errors.
func (m *MultiNotifier) Notify(ctx context.Context, account *domain.Account, message string) error {
	var errs []error
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, account, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

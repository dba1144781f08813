package notifier

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/iho/gotransfer/internal/domain"
)

// LogNotifier writes every notification to the service log.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a new LogNotifier.
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the message addressed to account.
func (n *LogNotifier) Notify(_ context.Context, account *domain.Account, message string) error {
	n.logger.Info().
		Str("account_id", account.ID).
		Str("notification", message).
		Msg("account notified")
	return nil
}

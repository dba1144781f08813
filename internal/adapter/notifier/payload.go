package notifier

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/iho/gotransfer/internal/domain"
)

func encode(account *domain.Account, message string, now time.Time) ([]byte, error) {
	data, err := json.Marshal(domain.Notification{
		AccountID: account.ID,
		Message:   message,
		SentAt:    now.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode notification: %w", err)
	}
	return data, nil
}

package domain

import "time"

// Notification is the payload delivered to an account holder by notifiers
// that publish to external systems.
type Notification struct {
	AccountID string    `json:"account_id"`
	Message   string    `json:"message"`
	SentAt    time.Time `json:"sent_at"`
}

package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/iho/gotransfer/internal/domain"
)

// DefaultNATSSubject is the subject notifications are published on.
const DefaultNATSSubject = "accounts.notifications"

// AccountIDHeader carries the addressed account so consumers can route
// without decoding the payload.
const AccountIDHeader = "Account-Id"

// MsgPublisher is the part of *nats.Conn the notifier needs.
type MsgPublisher interface {
	PublishMsg(msg *nats.Msg) error
}

// NATSNotifier publishes notifications on a NATS subject.
type NATSNotifier struct {
	conn    MsgPublisher
	subject string
	now     func() time.Time
}

// NewNATSNotifier creates a new NATSNotifier. An empty subject falls back to
// DefaultNATSSubject.
func NewNATSNotifier(conn MsgPublisher, subject string) *NATSNotifier {
	if subject == "" {
		subject = DefaultNATSSubject
	}
	return &NATSNotifier{
		conn:    conn,
		subject: subject,
		now:     time.Now,
	}
}

// Notify publishes a JSON domain.Notification.
func (n *NATSNotifier) Notify(ctx context.Context, account *domain.Account, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := encode(account, message, n.now())
	if err != nil {
		return err
	}

	msg := nats.NewMsg(n.subject)
	msg.Header.Set(AccountIDHeader, account.ID)
	msg.Data = payload

	if err := n.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish notification for account %s: %w", account.ID, err)
	}

	return nil
}

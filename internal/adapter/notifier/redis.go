package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/gotransfer/internal/domain"
)

// DefaultRedisChannel is the pub/sub channel notifications go to.
const DefaultRedisChannel = "account-notifications"

// RedisNotifier publishes notifications on a Redis pub/sub channel.
type RedisNotifier struct {
	client  redis.Cmdable
	channel string
	now     func() time.Time
}

// NewRedisNotifier creates a new RedisNotifier. An empty channel falls back
// to DefaultRedisChannel.
func NewRedisNotifier(client redis.Cmdable, channel string) *RedisNotifier {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	return &RedisNotifier{
		client:  client,
		channel: channel,
		now:     time.Now,
	}
}

// Notify publishes a JSON domain.Notification.
func (n *RedisNotifier) Notify(ctx context.Context, account *domain.Account, message string) error {
	payload, err := encode(account, message, n.now())
	if err != nil {
		return err
	}

	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish notification for account %s: %w", account.ID, err)
	}

	return nil
}

// Package redis remembers carrier webhook deliveries so redelivered
// notifications are acknowledged without being reconciled twice.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "fulfillment:webhook"

type WebhookDeduplicator struct {
	client goredis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewWebhookDeduplicator keeps delivery keys for ttl. An empty prefix uses
// "fulfillment:webhook".
func NewWebhookDeduplicator(client goredis.Cmdable, prefix string, ttl time.Duration) *WebhookDeduplicator {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &WebhookDeduplicator{client: client, prefix: prefix, ttl: ttl}
}

// NewClient connects to a single Redis node.
func NewClient(addr string) *goredis.Client {
	return goredis.NewClient(&goredis.Options{Addr: addr})
}

// FirstSeen stores key with SET NX, so only the first of concurrent
// deliveries reports true.
func (d *WebhookDeduplicator) FirstSeen(ctx context.Context, key string) (bool, error) {
	stored, err := d.client.SetNX(ctx, d.generateKey(key), time.Now().UTC().Format(time.RFC3339), d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("remember webhook delivery %q: %w", key, err)
	}
	return stored, nil
}

// Forget deletes key. Deleting a key that is not stored is not an error.
func (d *WebhookDeduplicator) Forget(ctx context.Context, key string) error {
	if err := d.client.Del(ctx, d.generateKey(key)).Err(); err != nil {
		return fmt.Errorf("forget webhook delivery %q: %w", key, err)
	}
	return nil
}

func (d *WebhookDeduplicator) generateKey(key string) string {
	return fmt.Sprintf("%s:%s", d.prefix, key)
}

package ports

import "context"

// WebhookDeduplicator remembers carrier webhook deliveries for a while.
type WebhookDeduplicator interface {
	// FirstSeen records key and reports whether it was new.
	FirstSeen(ctx context.Context, key string) (bool, error)
	// Forget drops key so a redelivery is processed again.
	Forget(ctx context.Context, key string) error
}

package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// EventPublisher hands lifecycle events to the collaborator queue
// (notifications, reminders, loyalty, refunds). Delivery is best effort:
// callers log failures and never undo a committed transition over them.
type EventPublisher interface {
	Publish(ctx context.Context, events []order.Event) error
}

package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Line items are loaded with the order and never written back.
type OrderRepository interface {
	// Add inserts a new order and assigns its generated id.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists state, note, counters and context fields of an
	// existing order. Returns errs.ErrObjectNotFound when no row matched.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get reads an order without locking it.
	Get(ctx context.Context, id int64) (*order.Order, error)

	// GetForUpdate reads an order and holds its row lock until the
	// surrounding transaction ends. Must be called inside Begin/Commit;
	// a second caller on the same id blocks until the first finishes.
	GetForUpdate(ctx context.Context, id int64) (*order.Order, error)
}

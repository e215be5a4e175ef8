package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipping"
)

// ShippingRepository persists the 1:1 shipping companion of orders.
type ShippingRepository interface {
	// GetByOrderID returns errs.ErrObjectNotFound when the order has no
	// shipment yet.
	GetByOrderID(ctx context.Context, orderID int64) (*shipping.Record, error)

	// GetByTrackingCode resolves a carrier tracking code to its record.
	GetByTrackingCode(ctx context.Context, code kernel.TrackingCode) (*shipping.Record, error)

	// Save inserts a new record or updates an existing one.
	Save(ctx context.Context, record *shipping.Record) error

	// ListByOrderStates returns records whose order is currently in one of
	// states, oldest first, at most limit rows.
	ListByOrderStates(ctx context.Context, states []order.State, limit int) ([]*shipping.Record, error)

	// ListDeliveredBefore returns records of Delivered orders whose delivery
	// happened before cutoff.
	ListDeliveredBefore(ctx context.Context, cutoff time.Time, limit int) ([]*shipping.Record, error)
}

package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// Shipment is the carrier's answer to a create request.
type Shipment struct {
	TrackingCode       kernel.TrackingCode
	Fee                decimal.Decimal
	ExpectedDeliveryAt time.Time
}

// ShipmentStatus is the latest status the carrier reports for a parcel.
type ShipmentStatus struct {
	TrackingCode kernel.TrackingCode
	Status       string
	UpdatedAt    time.Time
}

// CarrierClient talks to the external shipping carrier. None of its calls
// may run inside a transition's unit of work.
type CarrierClient interface {
	// Name identifies the carrier in audit notes and shipping records.
	Name() string

	CreateShipment(ctx context.Context, o *order.Order) (Shipment, error)

	FetchStatus(ctx context.Context, code kernel.TrackingCode) (ShipmentStatus, error)

	CancelShipment(ctx context.Context, code kernel.TrackingCode) error
}

// Package servers is the HTTP contract of the service: the OpenAPI document
// in openapi.yml, the request and response models it defines, and the echo
// wrapper that binds path and query parameters before calling a
// ServerInterface implementation. Models mirror the schemas one to one, so
// keep both in step when the document changes.
package servers

import "time"

type ActorRole string

const (
	ActorRoleCustomer ActorRole = "customer"
	ActorRoleStaff    ActorRole = "staff"
	ActorRoleSystem   ActorRole = "system"
	ActorRoleCarrier  ActorRole = "carrier"
)

type OrderState string

type Actor struct {
	Name string    `json:"name"`
	Role ActorRole `json:"role"`
}

type TransitionRequest struct {
	Actor              Actor      `json:"actor"`
	CancelReason       *string    `json:"cancelReason,omitempty"`
	CarrierName        *string    `json:"carrierName,omitempty"`
	CarrierStatus      *string    `json:"carrierStatus,omitempty"`
	ExpectedDeliveryAt *time.Time `json:"expectedDeliveryAt,omitempty"`
	Reason             *string    `json:"reason,omitempty"`
	Target             OrderState `json:"target"`
	TrackingCode       *string    `json:"trackingCode,omitempty"`
}

type ShipmentRequest struct {
	Actor Actor `json:"actor"`
}

type CancelRequest struct {
	Actor  Actor  `json:"actor"`
	Reason string `json:"reason"`
}

// CarrierWebhook uses the carrier's own field names.
type CarrierWebhook struct {
	OrderCode string     `json:"OrderCode"`
	Reason    *string    `json:"Reason,omitempty"`
	Status    string     `json:"Status"`
	Time      *time.Time `json:"Time,omitempty"`
}

type WebhookAck struct {
	Message string  `json:"message"`
	State   *string `json:"state,omitempty"`
	Updated bool    `json:"updated"`
}

type Shipping struct {
	CarrierName        string     `json:"carrierName"`
	CarrierStatus      string     `json:"carrierStatus"`
	DeliveredAt        *time.Time `json:"deliveredAt,omitempty"`
	ExpectedDeliveryAt *time.Time `json:"expectedDeliveryAt,omitempty"`
	TrackingCode       string     `json:"trackingCode"`
}

type Order struct {
	AvailableTransitions []OrderState `json:"availableTransitions"`
	CancelReason         *string      `json:"cancelReason,omitempty"`
	Code                 string       `json:"code"`
	CreatedAt            time.Time    `json:"createdAt"`
	Editable             bool         `json:"editable"`
	FailedDeliveryCount  int          `json:"failedDeliveryCount"`
	GrandTotal           string       `json:"grandTotal"`
	Id                   int64        `json:"id"`
	Note                 *string      `json:"note,omitempty"`
	Paid                 bool         `json:"paid"`
	PaymentMethod        string       `json:"paymentMethod"`
	RefundRequired       bool         `json:"refundRequired"`
	Shipping             *Shipping    `json:"shipping,omitempty"`
	State                OrderState   `json:"state"`
	UpdatedAt            time.Time    `json:"updatedAt"`
}

type OrderSummary struct {
	Code         string     `json:"code"`
	Id           int64      `json:"id"`
	State        OrderState `json:"state"`
	TrackingCode *string    `json:"trackingCode,omitempty"`
}

type AvailableTransitions struct {
	Allowed []OrderState `json:"allowed"`
	OrderId int64        `json:"orderId"`
	State   OrderState   `json:"state"`
}

type Cancellability struct {
	CanCancel bool       `json:"canCancel"`
	OrderId   int64      `json:"orderId"`
	Role      ActorRole  `json:"role"`
	State     OrderState `json:"state"`
}

type Error struct {
	Allowed *[]OrderState `json:"allowed,omitempty"`
	Code    int           `json:"code"`
	Message string        `json:"message"`
}

type GetActiveOrdersParams struct {
	Limit *int `form:"limit,omitempty" json:"limit,omitempty"`
}

type CanCancelOrderParams struct {
	Role ActorRole `form:"role" json:"role"`
}

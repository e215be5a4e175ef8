package order

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// EventKind names the notification or side effect a lifecycle event asks
// for. Consumers route on it; it is also sent as the "event-kind" header.
type EventKind string

const (
	EventCustomerNotification     EventKind = "order.customer_notification"
	EventStaffNotification        EventKind = "order.staff_notification"
	EventTrackingSMS              EventKind = "order.tracking_sms"
	EventReviewRequest            EventKind = "order.review_request"
	EventPaymentReminderScheduled EventKind = "order.payment_reminder_scheduled"
	EventPaymentReminderCancelled EventKind = "order.payment_reminder_cancelled"
	EventLoyaltyAccrual           EventKind = "order.loyalty_accrual"
	EventRefundFlagged            EventKind = "order.refund_flagged"
)

// Event is a slow side effect handed to a collaborator queue after commit.
// Template names the message the notification service renders.
type Event struct {
	ID         kernel.UUID
	Kind       EventKind
	OrderID    int64
	OrderCode  string
	State      State
	Template   string
	Data       map[string]string
	OccurredAt time.Time
}

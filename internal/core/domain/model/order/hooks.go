package order

import (
	"maps"
	"strconv"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipping"
)

func (in hookInput) event(kind EventKind, template string, data map[string]string) Event {
	return Event{
		ID:         kernel.NewUUID(),
		Kind:       kind,
		OrderID:    in.order.id,
		OrderCode:  in.order.code,
		State:      in.next,
		Template:   template,
		Data:       maps.Clone(data),
		OccurredAt: in.at,
	}
}

func (in hookInput) notifyCustomer(template string) Event {
	return in.event(EventCustomerNotification, template, nil)
}

func enterPendingPayment(in hookInput) (changes, error) {
	return changes{events: []Event{
		in.event(EventPaymentReminderScheduled, "payment_reminder", map[string]string{
			"grand_total": in.order.amounts.grandTotal.StringFixed(2),
		}),
	}}, nil
}

// Leaving PendingPayment in any direction makes the scheduled reminder moot.
func exitPendingPayment(in hookInput) changes {
	return changes{events: []Event{
		in.event(EventPaymentReminderCancelled, "payment_reminder", nil),
	}}
}

func enterPending(in hookInput) (changes, error) {
	return changes{events: []Event{
		in.notifyCustomer("order_received"),
		in.event(EventStaffNotification, "new_order", nil),
	}}, nil
}

func enterConfirmed(in hookInput) (changes, error) {
	return changes{events: []Event{
		in.notifyCustomer("order_confirmed"),
		in.event(EventStaffNotification, "shipment_request_required", nil),
	}}, nil
}

// The entry precondition already checked the tracking code; this re-check
// catches a record that lost it between the check and the write.
func enterPacking(in hookInput) (changes, error) {
	if !in.shipping.HasTrackingCode() {
		return changes{}, NewPreconditionFailedError(Packing, "tracking code")
	}
	return changes{events: []Event{
		in.notifyCustomer("order_packing"),
	}}, nil
}

func enterReadyToShip(in hookInput) (changes, error) {
	at := in.at
	return changes{
		carrierStatus:   shipping.StatusReadyToPick,
		dispatchReadyAt: &at,
	}, nil
}

func enterShipping(in hookInput) (changes, error) {
	data := map[string]string{}
	if in.shipping != nil {
		data["tracking_code"] = in.shipping.TrackingCode().String()
		data["carrier"] = in.shipping.CarrierName()
	}
	return changes{events: []Event{
		in.notifyCustomer("order_shipping"),
		in.event(EventTrackingSMS, "tracking_link", data),
	}}, nil
}

func enterDelivered(in hookInput) (changes, error) {
	at := in.at
	return changes{
		deliveredAt: &at,
		events: []Event{
			in.notifyCustomer("order_delivered"),
			in.event(EventReviewRequest, "review_request", nil),
		},
	}, nil
}

func enterCompleted(in hookInput) (changes, error) {
	return changes{events: []Event{
		in.event(EventLoyaltyAccrual, "loyalty_accrual", map[string]string{
			"grand_total": in.order.amounts.grandTotal.StringFixed(2),
		}),
	}}, nil
}

// Cancelled is terminal, so this runs at most once per order: each product is
// restocked exactly once.
func enterCancelled(in hookInput) (changes, error) {
	c := changes{
		restock: aggregateRestock(in.order.items),
		events: []Event{
			in.notifyCustomer("order_cancelled"),
			in.event(EventStaffNotification, "order_cancelled", map[string]string{
				"cancelled_from": in.previous.String(),
			}),
		},
	}
	if in.order.paymentMethod == PaymentOnline && in.order.paid {
		c.flagRefund = true
		c.events = append(c.events, in.event(EventRefundFlagged, "refund_required", map[string]string{
			"amount": in.order.amounts.grandTotal.StringFixed(2),
		}))
	}
	return c, nil
}

func enterDeliveryFailed(in hookInput) (changes, error) {
	return changes{
		incrementFailedDeliveries: true,
		events: []Event{
			in.event(EventCustomerNotification, "delivery_failed", map[string]string{
				"attempt": strconv.Itoa(in.order.failedDeliveryCount + 1),
			}),
		},
	}, nil
}

func enterRefunding(in hookInput) (changes, error) {
	return changes{events: []Event{in.notifyCustomer("refund_started")}}, nil
}

func enterRefunded(in hookInput) (changes, error) {
	return changes{events: []Event{in.notifyCustomer("refund_completed")}}, nil
}

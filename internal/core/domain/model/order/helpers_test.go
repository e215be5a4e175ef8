package order_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipping"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testAmounts(t *testing.T) order.Amounts {
	t.Helper()
	a, err := order.NewAmounts(d("100.00"), d("10.00"), d("5.00"), d("3.00"), d("108.00"))
	require.NoError(t, err)
	return a
}

func testItem(t *testing.T, productID int64, qty int) order.LineItem {
	t.Helper()
	li, err := order.NewLineItem(productID, qty, d("50.00"))
	require.NoError(t, err)
	return li
}

type orderOption func(*order.RestoreParams)

func withPayment(m order.PaymentMethod, paid bool) orderOption {
	return func(p *order.RestoreParams) {
		p.PaymentMethod = m
		p.Paid = paid
	}
}

func withItems(items ...order.LineItem) orderOption {
	return func(p *order.RestoreParams) { p.Items = items }
}

func restoredOrder(t *testing.T, state order.State, opts ...orderOption) *order.Order {
	t.Helper()
	p := order.RestoreParams{
		ID:            1,
		Code:          "ORD-20261017-0001",
		State:         state,
		Amounts:       testAmounts(t),
		PaymentMethod: order.PaymentCOD,
		Items:         []order.LineItem{testItem(t, 11, 1)},
		CreatedAt:     testTime,
		UpdatedAt:     testTime,
	}
	for _, opt := range opts {
		opt(&p)
	}
	o, err := order.RestoreOrder(p)
	require.NoError(t, err)
	return o
}

func staff(t *testing.T) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(kernel.RoleStaff, "alice")
	require.NoError(t, err)
	return a
}

func code(t *testing.T, s string) kernel.TrackingCode {
	t.Helper()
	c, err := kernel.NewTrackingCode(s)
	require.NoError(t, err)
	return c
}

func trackedRecord(t *testing.T, orderID int64) *shipping.Record {
	t.Helper()
	return shipping.RestoreRecord(shipping.RestoreParams{
		OrderID:      orderID,
		TrackingCode: code(t, "GHN0001"),
		CarrierName:  "ghn",
	})
}

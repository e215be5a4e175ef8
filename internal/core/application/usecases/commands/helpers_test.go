package commands_test

import (
	"log/slog"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipping"
	"fulfillment/internal/pkg/telemetry"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testOrderID int64 = 7

var testTime = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newMetrics() *telemetry.Metrics {
	return telemetry.NewMetrics(prometheus.NewRegistry())
}

func lineItem(t *testing.T, productID int64, qty int) order.LineItem {
	t.Helper()
	li, err := order.NewLineItem(productID, qty, decimal.RequireFromString("25.00"))
	require.NoError(t, err)
	return li
}

func orderIn(t *testing.T, state order.State, items ...order.LineItem) *order.Order {
	t.Helper()
	if len(items) == 0 {
		items = []order.LineItem{lineItem(t, 11, 1)}
	}
	amounts, err := order.NewAmounts(
		decimal.RequireFromString("100.00"),
		decimal.RequireFromString("10.00"),
		decimal.RequireFromString("5.00"),
		decimal.RequireFromString("3.00"),
		decimal.RequireFromString("108.00"),
	)
	require.NoError(t, err)

	o, err := order.RestoreOrder(order.RestoreParams{
		ID:            testOrderID,
		Code:          "ORD-20261017-0007",
		State:         state,
		Amounts:       amounts,
		PaymentMethod: order.PaymentCOD,
		Items:         items,
		CreatedAt:     testTime,
		UpdatedAt:     testTime,
	})
	require.NoError(t, err)
	return o
}

func trackingCode(t *testing.T, s string) kernel.TrackingCode {
	t.Helper()
	c, err := kernel.NewTrackingCode(s)
	require.NoError(t, err)
	return c
}

func recordFor(t *testing.T, orderID int64, carrierStatus string) *shipping.Record {
	t.Helper()
	return shipping.RestoreRecord(shipping.RestoreParams{
		OrderID:       orderID,
		TrackingCode:  trackingCode(t, "GHN8X2K"),
		CarrierName:   "ghn",
		CarrierStatus: carrierStatus,
	})
}

func staffActor(t *testing.T) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(kernel.RoleStaff, "alice")
	require.NoError(t, err)
	return a
}

func customerActor(t *testing.T) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(kernel.RoleCustomer, "bob")
	require.NoError(t, err)
	return a
}

func transitionCommand(t *testing.T, target order.State, tc order.TransitionContext) commands.TransitionOrderCommand {
	t.Helper()
	if tc.OccurredAt.IsZero() {
		tc.OccurredAt = testTime
	}
	cmd, err := commands.NewTransitionOrderCommand(testOrderID, target, tc)
	require.NoError(t, err)
	return cmd
}

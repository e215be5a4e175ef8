package shipping_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipping"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCode(t *testing.T, s string) kernel.TrackingCode {
	t.Helper()
	c, err := kernel.NewTrackingCode(s)
	require.NoError(t, err)
	return c
}

func TestNewRecord(t *testing.T) {
	t.Run("new_record_is_marked_new", func(t *testing.T) {
		rec, err := shipping.NewRecord(1, mustCode(t, "GHN001"), "ghn")

		require.NoError(t, err)
		require.NoError(t, rec.Validate())
		assert.True(t, rec.IsNew())
		assert.True(t, rec.HasTrackingCode())
		assert.Equal(t, "ghn", rec.CarrierName())
		assert.Empty(t, rec.CarrierStatus())
	})

	t.Run("rejects_missing_fields", func(t *testing.T) {
		_, err := shipping.NewRecord(0, kernel.TrackingCode{}, "ghn")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestRecord_ZeroValueIsNotConstructed(t *testing.T) {
	var rec *shipping.Record
	require.ErrorIs(t, rec.Validate(), shipping.ErrRecordIsNotConstructed)
	assert.False(t, rec.HasTrackingCode())
}

func TestRecord_AttachTrackingCode(t *testing.T) {
	rec, err := shipping.NewRecord(1, mustCode(t, "GHN001"), "ghn")
	require.NoError(t, err)

	require.NoError(t, rec.AttachTrackingCode(mustCode(t, "GHN001")))
	require.NoError(t, rec.AttachTrackingCode(kernel.TrackingCode{}))
	require.ErrorIs(t, rec.AttachTrackingCode(mustCode(t, "GHN002")), shipping.ErrTrackingCodeImmutable)
	assert.Equal(t, "GHN001", rec.TrackingCode().String())
}

func TestRecord_CloneIsIndependent(t *testing.T) {
	eta := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	rec := shipping.RestoreRecord(shipping.RestoreParams{
		OrderID:            3,
		TrackingCode:       mustCode(t, "GHN003"),
		CarrierName:        "ghn",
		CarrierStatus:      "picking",
		ExpectedDeliveryAt: &eta,
	})

	clone := rec.Clone()
	clone.RecordCarrierStatus("delivered")
	clone.MarkDelivered(eta)
	clone.SetExpectedDeliveryAt(eta.Add(24 * time.Hour))

	assert.Equal(t, "picking", rec.CarrierStatus())
	assert.Nil(t, rec.DeliveredAt())
	assert.Equal(t, eta, *rec.ExpectedDeliveryAt())
	assert.False(t, rec.IsNew())
}

func TestRecord_Setters(t *testing.T) {
	rec, err := shipping.NewRecord(1, mustCode(t, "GHN001"), "")
	require.NoError(t, err)
	now := time.Now().UTC()

	rec.SetCarrierName("ghn")
	rec.SetCarrierName("")
	rec.RecordCarrierStatus(shipping.StatusReadyToPick)
	rec.RecordCarrierStatus("")
	rec.MarkDispatchReady(now)
	rec.MirrorFailedDeliveries(2)
	rec.SetExpectedDeliveryAt(time.Time{})
	rec.MarkPersisted()

	assert.Equal(t, "ghn", rec.CarrierName())
	assert.Equal(t, shipping.StatusReadyToPick, rec.CarrierStatus())
	assert.Equal(t, now, *rec.DispatchReadyAt())
	assert.Equal(t, 2, rec.FailedDeliveryCount())
	assert.Nil(t, rec.ExpectedDeliveryAt())
	assert.False(t, rec.IsNew())
}

package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns errs.ErrObjectNotFound for an unknown id.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.code,
			o.state,
			o.payment_method,
			o.paid,
			o.refund_required,
			o.failed_delivery_count,
			COALESCE(o.cancel_reason, ''),
			COALESCE(o.note, ''),
			o.grand_total,
			o.created_at,
			o.updated_at,
			s.tracking_code,
			s.carrier_name,
			s.carrier_status,
			s.expected_delivery_at,
			s.delivered_at
		FROM orders o
		LEFT JOIN shipping_records s ON s.order_id = o.id
		WHERE o.id = ?
	`, query.orderID).Row()

	var (
		resp          GetOrderQueryResponse
		state         string
		trackingCode  sql.NullString
		carrierName   sql.NullString
		carrierStatus sql.NullString
		expectedAt    sql.NullTime
		deliveredAt   sql.NullTime
	)
	err := row.Scan(
		&resp.ID,
		&resp.Code,
		&state,
		&resp.PaymentMethod,
		&resp.Paid,
		&resp.RefundRequired,
		&resp.FailedDeliveryCount,
		&resp.CancelReason,
		&resp.Note,
		&resp.GrandTotal,
		&resp.CreatedAt,
		&resp.UpdatedAt,
		&trackingCode,
		&carrierName,
		&carrierStatus,
		&expectedAt,
		&deliveredAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("orderID", query.orderID)
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp.State, err = order.ParseState(state)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	resp.Editable = order.IsEditable(resp.State)
	resp.AvailableTransitions = order.AllowedTransitions(resp.State)

	if trackingCode.Valid {
		resp.Shipping = &ShippingView{
			TrackingCode:       trackingCode.String,
			CarrierName:        carrierName.String,
			CarrierStatus:      carrierStatus.String,
			ExpectedDeliveryAt: nullTime(expectedAt),
			DeliveredAt:        nullTime(deliveredAt),
		}
	}
	return resp, nil
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

package shippingrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipping"
)

type RecordDTO struct {
	OrderID             int64  `gorm:"primaryKey;autoIncrement:false"`
	TrackingCode        string `gorm:"size:64;uniqueIndex;not null"`
	CarrierName         string `gorm:"size:32"`
	CarrierStatus       string `gorm:"size:64"`
	ExpectedDeliveryAt  *time.Time
	DispatchReadyAt     *time.Time
	DeliveredAt         *time.Time `gorm:"index"`
	FailedDeliveryCount int        `gorm:"not null;default:0"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (RecordDTO) TableName() string {
	return "shipping_records"
}

// tracking_code is deliberately absent: it never changes after insert.
var mutableColumns = []string{
	"carrier_name", "carrier_status", "expected_delivery_at",
	"dispatch_ready_at", "delivered_at", "failed_delivery_count", "updated_at",
}

func fromDomain(rec *shipping.Record) RecordDTO {
	return RecordDTO{
		OrderID:             rec.OrderID(),
		TrackingCode:        rec.TrackingCode().String(),
		CarrierName:         rec.CarrierName(),
		CarrierStatus:       rec.CarrierStatus(),
		ExpectedDeliveryAt:  rec.ExpectedDeliveryAt(),
		DispatchReadyAt:     rec.DispatchReadyAt(),
		DeliveredAt:         rec.DeliveredAt(),
		FailedDeliveryCount: rec.FailedDeliveryCount(),
	}
}

func toDomain(dto RecordDTO) (*shipping.Record, error) {
	code, err := kernel.NewTrackingCode(dto.TrackingCode)
	if err != nil {
		return nil, err
	}

	return shipping.RestoreRecord(shipping.RestoreParams{
		OrderID:             dto.OrderID,
		TrackingCode:        code,
		CarrierName:         dto.CarrierName,
		CarrierStatus:       dto.CarrierStatus,
		ExpectedDeliveryAt:  dto.ExpectedDeliveryAt,
		DispatchReadyAt:     dto.DispatchReadyAt,
		DeliveredAt:         dto.DeliveredAt,
		FailedDeliveryCount: dto.FailedDeliveryCount,
	}), nil
}

func toDomainList(dtos []RecordDTO) ([]*shipping.Record, error) {
	records := make([]*shipping.Record, 0, len(dtos))
	for _, dto := range dtos {
		rec, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

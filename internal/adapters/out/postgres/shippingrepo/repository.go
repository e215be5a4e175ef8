package shippingrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipping"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

type GormShippingRepository struct {
	db *gorm.DB
}

func NewGormShippingRepository(db *gorm.DB) *GormShippingRepository {
	return &GormShippingRepository{db: db}
}

func (r *GormShippingRepository) GetByOrderID(ctx context.Context, orderID int64) (*shipping.Record, error) {
	var dto RecordDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("shipping record for orderID", orderID)
		}
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormShippingRepository) GetByTrackingCode(ctx context.Context, code kernel.TrackingCode) (*shipping.Record, error) {
	if code.IsEmpty() {
		return nil, errs.NewValueIsRequiredError("tracking code")
	}

	var dto RecordDTO
	if err := r.db.WithContext(ctx).First(&dto, "tracking_code = ?", code.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("trackingCode", code.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormShippingRepository) Save(ctx context.Context, record *shipping.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := fromDomain(record)
	if record.IsNew() {
		if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
			return err
		}
		record.MarkPersisted()
		return nil
	}

	result := r.db.WithContext(ctx).
		Model(&RecordDTO{}).
		Where("order_id = ?", dto.OrderID).
		Select(mutableColumns).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("shipping record for orderID", dto.OrderID)
	}
	return nil
}

func (r *GormShippingRepository) ListByOrderStates(
	ctx context.Context,
	states []order.State,
	limit int,
) ([]*shipping.Record, error) {
	names := make([]string, 0, len(states))
	for _, s := range states {
		names = append(names, s.String())
	}

	var dtos []RecordDTO
	err := r.db.WithContext(ctx).
		Joins("JOIN orders ON orders.id = shipping_records.order_id").
		Where("orders.state IN ?", names).
		Order("shipping_records.updated_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

func (r *GormShippingRepository) ListDeliveredBefore(
	ctx context.Context,
	cutoff time.Time,
	limit int,
) ([]*shipping.Record, error) {
	var dtos []RecordDTO
	err := r.db.WithContext(ctx).
		Joins("JOIN orders ON orders.id = shipping_records.order_id").
		Where("orders.state = ? AND shipping_records.delivered_at < ?", order.Delivered.String(), cutoff).
		Order("shipping_records.delivered_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

package orderrepo

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

type OrderDTO struct {
	ID                  int64           `gorm:"primaryKey;autoIncrement"`
	Code                string          `gorm:"size:64;uniqueIndex;not null"`
	State               string          `gorm:"size:32;index;not null"`
	OriginalAmount      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Tax                 decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Discount            decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	ShippingFee         decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	GrandTotal          decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	PaymentMethod       string          `gorm:"size:16;not null"`
	Paid                bool            `gorm:"not null;default:false"`
	RefundRequired      bool            `gorm:"not null;default:false"`
	FailedDeliveryCount int             `gorm:"not null;default:0"`
	CancelReason        string          `gorm:"type:text"`
	Note                string          `gorm:"type:text"`
	Items               []OrderItemDTO  `gorm:"foreignKey:OrderID"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (OrderDTO) TableName() string {
	return "orders"
}

type OrderItemDTO struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	OrderID   int64           `gorm:"index;not null"`
	ProductID int64           `gorm:"not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(14,2);not null"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

// mutableColumns are the only columns a transition may write.
var mutableColumns = []string{
	"state", "paid", "refund_required", "failed_delivery_count",
	"cancel_reason", "note", "updated_at",
}

func fromDomain(o *order.Order) OrderDTO {
	amounts := o.Amounts()
	items := make([]OrderItemDTO, 0, len(o.Items()))
	for _, li := range o.Items() {
		items = append(items, OrderItemDTO{
			OrderID:   o.ID(),
			ProductID: li.ProductID(),
			Quantity:  li.Quantity(),
			UnitPrice: li.UnitPrice(),
		})
	}

	return OrderDTO{
		ID:                  o.ID(),
		Code:                o.Code(),
		State:               o.State().String(),
		OriginalAmount:      amounts.Original(),
		Tax:                 amounts.Tax(),
		Discount:            amounts.Discount(),
		ShippingFee:         amounts.ShippingFee(),
		GrandTotal:          amounts.GrandTotal(),
		PaymentMethod:       string(o.PaymentMethod()),
		Paid:                o.IsPaid(),
		RefundRequired:      o.RefundRequired(),
		FailedDeliveryCount: o.FailedDeliveryCount(),
		CancelReason:        o.CancelReason(),
		Note:                o.Note(),
		Items:               items,
		CreatedAt:           o.CreatedAt(),
		UpdatedAt:           o.UpdatedAt(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	state, err := order.ParseState(dto.State)
	if err != nil {
		return nil, err
	}

	amounts, err := order.NewAmounts(dto.OriginalAmount, dto.Tax, dto.Discount, dto.ShippingFee, dto.GrandTotal)
	if err != nil {
		return nil, err
	}

	items := make([]order.LineItem, 0, len(dto.Items))
	var itemErrs []error
	for _, it := range dto.Items {
		li, itemErr := order.NewLineItem(it.ProductID, it.Quantity, it.UnitPrice)
		if itemErr != nil {
			itemErrs = append(itemErrs, itemErr)
			continue
		}
		items = append(items, li)
	}
	if err = errors.Join(itemErrs...); err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.RestoreParams{
		ID:                  dto.ID,
		Code:                dto.Code,
		State:               state,
		Amounts:             amounts,
		PaymentMethod:       order.PaymentMethod(dto.PaymentMethod),
		Paid:                dto.Paid,
		RefundRequired:      dto.RefundRequired,
		FailedDeliveryCount: dto.FailedDeliveryCount,
		CancelReason:        dto.CancelReason,
		Note:                dto.Note,
		Items:               items,
		CreatedAt:           dto.CreatedAt,
		UpdatedAt:           dto.UpdatedAt,
	})
}

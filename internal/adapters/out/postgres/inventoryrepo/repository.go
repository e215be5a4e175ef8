package inventoryrepo

import (
	"context"
	"fmt"

	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

type GormInventoryRepository struct {
	db *gorm.DB
}

func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// Restock increments stock atomically in SQL so concurrent restocks of the
// same product never lose an update.
func (r *GormInventoryRepository) Restock(ctx context.Context, productID int64, quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("restock quantity", fmt.Errorf("%d is not positive", quantity))
	}

	result := r.db.WithContext(ctx).
		Model(&ProductDTO{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("productID", productID)
	}
	return nil
}

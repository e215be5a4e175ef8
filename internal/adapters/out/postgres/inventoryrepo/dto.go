package inventoryrepo

// ProductDTO maps the catalog's products table. Only stock is touched here;
// the catalog service owns every other column.
type ProductDTO struct {
	ID    int64 `gorm:"primaryKey"`
	Stock int   `gorm:"not null;default:0"`
}

func (ProductDTO) TableName() string {
	return "products"
}
